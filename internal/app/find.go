package app

import (
	"fmt"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/spf13/cobra"
)

func newFindCmd() *cobra.Command {
	var shelf string

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find books in the grid by title, author or publisher",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			f := catalog.Filter{Search: args[0], Shelf: shelf}
			matches := f.Apply(sess.Store().Snapshot())
			if len(matches) == 0 {
				warn("No books match %q", args[0])
				return nil
			}
			for _, m := range matches {
				fmt.Printf("  (%d, %d)  %-20s %s\n", m.Row, m.Col, m.Shelf, bookLine(m.Book))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&shelf, "shelf", "", "Only search this shelf (by name)")
	return cmd
}
