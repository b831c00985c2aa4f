package app

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newShelvesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shelves",
		Short: "List shelves with their book counts",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			shelves := sess.Store().Snapshot()
			if len(shelves) == 0 {
				warn("No shelves yet. Run: bookgrid shelf create <name>")
				return nil
			}
			header("%d shelves, %d books  (%s)", len(shelves), shelves.Records(), sess.Location())
			for i, s := range shelves {
				fmt.Printf("  %3d  %-30s %s\n", i, s.Name, color.HiBlackString("%d books", len(s.Books)))
			}
			return nil
		},
	}
}

func newShelfCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Create or rename shelves",
	}
	cmd.AddCommand(newShelfCreateCmd(), newShelfRenameCmd())
	return cmd
}

func newShelfCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Append an empty shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("shelf name cannot be blank")
			}
			var index int
			err := sess.Update(cmd.Context(), func(st *grid.Store) error {
				index = st.CreateShelf(name)
				return nil
			})
			if err != nil {
				return err
			}
			ok("Created shelf %d %q", index, name)
			return nil
		},
	}
}

func newShelfRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <shelf> <new-name>",
		Short: "Rename a shelf (by index or name)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var index int
			err := sess.Update(cmd.Context(), func(st *grid.Store) error {
				var err error
				if index, err = resolveShelf(st, args[0]); err != nil {
					return err
				}
				if !st.RenameShelf(index, args[1]) {
					return fmt.Errorf("shelf name cannot be blank")
				}
				return nil
			})
			if err != nil {
				return err
			}
			ok("Renamed shelf %d to %q", index, strings.TrimSpace(args[1]))
			return nil
		},
	}
}
