package app

import (
	"fmt"

	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/spf13/cobra"
)

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <from-shelf> <from-pos> <to-shelf> <to-pos>",
		Short: "Move a book to another position or shelf",
		Long: `Move a book. Shelves are given by index or name, positions by index.

The destination position is counted after the book has been lifted out,
so "move 0 2 0 5" places the book just before the book that was at 5.
Positions past the end append.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromCol, err := parsePosition("from-pos", args[1])
			if err != nil {
				return err
			}
			toCol, err := parsePosition("to-pos", args[3])
			if err != nil {
				return err
			}

			var fromRow, toRow int
			err = sess.Update(cmd.Context(), func(st *grid.Store) error {
				var err error
				if fromRow, err = resolveShelf(st, args[0]); err != nil {
					return err
				}
				if toRow, err = resolveShelf(st, args[2]); err != nil {
					return err
				}
				if !st.MoveRecord(fromRow, fromCol, toRow, toCol) {
					return fmt.Errorf("no book at (%d, %d)", fromRow, fromCol)
				}
				return nil
			})
			if err != nil {
				return err
			}
			ok("Moved (%d, %d) to shelf %d", fromRow, fromCol, toRow)
			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <shelf> <pos>",
		Aliases: []string{"rm"},
		Short:   "Remove a book from a shelf",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := parsePosition("pos", args[1])
			if err != nil {
				return err
			}

			var row int
			var title string
			err = sess.Update(cmd.Context(), func(st *grid.Store) error {
				var err error
				if row, err = resolveShelf(st, args[0]); err != nil {
					return err
				}
				if shelf, _ := st.Shelf(row); col < len(shelf.Books) {
					title = shelf.Books[col].Title
				}
				if !st.RemoveRecord(row, col) {
					return fmt.Errorf("no book at (%d, %d)", row, col)
				}
				return nil
			})
			if err != nil {
				return err
			}
			ok("Removed %q from (%d, %d)", title, row, col)
			return nil
		},
	}
}
