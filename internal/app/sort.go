package app

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/spf13/cobra"
)

func newSortCmd() *cobra.Command {
	names := make([]string, len(catalog.Fields))
	for i, f := range catalog.Fields {
		names[i] = string(f)
	}

	return &cobra.Command{
		Use:   "sort <shelf> <field>",
		Short: "Sort one shelf ascending by a field",
		Long: fmt.Sprintf(`Sort the books on a shelf, ascending and stable.

Fields: %s

Text fields compare case-insensitively, pub_date compares as written and
numeric fields compare as numbers with blanks and junk counted as 0.`, strings.Join(names, ", ")),
		Args:      cobra.ExactArgs(2),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := catalog.ParseField(args[1])
			if err != nil {
				return err
			}
			var row int
			err = sess.Update(cmd.Context(), func(st *grid.Store) error {
				var err error
				if row, err = resolveShelf(st, args[0]); err != nil {
					return err
				}
				st.SortShelf(row, field)
				return nil
			})
			if err != nil {
				return err
			}
			ok("Sorted shelf %d by %s", row, field.Label())
			return nil
		},
	}
}
