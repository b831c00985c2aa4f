package app

import (
	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var (
		at                         int
		book                       catalog.Book
		price, rating, ratingCount string
	)

	cmd := &cobra.Command{
		Use:   "add <shelf>",
		Short: "Add a book to a shelf by hand",
		Long: `Insert a book on a shelf. Positions past the end append; --at 0 puts the
book first.

Examples:
  bookgrid add fiction --title Dune --author "Frank Herbert"
  bookgrid add 0 --at 0 --title SICP --price 59.00 --rating 9.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book.Price = catalog.Number(price)
			book.Rating = catalog.Number(rating)
			book.RatingCount = catalog.Number(ratingCount)

			var row, col int
			err := sess.Update(cmd.Context(), func(st *grid.Store) error {
				var err error
				if row, err = resolveShelf(st, args[0]); err != nil {
					return err
				}
				col = at
				if shelf, _ := st.Shelf(row); col < 0 || col > len(shelf.Books) {
					col = len(shelf.Books)
				}
				st.InsertRecord(row, col, book)
				return nil
			})
			if err != nil {
				return err
			}
			ok("Added %s at (%d, %d)", bookLine(book), row, col)
			return nil
		},
	}

	cmd.Flags().IntVar(&at, "at", -1, "Position on the shelf (default: end)")
	cmd.Flags().StringVar(&book.Title, "title", "", "Title")
	cmd.Flags().StringVar(&book.Author, "author", "", "Author")
	cmd.Flags().StringVar(&book.Publisher, "publisher", "", "Publisher")
	cmd.Flags().StringVar(&book.PubDate, "pub-date", "", "Publication date, e.g. 2005-08")
	cmd.Flags().StringVar(&price, "price", "", "Price")
	cmd.Flags().StringVar(&rating, "rating", "", "Rating")
	cmd.Flags().StringVar(&ratingCount, "rating-count", "", "Number of ratings")
	return cmd
}
