package app

import (
	"fmt"
	"strings"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newShowCmd() *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "show [shelf]",
		Short: "Print the books on one shelf, or on every shelf",
		Long: `Print books with their grid positions.

Examples:
  bookgrid show                 Every shelf
  bookgrid show fiction         One shelf by name
  bookgrid show 0 --markdown    First shelf as a rendered table`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			shelves := sess.Store().Snapshot()
			rows := make([]int, 0, len(shelves))
			if len(args) == 1 {
				i, err := resolveShelf(sess.Store(), args[0])
				if err != nil {
					return err
				}
				rows = append(rows, i)
			} else {
				for i := range shelves {
					rows = append(rows, i)
				}
			}
			if len(rows) == 0 {
				warn("The grid is empty.")
				return nil
			}

			if markdown {
				return renderMarkdown(shelvesMarkdown(shelves, rows))
			}
			for _, i := range rows {
				s := shelves[i]
				header("[%d] %s  (%d books)", i, s.Name, len(s.Books))
				for j, b := range s.Books {
					fmt.Printf("  %3d  %s\n", j, bookLine(b))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render shelves as markdown tables")
	return cmd
}

// shelvesMarkdown builds one table per selected shelf with every field.
func shelvesMarkdown(shelves catalog.Bookshelf, rows []int) string {
	var b strings.Builder
	for _, i := range rows {
		s := shelves[i]
		fmt.Fprintf(&b, "## %d. %s\n\n", i, mdEscape(s.Name))
		if len(s.Books) == 0 {
			b.WriteString("_empty shelf_\n\n")
			continue
		}
		b.WriteString("| # |")
		for _, f := range catalog.Fields {
			b.WriteString(" " + f.Label() + " |")
		}
		b.WriteString("\n|---|")
		for range catalog.Fields {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		for j, book := range s.Books {
			fmt.Fprintf(&b, "| %d |", j)
			for _, f := range catalog.Fields {
				b.WriteString(" " + mdEscape(orDash(f.Text(book))) + " |")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

func renderMarkdown(md string) error {
	style := "dark"
	if color.NoColor {
		style = "notty"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
