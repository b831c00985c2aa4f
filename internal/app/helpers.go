package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/grid"
	"github.com/fatih/color"
)

// errUnchanged tells Session.Update that nothing needs saving.
var errUnchanged = errors.New("unchanged")

// ok prints a green success line.
func ok(format string, a ...interface{}) {
	fmt.Println(color.GreenString("✓"), fmt.Sprintf(format, a...))
}

// warn prints a yellow warning line.
func warn(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, color.YellowString("!"), fmt.Sprintf(format, a...))
}

// header prints a cyan section heading.
func header(format string, a ...interface{}) {
	fmt.Println(color.CyanString(fmt.Sprintf(format, a...)))
}

// resolveShelf finds a shelf by exact name first, then by index.
func resolveShelf(store *grid.Store, ref string) (int, error) {
	shelves := store.Snapshot()
	if i := catalog.ShelfByName(shelves, ref); i >= 0 {
		return i, nil
	}
	if i, err := strconv.Atoi(strings.TrimSpace(ref)); err == nil {
		if i >= 0 && i < len(shelves) {
			return i, nil
		}
		return -1, fmt.Errorf("shelf index %d out of range (have %d shelves)", i, len(shelves))
	}
	return -1, fmt.Errorf("shelf %q not found", ref)
}

// parsePosition parses a non-negative index argument.
func parsePosition(name, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer, got %q", name, s)
	}
	return n, nil
}

// bookLine is the one-line form used by list output.
func bookLine(b catalog.Book) string {
	title := b.Title
	if title == "" {
		title = color.HiBlackString("(untitled)")
	}
	var extra []string
	if b.Author != "" {
		extra = append(extra, b.Author)
	}
	if b.Publisher != "" {
		extra = append(extra, b.Publisher)
	}
	if b.PubDate != "" {
		extra = append(extra, b.PubDate)
	}
	if len(extra) == 0 {
		return title
	}
	return title + color.HiBlackString("  "+strings.Join(extra, " · "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
