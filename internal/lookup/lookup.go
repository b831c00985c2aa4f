// Package lookup adds books to a grid from external metadata providers: a
// keyword search provider and a cover image recognizer.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/grid"
)

// ErrNoProvider is returned when an operation needs a provider that is not
// configured.
var ErrNoProvider = errors.New("metadata provider not configured")

// Candidate is one search hit, enough to fetch its details later.
type Candidate struct {
	ID     string
	Title  string
	Author string
}

// Hint is a book proposed by image recognition.
type Hint struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher,omitempty"`
}

// Searcher finds books by keyword and fetches a candidate's full record.
type Searcher interface {
	SearchBooks(ctx context.Context, keyword string) ([]Candidate, error)
	BookDetails(ctx context.Context, c Candidate) (catalog.Book, error)
}

// Recognizer proposes books seen in an image.
type Recognizer interface {
	RecognizeBooks(ctx context.Context, image string) ([]Hint, error)
}

// Outcome reports whether a book was added. A not-found outcome carries a
// message meant for the user and leaves the grid untouched.
type Outcome struct {
	Found   bool
	Book    catalog.Book
	Message string
}

func notFound(msg string) Outcome { return Outcome{Message: msg} }

// Ingestor inserts provider results at the front of the first shelf.
type Ingestor struct {
	Searcher     Searcher
	Recognizer   Recognizer
	DefaultShelf string
	Logger       *slog.Logger
}

func (in *Ingestor) logger() *slog.Logger {
	if in.Logger != nil {
		return in.Logger
	}
	return slog.Default()
}

func (in *Ingestor) defaultShelf() string {
	if in.DefaultShelf != "" {
		return in.DefaultShelf
	}
	return "default"
}

// AddFromSearch searches for keyword and inserts the first result at (0, 0),
// creating the default shelf if the grid is empty.
func (in *Ingestor) AddFromSearch(ctx context.Context, store *grid.Store, keyword string) (Outcome, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return notFound("enter a keyword"), nil
	}
	if in.Searcher == nil {
		return Outcome{}, fmt.Errorf("search: %w", ErrNoProvider)
	}

	results, err := in.Searcher.SearchBooks(ctx, keyword)
	if err != nil {
		return Outcome{}, fmt.Errorf("searching %q: %w", keyword, err)
	}
	if len(results) == 0 {
		return notFound(fmt.Sprintf("no matching books for %q", keyword)), nil
	}
	return in.insertFirst(ctx, store, results[0])
}

// AddFromImage recognizes books in image, searches for the first one by
// "title publisher" and then by title alone, and inserts the first result
// at (0, 0).
func (in *Ingestor) AddFromImage(ctx context.Context, store *grid.Store, image string) (Outcome, error) {
	if in.Recognizer == nil {
		return Outcome{}, fmt.Errorf("recognize: %w", ErrNoProvider)
	}
	if in.Searcher == nil {
		return Outcome{}, fmt.Errorf("search: %w", ErrNoProvider)
	}

	hints, err := in.Recognizer.RecognizeBooks(ctx, image)
	if err != nil {
		return Outcome{}, fmt.Errorf("recognizing %s: %w", image, err)
	}
	if len(hints) == 0 || strings.TrimSpace(hints[0].Title) == "" {
		return notFound("no books recognized in image"), nil
	}
	first := hints[0]
	in.logger().Debug("recognized books", "count", len(hints), "title", first.Title, "publisher", first.Publisher)

	query := strings.TrimSpace(first.Title + " " + first.Publisher)
	results, err := in.Searcher.SearchBooks(ctx, query)
	if err != nil {
		return Outcome{}, fmt.Errorf("searching %q: %w", query, err)
	}
	if len(results) == 0 {
		title := strings.TrimSpace(first.Title)
		if title != query {
			results, err = in.Searcher.SearchBooks(ctx, title)
			if err != nil {
				return Outcome{}, fmt.Errorf("searching %q: %w", title, err)
			}
		}
	}
	if len(results) == 0 {
		return notFound(fmt.Sprintf("no matching books for %q", first.Title)), nil
	}
	return in.insertFirst(ctx, store, results[0])
}

func (in *Ingestor) insertFirst(ctx context.Context, store *grid.Store, c Candidate) (Outcome, error) {
	book, err := in.Searcher.BookDetails(ctx, c)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetching details for %q: %w", c.Title, err)
	}
	store.InsertFirst(in.defaultShelf(), book)
	in.logger().Info("book added", "title", book.Title, "candidate", c.ID)
	return Outcome{Found: true, Book: book, Message: fmt.Sprintf("added %q", book.Title)}, nil
}
