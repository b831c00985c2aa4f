// Package sorter orders a shelf's books by a single field.
package sorter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
)

// key is the precomputed comparison value for one book.
type key struct {
	text string
	num  float64
}

type keyed struct {
	key  key
	book catalog.Book
}

// Sort reorders books in place, ascending and stable, by field. Numeric
// fields compare as floats with missing or unparsable values as 0,
// pub_date compares raw text, and the remaining text fields compare case
// insensitively. Unknown fields leave the order untouched.
func Sort(books []catalog.Book, field catalog.Field) {
	if !field.Valid() || len(books) < 2 {
		return
	}
	items := make([]keyed, len(books))
	for i, b := range books {
		items[i] = keyed{key: extract(field, b), book: b}
	}
	compare := comparator(field.Kind())
	slices.SortStableFunc(items, func(a, b keyed) int {
		return compare(a.key, b.key)
	})
	for i := range items {
		books[i] = items[i].book
	}
}

// readKey is the per-book accessor; tests swap it.
var readKey = fieldKey

// extract reads one book's key. A failing accessor yields the zero key.
func extract(field catalog.Field, b catalog.Book) (k key) {
	defer func() {
		if recover() != nil {
			k = key{}
		}
	}()
	return readKey(field, b)
}

func fieldKey(field catalog.Field, b catalog.Book) key {
	switch field.Kind() {
	case catalog.KindNumeric:
		return key{num: field.Number(b)}
	case catalog.KindDate:
		return key{text: field.Text(b)}
	default:
		return key{text: strings.ToLower(field.Text(b))}
	}
}

func comparator(kind catalog.Kind) func(a, b key) int {
	if kind == catalog.KindNumeric {
		return func(a, b key) int { return cmp.Compare(a.num, b.num) }
	}
	return func(a, b key) int { return strings.Compare(a.text, b.text) }
}
