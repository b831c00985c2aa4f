package sorter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/sorter"
)

func prices(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = string(b.Price)
	}
	return out
}

func titles(books []catalog.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.Title
	}
	return out
}

func TestSort_NumericPrice(t *testing.T) {
	books := []catalog.Book{{Price: ""}, {Price: "10"}, {Price: "2.5"}, {Price: "7"}}
	sorter.Sort(books, catalog.FieldPrice)
	assert.Equal(t, []string{"", "2.5", "7", "10"}, prices(books))
}

func TestSort_NumericGarbageIsZero(t *testing.T) {
	books := []catalog.Book{
		{Title: "a", Rating: "8"},
		{Title: "b", Rating: "n/a"},
		{Title: "c", Rating: "-1"},
		{Title: "d"},
	}
	sorter.Sort(books, catalog.FieldRating)
	assert.Equal(t, []string{"c", "b", "d", "a"}, titles(books))
}

func TestSort_TextCaseInsensitiveEmptyFirst(t *testing.T) {
	books := []catalog.Book{{Title: "banana"}, {Title: "Apple"}, {Title: ""}, {Title: "cherry"}}
	sorter.Sort(books, catalog.FieldTitle)
	assert.Equal(t, []string{"", "Apple", "banana", "cherry"}, titles(books))
}

func TestSort_PubDateLexical(t *testing.T) {
	books := []catalog.Book{
		{Title: "new", PubDate: "2020-01-02"},
		{Title: "old", PubDate: "1999-12-31"},
		{Title: "none"},
	}
	sorter.Sort(books, catalog.FieldPubDate)
	assert.Equal(t, []string{"none", "old", "new"}, titles(books))
}

func TestSort_PubDateIsCaseSensitive(t *testing.T) {
	books := []catalog.Book{{Title: "lower", PubDate: "b"}, {Title: "upper", PubDate: "B"}}
	sorter.Sort(books, catalog.FieldPubDate)
	assert.Equal(t, []string{"upper", "lower"}, titles(books))
}

func TestSort_StableForEqualKeys(t *testing.T) {
	books := []catalog.Book{
		{Title: "first", Author: "same"},
		{Title: "x", Author: "Alpha"},
		{Title: "second", Author: "SAME"},
		{Title: "blank-1"},
		{Title: "third", Author: "same"},
		{Title: "blank-2"},
	}
	sorter.Sort(books, catalog.FieldAuthor)
	assert.Equal(t, []string{"blank-1", "blank-2", "x", "first", "second", "third"}, titles(books))
}

func TestSort_Idempotent(t *testing.T) {
	books := []catalog.Book{
		{Title: "c", RatingCount: "3"},
		{Title: "a", RatingCount: "1"},
		{Title: "b", RatingCount: "1"},
		{Title: "d"},
	}
	for _, f := range catalog.Fields {
		once := append([]catalog.Book(nil), books...)
		sorter.Sort(once, f)
		twice := append([]catalog.Book(nil), once...)
		sorter.Sort(twice, f)
		assert.Equal(t, titles(once), titles(twice), "field %s", f)
	}
}

func TestSort_UnknownFieldNoop(t *testing.T) {
	books := []catalog.Book{{Title: "b"}, {Title: "a"}}
	sorter.Sort(books, catalog.Field("isbn"))
	assert.Equal(t, []string{"b", "a"}, titles(books))
}

func TestSort_EmptyAndSingle(t *testing.T) {
	assert.NotPanics(t, func() { sorter.Sort(nil, catalog.FieldTitle) })
	one := []catalog.Book{{Title: "only"}}
	sorter.Sort(one, catalog.FieldPrice)
	assert.Equal(t, []string{"only"}, titles(one))
}
