package sorter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
)

func TestSort_PanickingAccessorSortsAsDefault(t *testing.T) {
	orig := readKey
	t.Cleanup(func() { readKey = orig })
	readKey = func(field catalog.Field, b catalog.Book) key {
		if b.Title == "bad" {
			panic("unreadable record")
		}
		return fieldKey(field, b)
	}

	books := []catalog.Book{
		{Title: "a", Price: "5"},
		{Title: "bad", Price: "9"},
		{Title: "c", Price: "1"},
		{Title: "d"},
	}
	assert.NotPanics(t, func() { Sort(books, catalog.FieldPrice) })

	got := make([]string, len(books))
	for i, b := range books {
		got[i] = b.Title
	}
	// "bad" keys as 0 and keeps its place before the other 0, "d".
	assert.Equal(t, []string{"bad", "d", "c", "a"}, got)
	assert.Equal(t, key{}, extract(catalog.FieldPrice, catalog.Book{Title: "bad"}))
}
