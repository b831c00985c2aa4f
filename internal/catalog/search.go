package catalog

import "strings"

// Filter selects books by a case-insensitive substring.
type Filter struct {
	Search string // matches title, author or publisher
	Shelf  string // exact shelf name; empty means every shelf
}

// Match is a book together with its grid position.
type Match struct {
	Row   int
	Col   int
	Shelf string
	Book  Book
}

// Apply returns every matching book in grid order.
func (f Filter) Apply(shelves Bookshelf) []Match {
	var out []Match
	for row, s := range shelves {
		if f.Shelf != "" && s.Name != f.Shelf {
			continue
		}
		for col, b := range s.Books {
			if f.Search != "" && !matchesSearch(b, f.Search) {
				continue
			}
			out = append(out, Match{Row: row, Col: col, Shelf: s.Name, Book: b})
		}
	}
	return out
}

// ShelfByName returns the index of the first shelf named name, or -1.
func ShelfByName(shelves Bookshelf, name string) int {
	for i := range shelves {
		if shelves[i].Name == name {
			return i
		}
	}
	return -1
}

func matchesSearch(b Book, q string) bool {
	q = strings.ToLower(q)
	for _, v := range []string{b.Title, b.Author, b.Publisher} {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}
