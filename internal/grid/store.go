// Package grid owns the in-memory bookshelf and its mutations.
//
// Every index-taking operation tolerates stale positions: an index that
// does not resolve to an existing shelf or book turns the call into a no-op
// that reports false. Mutations are serialized so a metadata lookup
// finishing in the background cannot interleave with a user's move.
package grid

import (
	"strings"
	"sync"

	"github.com/blackwell-systems/bookgrid/internal/catalog"
	"github.com/blackwell-systems/bookgrid/internal/sorter"
)

// Store is the single owner of a bookshelf for a session.
type Store struct {
	mu      sync.Mutex
	shelves catalog.Bookshelf
}

// New returns a store seeded with a copy of shelves.
func New(shelves catalog.Bookshelf) *Store {
	s := &Store{}
	s.Replace(shelves)
	return s
}

// Replace swaps the whole grid for a copy of shelves.
func (s *Store) Replace(shelves catalog.Bookshelf) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shelves = shelves.Clone()
}

// Snapshot returns a deep copy of the current grid.
func (s *Store) Snapshot() catalog.Bookshelf {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shelves.Clone()
}

// Len returns the number of shelves.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shelves)
}

// Records returns the number of books across all shelves.
func (s *Store) Records() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shelves.Records()
}

// Shelf returns a copy of the shelf at index.
func (s *Store) Shelf(index int) (catalog.Shelf, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validRow(index) {
		return catalog.Shelf{}, false
	}
	return s.shelves[index].Clone(), true
}

// CreateShelf appends an empty shelf and returns its index. The name is
// stored as given; callers trim it.
func (s *Store) CreateShelf(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shelves = append(s.shelves, catalog.Shelf{Name: name, Books: []catalog.Book{}})
	return len(s.shelves) - 1
}

// RenameShelf sets the shelf's name to the trimmed name. Blank names and
// bad indices are ignored.
func (s *Store) RenameShelf(index int, name string) bool {
	name = strings.TrimSpace(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validRow(index) || name == "" {
		return false
	}
	s.shelves[index].Name = name
	return true
}

// InsertRecord places book at col on shelf row, clamping col into
// [0, len(books)].
func (s *Store) InsertRecord(row, col int, book catalog.Book) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validRow(row) {
		return false
	}
	s.insert(row, col, book)
	return true
}

// InsertFirst places book at (0, 0), first creating a shelf called
// defaultShelf when the grid has none.
func (s *Store) InsertFirst(defaultShelf string, book catalog.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.shelves) == 0 {
		s.shelves = append(s.shelves, catalog.Shelf{Name: defaultShelf, Books: []catalog.Book{}})
	}
	s.insert(0, 0, book)
}

// MoveRecord moves the book at (fromRow, fromCol) to (toRow, toCol).
//
// toCol is read in the destination shelf's coordinates after the book has
// been lifted out, so moving right along the same shelf lands the book
// before whatever sat at toCol. The book is never lost or duplicated.
func (s *Store) MoveRecord(fromRow, fromCol, toRow, toCol int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validRow(fromRow) || !s.validRow(toRow) || !s.validCol(fromRow, fromCol) {
		return false
	}
	book := s.remove(fromRow, fromCol)
	if fromRow == toRow && fromCol < toCol {
		toCol--
	}
	s.insert(toRow, toCol, book)
	return true
}

// RemoveRecord deletes the book at (row, col), shifting later books down.
func (s *Store) RemoveRecord(row, col int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validRow(row) || !s.validCol(row, col) {
		return false
	}
	s.remove(row, col)
	return true
}

// SortShelf orders the shelf at index by field.
func (s *Store) SortShelf(index int, field catalog.Field) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.validRow(index) || !field.Valid() {
		return false
	}
	sorter.Sort(s.shelves[index].Books, field)
	return true
}

func (s *Store) validRow(row int) bool {
	return row >= 0 && row < len(s.shelves)
}

func (s *Store) validCol(row, col int) bool {
	return col >= 0 && col < len(s.shelves[row].Books)
}

func (s *Store) remove(row, col int) catalog.Book {
	books := s.shelves[row].Books
	book := books[col]
	s.shelves[row].Books = append(books[:col], books[col+1:]...)
	return book
}

func (s *Store) insert(row, col int, book catalog.Book) {
	books := s.shelves[row].Books
	col = max(0, min(col, len(books)))
	books = append(books, catalog.Book{})
	copy(books[col+1:], books[col:])
	books[col] = book
	s.shelves[row].Books = books
}
