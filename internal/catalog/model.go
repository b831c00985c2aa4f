package catalog

// Book is one entry on a shelf. Every field is optional: missing text reads
// as "" and missing numbers read as 0.
type Book struct {
	Title       string `yaml:"title,omitempty" json:"title,omitempty"`
	Author      string `yaml:"author,omitempty" json:"author,omitempty"`
	Publisher   string `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	PubDate     string `yaml:"pub_date,omitempty" json:"pub_date,omitempty"`
	Price       Number `yaml:"price,omitempty" json:"price,omitempty"`
	Rating      Number `yaml:"rating,omitempty" json:"rating,omitempty"`
	RatingCount Number `yaml:"rating_count,omitempty" json:"rating_count,omitempty"`
}

// Shelf is a named, ordered row of books.
type Shelf struct {
	Name  string `yaml:"row_name" json:"row_name"`
	Books []Book `yaml:"books" json:"books"`
}

// Bookshelf is the whole grid: shelves in display order.
type Bookshelf []Shelf

// Clone returns a deep copy that shares no slices with s.
func (s Shelf) Clone() Shelf {
	out := Shelf{Name: s.Name, Books: make([]Book, len(s.Books))}
	copy(out.Books, s.Books)
	return out
}

// Clone returns a deep copy of the grid.
func (b Bookshelf) Clone() Bookshelf {
	out := make(Bookshelf, len(b))
	for i := range b {
		out[i] = b[i].Clone()
	}
	return out
}

// Records returns the number of books across all shelves.
func (b Bookshelf) Records() int {
	n := 0
	for _, s := range b {
		n += len(s.Books)
	}
	return n
}

// Equal reports whether a and b hold the same shelves, names and books in
// the same order. Absent fields and their defaults compare equal.
func Equal(a, b Bookshelf) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || len(a[i].Books) != len(b[i].Books) {
			return false
		}
		for j := range a[i].Books {
			if !a[i].Books[j].Equal(b[i].Books[j]) {
				return false
			}
		}
	}
	return true
}

// Equal reports field-for-field equality.
func (b Book) Equal(o Book) bool {
	return b.Title == o.Title &&
		b.Author == o.Author &&
		b.Publisher == o.Publisher &&
		b.PubDate == o.PubDate &&
		b.Price.Equal(o.Price) &&
		b.Rating.Equal(o.Rating) &&
		b.RatingCount.Equal(o.RatingCount)
}
