package catalog

import (
	"fmt"
	"strings"
)

// Field names a sortable book attribute.
type Field string

const (
	FieldTitle       Field = "title"
	FieldAuthor      Field = "author"
	FieldPublisher   Field = "publisher"
	FieldPubDate     Field = "pub_date"
	FieldPrice       Field = "price"
	FieldRating      Field = "rating"
	FieldRatingCount Field = "rating_count"
)

// Fields lists every field in menu order.
var Fields = []Field{
	FieldTitle,
	FieldAuthor,
	FieldPublisher,
	FieldPubDate,
	FieldPrice,
	FieldRating,
	FieldRatingCount,
}

// Kind selects how a field is compared.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindNumeric
)

type fieldDef struct {
	label string
	kind  Kind
	text  func(Book) string
	num   func(Book) Number
}

var fieldDefs = map[Field]fieldDef{
	FieldTitle:       {label: "Title", kind: KindText, text: func(b Book) string { return b.Title }},
	FieldAuthor:      {label: "Author", kind: KindText, text: func(b Book) string { return b.Author }},
	FieldPublisher:   {label: "Publisher", kind: KindText, text: func(b Book) string { return b.Publisher }},
	FieldPubDate:     {label: "Published", kind: KindDate, text: func(b Book) string { return b.PubDate }},
	FieldPrice:       {label: "Price", kind: KindNumeric, num: func(b Book) Number { return b.Price }},
	FieldRating:      {label: "Rating", kind: KindNumeric, num: func(b Book) Number { return b.Rating }},
	FieldRatingCount: {label: "Ratings", kind: KindNumeric, num: func(b Book) Number { return b.RatingCount }},
}

// ParseField resolves a user-supplied field key. Hyphens and case are
// tolerated ("rating-count", "Pub_Date").
func ParseField(s string) (Field, error) {
	f := Field(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if _, ok := fieldDefs[f]; !ok {
		return "", fmt.Errorf("unknown field %q (want one of %s)", s, fieldList())
	}
	return f, nil
}

// Valid reports whether f is one of the known fields.
func (f Field) Valid() bool {
	_, ok := fieldDefs[f]
	return ok
}

// Kind returns the comparison kind; unknown fields compare as text.
func (f Field) Kind() Kind {
	return fieldDefs[f].kind
}

// Label returns a short display name.
func (f Field) Label() string {
	if def, ok := fieldDefs[f]; ok {
		return def.label
	}
	return string(f)
}

// Text returns the field as text. Numeric fields return their raw text.
func (f Field) Text(b Book) string {
	def, ok := fieldDefs[f]
	switch {
	case !ok:
		return ""
	case def.text != nil:
		return def.text(b)
	default:
		return string(def.num(b))
	}
}

// Number returns the numeric value of f, or 0 for text fields and values
// that do not parse.
func (f Field) Number(b Book) float64 {
	def, ok := fieldDefs[f]
	if !ok || def.num == nil {
		return 0
	}
	return def.num(b).Float()
}

func fieldList() string {
	names := make([]string, len(Fields))
	for i, f := range Fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
