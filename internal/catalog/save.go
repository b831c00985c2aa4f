package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Marshal encodes the grid in the given format.
func Marshal(shelves Bookshelf, format Format) ([]byte, error) {
	if shelves == nil {
		shelves = Bookshelf{}
	}
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(normalize(shelves)); err != nil {
			return nil, fmt.Errorf("encoding bookshelf: %w", err)
		}
	default:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(normalize(shelves)); err != nil {
			return nil, fmt.Errorf("encoding bookshelf: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding bookshelf: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// normalize writes empty shelves as "books: []" rather than null.
func normalize(shelves Bookshelf) Bookshelf {
	out := make(Bookshelf, len(shelves))
	for i, s := range shelves {
		out[i] = s
		if out[i].Books == nil {
			out[i].Books = []Book{}
		}
	}
	return out
}
