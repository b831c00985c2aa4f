package catalog

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an on-disk encoding of the grid.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the encoding from a file extension. Anything that is
// not .json is YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes bytes in the given format into a grid.
func Parse(data []byte, format Format) (Bookshelf, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Bookshelf{}, nil
	}
	var shelves Bookshelf
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &shelves); err != nil {
			return nil, fmt.Errorf("parsing bookshelf JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &shelves); err != nil {
			return nil, fmt.Errorf("parsing bookshelf YAML: %w", err)
		}
	}
	if shelves == nil {
		return Bookshelf{}, nil
	}
	for i := range shelves {
		if shelves[i].Books == nil {
			shelves[i].Books = []Book{}
		}
	}
	return shelves, nil
}
