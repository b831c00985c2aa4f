package catalog

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Number holds the raw text of a numeric field exactly as the provider gave
// it ("59.00", "8.7", "1204"). Scrapers hand back whatever the page showed,
// so the text is kept verbatim and only interpreted when compared.
type Number string

// Float returns the numeric value, or 0 when the text is empty, not a
// number, NaN or infinite.
func (n Number) Float() float64 {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// IsNumeric reports whether the text parses as a finite number.
func (n Number) IsNumeric() bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Equal compares raw text; empty and zero-valued numbers are equal.
func (n Number) Equal(o Number) bool {
	a, b := strings.TrimSpace(string(n)), strings.TrimSpace(string(o))
	if a == b {
		return true
	}
	return n.isZero() && o.isZero()
}

func (n Number) isZero() bool {
	s := strings.TrimSpace(string(n))
	return s == "" || (n.IsNumeric() && n.Float() == 0)
}

// UnmarshalYAML accepts any scalar, quoted or not.
func (n *Number) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: numeric field must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*n = ""
		return nil
	}
	*n = Number(node.Value)
	return nil
}

// MarshalYAML writes numeric text as a plain number and anything else as a
// string, keeping the raw text intact.
func (n Number) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.ScalarNode, Value: string(n)}
	if n.IsNumeric() && strings.TrimSpace(string(n)) == string(n) {
		if strings.ContainsAny(string(n), ".eE") {
			node.Tag = "!!float"
		} else {
			node.Tag = "!!int"
		}
	} else {
		node.Tag = "!!str"
		node.Style = yaml.DoubleQuotedStyle
	}
	return node, nil
}

// UnmarshalJSON accepts a JSON number, a string, or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		*n = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*n = Number(str)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("numeric field: %w", err)
		}
		*n = Number(num.String())
	}
	return nil
}

// MarshalJSON mirrors MarshalYAML.
func (n Number) MarshalJSON() ([]byte, error) {
	s := string(n)
	if n.IsNumeric() && strings.TrimSpace(s) == s && json.Valid([]byte(s)) {
		return []byte(s), nil
	}
	return json.Marshal(s)
}
