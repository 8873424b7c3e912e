// Package catalog parses the static item catalog and draws random item sets
// from it.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a catalog holds no items.
var ErrEmptyCatalog = errors.New("catalog has no items")

// collectionKeys are the object keys searched, in order, for the category
// list when a document is not a bare array.
var collectionKeys = []string{"target_items", "categories", "items"}

// Price is a catalog price written either as text or as a number.
type Price string

// UnmarshalJSON accepts "3.50" and 3.50 alike.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be text or a number: %s", data)
	}
	*p = Price(n.String())
	return nil
}

// UnmarshalYAML accepts any scalar.
func (p *Price) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: price must be a scalar", node.Line)
	}
	*p = Price(node.Value)
	return nil
}

// Decimal returns the numeric value of the price.
func (p Price) Decimal() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimPrefix(strings.TrimSpace(string(p)), "$"))
}

// Entry is one purchasable item.
type Entry struct {
	Name  string `json:"name" yaml:"name"`
	Price Price  `json:"price" yaml:"price"`
}

// Category groups entries under a name.
type Category struct {
	Name  string  `json:"category" yaml:"category"`
	Items []Entry `json:"items" yaml:"items"`
}

// Catalog is the parsed catalog document.
type Catalog struct {
	Categories []Category
}

// Format names a catalog encoding.
type Format string

// Supported formats
const (
	FormatAuto Format = ""
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Parse decodes a catalog document. FormatAuto treats documents starting
// with '{' or '[' as JSON and anything else as YAML.
func Parse(data []byte, format Format) (*Catalog, error) {
	if format == FormatAuto {
		format = sniff(data)
	}

	var (
		categories []Category
		err        error
	)
	switch format {
	case FormatJSON:
		categories, err = parseJSON(data)
	case FormatYAML:
		categories, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("malformed catalog: %w", err)
	}

	c := &Catalog{Categories: categories}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that every entry has a name and a non-negative price and
// that the catalog is not empty.
func (c *Catalog) Validate() error {
	count := 0
	for _, cat := range c.Categories {
		for i, entry := range cat.Items {
			if strings.TrimSpace(entry.Name) == "" {
				return fmt.Errorf("malformed catalog: category %q item %d has no name", cat.Name, i)
			}
			amount, err := entry.Price.Decimal()
			if err != nil || amount.IsNegative() {
				return fmt.Errorf("malformed catalog: %q has invalid price %q", entry.Name, entry.Price)
			}
			count++
		}
	}
	if count == 0 {
		return ErrEmptyCatalog
	}
	return nil
}

// Pick is a catalog entry flattened out of its category.
type Pick struct {
	Name     string
	Price    string
	Category string
	Code     string
}

// Flatten collects all entries of all categories into one pool, in
// document order.
func (c *Catalog) Flatten() []Pick {
	var pool []Pick
	for _, cat := range c.Categories {
		for _, entry := range cat.Items {
			pool = append(pool, Pick{
				Name:     entry.Name,
				Price:    string(entry.Price),
				Category: cat.Name,
			})
		}
	}
	return pool
}

func sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

func parseJSON(data []byte) ([]Category, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var categories []Category
		if err := json.Unmarshal(trimmed, &categories); err != nil {
			return nil, err
		}
		return categories, nil
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, err
	}
	raw, err := pickCollection(doc)
	if err != nil {
		return nil, err
	}
	var categories []Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func parseYAML(data []byte) ([]Category, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, errors.New("empty document")
	}
	node := root.Content[0]

	if node.Kind == yaml.MappingNode {
		doc := make(map[string]*yaml.Node, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			doc[node.Content[i].Value] = node.Content[i+1]
		}
		found, err := pickCollection(doc)
		if err != nil {
			return nil, err
		}
		node = found
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of categories", node.Line)
	}

	var categories []Category
	if err := node.Decode(&categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// pickCollection finds the category list in a top-level object: a known key
// first, otherwise the only key present.
func pickCollection[T any](doc map[string]T) (T, error) {
	for _, key := range collectionKeys {
		if v, ok := doc[key]; ok {
			return v, nil
		}
	}
	if len(doc) == 1 {
		for _, v := range doc {
			return v, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("no category list found (expected one of %s)", strings.Join(collectionKeys, ", "))
}
