package catalog

import (
	"errors"
	"strings"
	"testing"
)

const sampleJSON = `{
  "target_items": [
    {"category": "Grocery", "items": [
      {"name": "Milk", "price": "3.49"},
      {"name": "Eggs", "price": 4.99}
    ]},
    {"category": "Pets", "items": [
      {"name": "Dog Food", "price": "42.00"}
    ]}
  ]
}`

const sampleYAML = `
categories:
  - category: Grocery
    items:
      - name: Milk
        price: 3.49
      - name: Eggs
        price: "4.99"
`

func TestParse_JSONObject(t *testing.T) {
	c, err := Parse([]byte(sampleJSON), FormatAuto)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(c.Categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(c.Categories))
	}
	if got := c.Categories[0].Items[1].Price; got != "4.99" {
		t.Errorf("numeric price = %q, want 4.99", got)
	}
	if got := c.Categories[1].Name; got != "Pets" {
		t.Errorf("category = %q, want Pets", got)
	}
}

func TestParse_JSONArray(t *testing.T) {
	c, err := Parse([]byte(`[{"category":"A","items":[{"name":"X","price":"1"}]}]`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(c.Flatten()) != 1 {
		t.Errorf("expected 1 entry, got %d", len(c.Flatten()))
	}
}

func TestParse_YAML(t *testing.T) {
	c, err := Parse([]byte(sampleYAML), FormatAuto)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	pool := c.Flatten()
	if len(pool) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(pool))
	}
	if pool[0].Price != "3.49" || pool[1].Price != "4.99" {
		t.Errorf("prices = %q, %q", pool[0].Price, pool[1].Price)
	}
	if pool[0].Category != "Grocery" {
		t.Errorf("category = %q, want Grocery", pool[0].Category)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr string
	}{
		{name: "truncated json", data: `{"target_items": [`, format: FormatAuto, wantErr: "malformed catalog"},
		{name: "no collection", data: `{"a": [], "b": []}`, format: FormatJSON, wantErr: "no category list"},
		{name: "bad price", data: `[{"category":"A","items":[{"name":"X","price":"cheap"}]}]`, format: FormatJSON, wantErr: "invalid price"},
		{name: "negative price", data: `[{"category":"A","items":[{"name":"X","price":-1}]}]`, format: FormatJSON, wantErr: "invalid price"},
		{name: "missing name", data: `[{"category":"A","items":[{"price":"1"}]}]`, format: FormatJSON, wantErr: "has no name"},
		{name: "yaml scalar", data: "just words", format: FormatYAML, wantErr: "expected a list"},
		{name: "unknown format", data: "[]", format: Format("toml"), wantErr: "unsupported catalog format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	_, err := Parse([]byte(`{"target_items": []}`), FormatAuto)
	if !errors.Is(err, ErrEmptyCatalog) {
		t.Errorf("expected ErrEmptyCatalog, got %v", err)
	}
}
