package filesystem

import (
	"context"
	_ "embed"

	"github.com/example/till/internal/ports/secondary"
)

//go:embed builtin_catalog.yaml
var builtinCatalog []byte

// BuiltinCatalog implements secondary.CatalogSource with the catalog
// compiled into the binary.
type BuiltinCatalog struct{}

// Fetch returns the built-in catalog.
func (BuiltinCatalog) Fetch(ctx context.Context) (*secondary.CatalogDocument, error) {
	return &secondary.CatalogDocument{Data: builtinCatalog, Format: "yaml", Origin: "built-in catalog"}, nil
}

// Ensure BuiltinCatalog implements the interface
var _ secondary.CatalogSource = BuiltinCatalog{}
