package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/till/internal/ports/secondary"
)

// CatalogFile implements secondary.CatalogSource by reading a local file.
type CatalogFile struct {
	path string
}

// NewCatalogFile creates a catalog source for the file at path.
func NewCatalogFile(path string) *CatalogFile {
	return &CatalogFile{path: path}
}

// Fetch reads the catalog file. The format follows the file extension.
func (c *CatalogFile) Fetch(ctx context.Context) (*secondary.CatalogDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", c.path, err)
	}

	return &secondary.CatalogDocument{
		Data:   data,
		Format: FormatForPath(c.path),
		Origin: c.path,
	}, nil
}

// FormatForPath maps a file extension to a catalog format, or "" to detect
// it from the content.
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// Ensure CatalogFile implements the interface
var _ secondary.CatalogSource = (*CatalogFile)(nil)
