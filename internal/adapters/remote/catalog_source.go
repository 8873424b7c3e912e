// Package remote contains network adapter implementations.
package remote

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/example/till/internal/adapters/filesystem"
	"github.com/example/till/internal/ports/secondary"
)

// maxCatalogBytes bounds the catalog body.
const maxCatalogBytes = 4 << 20

// CatalogURL implements secondary.CatalogSource over HTTP(S).
type CatalogURL struct {
	url    string
	client *http.Client
}

// NewCatalogURL creates a catalog source for url. A zero timeout means none.
func NewCatalogURL(url string, timeout time.Duration) *CatalogURL {
	return &CatalogURL{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the catalog document.
func (c *CatalogURL) Fetch(ctx context.Context) (*secondary.CatalogDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url %s: %w", c.url, err)
	}
	req.Header.Set("Accept", "application/json, application/yaml;q=0.9, */*;q=0.5")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request to %s returned %s", c.url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(data) > maxCatalogBytes {
		return nil, fmt.Errorf("catalog at %s is too large (limit %d bytes)", c.url, maxCatalogBytes)
	}

	return &secondary.CatalogDocument{
		Data:   data,
		Format: formatFor(resp.Header.Get("Content-Type"), req.URL.Path),
		Origin: c.url,
	}, nil
}

// formatFor prefers the response media type and falls back to the path.
func formatFor(contentType, path string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		switch mediaType {
		case "application/json":
			return "json"
		case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
			return "yaml"
		}
	}
	return filesystem.FormatForPath(path)
}

// Ensure CatalogURL implements the interface
var _ secondary.CatalogSource = (*CatalogURL)(nil)
