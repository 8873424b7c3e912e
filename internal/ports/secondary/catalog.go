package secondary

import "context"

// CatalogSource defines the secondary port for fetching the item catalog.
type CatalogSource interface {
	// Fetch retrieves the raw catalog document.
	Fetch(ctx context.Context) (*CatalogDocument, error)
}

// CatalogDocument is a fetched catalog. Format is "json", "yaml" or empty
// when it should be detected from the content.
type CatalogDocument struct {
	Data   []byte
	Format string
	Origin string
}
