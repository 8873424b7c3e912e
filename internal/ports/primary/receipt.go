// Package primary defines the primary ports (driving adapters) of the
// application: the operations the CLI and HTTP surfaces invoke.
package primary

import (
	"context"
	"errors"
)

// ErrHistoryNotFound is returned when a history entry does not exist.
var ErrHistoryNotFound = errors.New("history entry not found")

// ReceiptService defines the primary port for the receipt view-model.
// Every mutating operation returns the freshly recomputed receipt.
type ReceiptService interface {
	// Load restores the persisted snapshot, or the sample items when
	// nothing usable is stored.
	Load(ctx context.Context) (*ReceiptView, error)

	// Preview recomputes the receipt from the current state.
	Preview(ctx context.Context) (*ReceiptView, error)

	// AddItem appends a line item.
	AddItem(ctx context.Context, req AddItemRequest) (*ReceiptView, error)

	// RemoveItem removes the item at index; removing the last item is a no-op.
	RemoveItem(ctx context.Context, index int) (*ReceiptView, error)

	// EditItem updates an item in place.
	EditItem(ctx context.Context, req EditItemRequest) (*ReceiptView, error)

	// UpdateHeader changes the store details, date or time.
	UpdateHeader(ctx context.Context, req UpdateHeaderRequest) (*ReceiptView, error)

	// Randomize replaces the items with a random draw from the catalog.
	Randomize(ctx context.Context) (*ReceiptView, error)

	// Reset restores the sample items and today's date.
	Reset(ctx context.Context) (*ReceiptView, error)

	// Save writes the current snapshot and appends it to the history.
	Save(ctx context.Context) (*SaveResponse, error)

	// ListHistory lists saved snapshots, newest first.
	ListHistory(ctx context.Context) ([]*HistoryEntry, error)

	// RestoreHistory makes a history entry the current state.
	RestoreHistory(ctx context.Context, id string) (*ReceiptView, error)
}

// AddItemRequest contains parameters for adding an item. All fields may be
// blank.
type AddItemRequest struct {
	Name  string
	Price string
	Code  string
}

// EditItemRequest contains parameters for editing an item. Nil fields are
// left unchanged.
type EditItemRequest struct {
	Index int
	Name  *string
	Price *string
	Code  *string
}

// UpdateHeaderRequest contains header changes. Nil fields are left
// unchanged; an empty store name or location falls back to the store default.
type UpdateHeaderRequest struct {
	StoreName     *string
	StoreLocation *string
	StoreNumber   *string
	Manager       *string
	Date          *string
	Time          *string
}

// SaveResponse contains the result of a save.
type SaveResponse struct {
	HistoryID string `json:"history_id"`
	SavedAt   string `json:"saved_at"`
}

// ReceiptView represents a recomputed receipt at the port boundary.
type ReceiptView struct {
	Variant       string `json:"variant"`
	StoreName     string `json:"store_name"`
	StoreLocation string `json:"store_location"`
	Manager       string `json:"manager,omitempty"`
	Date          string `json:"date"`
	Time          string `json:"time"`
	Header        Header `json:"header"`
	Items         []Item `json:"items"`
	Lines         []Line `json:"lines"`
	ItemCount     int    `json:"item_count"`
	TaxRate       string `json:"tax_rate"`
	Subtotal      string `json:"subtotal"`
	Tax           string `json:"tax"`
	Total         string `json:"total"`
	// Payment is the tendered amount; empty when the store does not print it.
	Payment       string `json:"payment,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	Footer        string `json:"footer,omitempty"`
	ShowItemCodes bool   `json:"show_item_codes"`
	ShowItemCount bool   `json:"show_item_count"`

	ShowStoreDetails bool `json:"show_store_details"`
}

// Header is the header as entered.
type Header struct {
	StoreName     string `json:"store_name"`
	StoreLocation string `json:"store_location"`
	StoreNumber   string `json:"store_number"`
	Manager       string `json:"manager"`
	Date          string `json:"date"`
	Time          string `json:"time"`
}

// Item is an editable row as entered.
type Item struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Code  string `json:"code,omitempty"`
}

// Line is a printed receipt line.
type Line struct {
	Name  string `json:"name"`
	Code  string `json:"code,omitempty"`
	Price string `json:"price"`
}

// HistoryEntry summarises one saved snapshot.
type HistoryEntry struct {
	ID        string `json:"id"`
	SavedAt   string `json:"saved_at"`
	StoreName string `json:"store_name"`
	Date      string `json:"date"`
	ItemCount int    `json:"item_count"`
	Total     string `json:"total"`
}
