// Package snapshot defines the persisted receipt record and the bounded
// history kept alongside it.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/till/internal/core/receipt"
)

// MaxHistory is the number of saved snapshots kept; the oldest is evicted
// first.
const MaxHistory = 10

// ErrCorrupt is returned when a stored payload cannot be decoded.
var ErrCorrupt = errors.New("snapshot is corrupt")

// Item is one persisted line item.
type Item struct {
	Name  string `json:"name"`
	Price string `json:"price"`
	Code  string `json:"code,omitempty"`
}

// UnmarshalJSON accepts a price stored either as text or as a number.
func (i *Item) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string          `json:"name"`
		Price json.RawMessage `json:"price"`
		Code  string          `json:"code"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	price, err := priceText(raw.Price)
	if err != nil {
		return fmt.Errorf("item %q: %w", raw.Name, err)
	}
	*i = Item{Name: raw.Name, Price: price, Code: raw.Code}
	return nil
}

func priceText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("price must be text or a number")
	}
	return n.String(), nil
}

// Snapshot is the full header and item state at a point in time.
type Snapshot struct {
	StoreName     string `json:"storeName"`
	StoreLocation string `json:"storeLocation"`
	StoreNumber   string `json:"storeNumber,omitempty"`
	ManagerName   string `json:"managerName,omitempty"`
	ReceiptDate   string `json:"receiptDate"`
	ReceiptTime   string `json:"receiptTime,omitempty"`
	TransactionID string `json:"transactionId,omitempty"`
	Items         []Item `json:"items"`
}

// Entry is a timestamped history copy of a snapshot.
type Entry struct {
	ID       string
	SavedAt  time.Time
	Snapshot Snapshot
}

// FromState builds a snapshot from view-model state.
func FromState(h receipt.Header, items []receipt.LineItem) Snapshot {
	s := Snapshot{
		StoreName:     h.StoreName,
		StoreLocation: h.StoreLocation,
		StoreNumber:   h.StoreNumber,
		ManagerName:   h.Manager,
		ReceiptDate:   h.Date,
		ReceiptTime:   h.Time,
		TransactionID: h.TransactionID,
		Items:         make([]Item, len(items)),
	}
	for i, item := range items {
		s.Items[i] = Item{Name: item.Name, Price: item.Price, Code: item.Code}
	}
	return s
}

// Header returns the snapshot's header fields.
func (s Snapshot) Header() receipt.Header {
	return receipt.Header{
		StoreName:     s.StoreName,
		StoreLocation: s.StoreLocation,
		StoreNumber:   s.StoreNumber,
		Manager:       s.ManagerName,
		Date:          s.ReceiptDate,
		Time:          s.ReceiptTime,
		TransactionID: s.TransactionID,
	}
}

// LineItems returns the snapshot's items in order.
func (s Snapshot) LineItems() []receipt.LineItem {
	items := make([]receipt.LineItem, len(s.Items))
	for i, item := range s.Items {
		items[i] = receipt.LineItem{Name: item.Name, Price: item.Price, Code: item.Code}
	}
	return items
}

// Encode serialises a snapshot to its stored JSON form.
func Encode(s Snapshot) ([]byte, error) {
	if s.Items == nil {
		s.Items = []Item{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a stored payload. Any failure wraps ErrCorrupt.
func Decode(data []byte) (Snapshot, error) {
	var s Snapshot
	if len(bytes.TrimSpace(data)) == 0 {
		return s, fmt.Errorf("%w: empty payload", ErrCorrupt)
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return s, nil
}

// AppendBounded appends v to list and evicts from the front until at most
// limit elements remain. list is ordered oldest first.
func AppendBounded[T any](list []T, v T, limit int) []T {
	list = append(list, v)
	if limit > 0 && len(list) > limit {
		list = list[len(list)-limit:]
	}
	return list
}
