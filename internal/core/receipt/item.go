// Package receipt contains the pure business logic of the receipt view-model.
// Nothing in this package performs I/O; every mutator returns a freshly
// recomputed Receipt.
package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is one editable row of the receipt. Price holds the text as
// entered; its numeric value is derived on every recompute.
type LineItem struct {
	Name  string
	Price string
	Code  string
}

// Header carries the receipt header fields as entered.
// Date is an ISO calendar date (YYYY-MM-DD), Time an optional HH:MM[:SS].
// StoreNumber and Manager are printed only by variants that show store
// details; TransactionID is a digit string assigned by the service.
type Header struct {
	StoreName     string
	StoreLocation string
	StoreNumber   string
	Manager       string
	Date          string
	Time          string
	TransactionID string
}

// Prices outside these bounds are treated as invalid. Formatting expands the
// exponent into digits, so an unbounded exponent costs unbounded work.
const (
	minPriceExponent = -10
	maxPriceExponent = 12
)

var maxPrice = decimal.New(1, 15)

// ParsePrice returns the numeric value of an entered price.
// ok is false when the text is blank. Text that is not a number, or a number
// too large or too precise to print, parses as zero so the preview stays
// renderable.
func ParsePrice(text string) (amount decimal.Decimal, ok bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, false
	}
	text = strings.TrimPrefix(text, "$")
	amount, err := decimal.NewFromString(strings.ReplaceAll(text, ",", ""))
	if err != nil {
		return decimal.Zero, true
	}
	if exp := amount.Exponent(); exp < minPriceExponent || exp > maxPriceExponent {
		return decimal.Zero, true
	}
	if amount.Abs().Cmp(maxPrice) >= 0 {
		return decimal.Zero, true
	}
	return amount, true
}

// Countable reports whether the item contributes to the subtotal and returns
// its amount. A row counts when it has a name and a non-blank, non-negative
// price.
func (i LineItem) Countable() (decimal.Decimal, bool) {
	if strings.TrimSpace(i.Name) == "" {
		return decimal.Zero, false
	}
	amount, ok := ParsePrice(i.Price)
	if !ok || amount.IsNegative() {
		return decimal.Zero, false
	}
	return amount, true
}

// SampleItems is the fixed item set used when nothing has been persisted.
func SampleItems() []LineItem {
	return []LineItem{
		{Name: "DOVE CREAM SERUM", Price: "100.00"},
		{Name: "BLUE BUFFALO DRY DOG FOOD", Price: "80.00"},
		{Name: "BASIL HAYDEN WHISKEY", Price: "68.00"},
	}
}
