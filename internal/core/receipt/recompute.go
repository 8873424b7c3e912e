package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Line is one printed receipt line.
type Line struct {
	Name   string
	Code   string
	Amount decimal.Decimal
	Price  string
}

// Receipt is derived from a header and item list; it is never stored.
// Amounts keep full precision and are rounded only when formatted.
type Receipt struct {
	Variant       string
	StoreName     string
	StoreLocation string
	Manager       string
	Date          string
	Time          string
	// TransactionID and Footer are empty unless the variant prints them.
	TransactionID string
	Footer        string
	ShowPayment   bool
	Lines         []Line
	ItemCount     int
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Total         decimal.Decimal
}

// Recompute derives the printable receipt for the given state.
func Recompute(v Variant, h Header, items []LineItem) Receipt {
	r := Receipt{
		Variant:       v.Name,
		StoreName:     orDefault(h.StoreName, v.DefaultStoreName),
		StoreLocation: orDefault(h.StoreLocation, v.DefaultStoreLocation),
		Date:          FormatDate(h.Date),
		Time:          FormatClock(h.Time, v.Clock),
		Subtotal:      decimal.Zero,
	}
	if v.ShowStoreDetails {
		if number := strings.TrimSpace(h.StoreNumber); number != "" {
			r.StoreLocation = number + " " + r.StoreLocation
		}
		r.Manager = DisplayName(h.Manager)
	}
	if v.ShowTransaction {
		r.TransactionID = FormatTransactionID(h.TransactionID)
		r.Footer = FormatTimestamp(h.Date, h.Time)
		r.ShowPayment = true
	}

	for _, item := range items {
		amount, ok := item.Countable()
		if !ok {
			continue
		}
		r.Subtotal = r.Subtotal.Add(amount)
		if v.HideZeroPriced && !amount.IsPositive() {
			continue
		}
		r.Lines = append(r.Lines, Line{
			Name:   DisplayName(item.Name),
			Code:   strings.TrimSpace(item.Code),
			Amount: amount,
			Price:  v.FormatPrice(amount),
		})
	}

	r.ItemCount = len(r.Lines)
	r.Tax = r.Subtotal.Mul(v.TaxRate)
	r.Total = r.Subtotal.Add(r.Tax)
	return r
}

// SubtotalText returns the formatted subtotal.
func (r Receipt) SubtotalText() string { return FormatMoney(r.Subtotal) }

// TaxText returns the formatted tax.
func (r Receipt) TaxText() string { return FormatMoney(r.Tax) }

// TotalText returns the formatted total.
func (r Receipt) TotalText() string { return FormatMoney(r.Total) }

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
