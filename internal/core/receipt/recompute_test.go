package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
)

func mustVariant(t *testing.T, name string) Variant {
	t.Helper()
	v, err := LookupVariant(name)
	if err != nil {
		t.Fatalf("LookupVariant(%q) failed: %v", name, err)
	}
	return v
}

func TestRecompute_OnlyFullyPopulatedRowsCount(t *testing.T) {
	v := mustVariant(t, VariantTarget)
	items := []LineItem{
		{Name: "Milk", Price: "3.50"},
		{Name: "", Price: "2.00"},
		{Name: "Bread", Price: ""},
	}

	r := Recompute(v, Header{}, items)

	if r.SubtotalText() != "$3.50" {
		t.Errorf("subtotal = %s, want $3.50", r.SubtotalText())
	}
	if len(r.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(r.Lines))
	}
	if r.Lines[0].Name != "MILK" {
		t.Errorf("line name = %q, want %q", r.Lines[0].Name, "MILK")
	}
	if items[0].Name != "Milk" {
		t.Errorf("stored name changed to %q", items[0].Name)
	}
}

func TestRecompute_TaxAndTotal(t *testing.T) {
	tests := []struct {
		name      string
		variant   string
		items     []LineItem
		wantSub   string
		wantTax   string
		wantTotal string
	}{
		{
			name:      "walmart rate on a round subtotal",
			variant:   VariantWalmart,
			items:     []LineItem{{Name: "TV", Price: "100.00"}},
			wantSub:   "$100.00",
			wantTax:   "$6.50",
			wantTotal: "$106.50",
		},
		{
			name:      "target rate on the sample items",
			variant:   VariantTarget,
			items:     SampleItems(),
			wantSub:   "$248.00",
			wantTax:   "$25.37",
			wantTotal: "$273.37",
		},
		{
			name:      "rounding happens at render time only",
			variant:   VariantWalmart,
			items:     []LineItem{{Name: "A", Price: "0.10"}, {Name: "B", Price: "0.10"}, {Name: "C", Price: "0.10"}},
			wantSub:   "$0.30",
			wantTax:   "$0.02",
			wantTotal: "$0.32",
		},
		{
			name:      "empty list totals zero",
			variant:   VariantTarget,
			items:     nil,
			wantSub:   "$0.00",
			wantTax:   "$0.00",
			wantTotal: "$0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Recompute(mustVariant(t, tt.variant), Header{}, tt.items)
			if got := r.SubtotalText(); got != tt.wantSub {
				t.Errorf("subtotal = %s, want %s", got, tt.wantSub)
			}
			if got := r.TaxText(); got != tt.wantTax {
				t.Errorf("tax = %s, want %s", got, tt.wantTax)
			}
			if got := r.TotalText(); got != tt.wantTotal {
				t.Errorf("total = %s, want %s", got, tt.wantTotal)
			}
			if !r.Total.Equal(r.Subtotal.Add(r.Subtotal.Mul(mustVariant(t, tt.variant).TaxRate))) {
				t.Errorf("total %s != subtotal + subtotal*rate", r.Total)
			}
		})
	}
}

func TestRecompute_InvalidAndNegativePrices(t *testing.T) {
	v := mustVariant(t, VariantTarget)
	items := []LineItem{
		{Name: "Eggs", Price: "abc"},
		{Name: "Refund", Price: "-5.00"},
		{Name: "Jam", Price: "4"},
	}

	r := Recompute(v, Header{}, items)

	if !r.Subtotal.Equal(decimal.NewFromInt(4)) {
		t.Errorf("subtotal = %s, want 4", r.Subtotal)
	}
	if len(r.Lines) != 2 {
		t.Fatalf("expected 2 lines (invalid price counts as zero), got %d", len(r.Lines))
	}
	if r.Lines[0].Price != "FREE" {
		t.Errorf("zero price rendered %q, want placeholder", r.Lines[0].Price)
	}
}

func TestRecompute_WalmartHidesZeroPricedRows(t *testing.T) {
	v := mustVariant(t, VariantWalmart)
	items := []LineItem{
		{Name: "Bag", Price: "0", Code: "123456789"},
		{Name: "Soap", Price: "2.25", Code: "987654321"},
	}

	r := Recompute(v, Header{}, items)

	if r.ItemCount != 1 {
		t.Fatalf("ItemCount = %d, want 1", r.ItemCount)
	}
	if r.Lines[0].Code != "987654321" {
		t.Errorf("code = %q, want %q", r.Lines[0].Code, "987654321")
	}
	if r.Lines[0].Price != "$2.25" {
		t.Errorf("price = %q, want $2.25", r.Lines[0].Price)
	}
}

func TestRecompute_HeaderDefaults(t *testing.T) {
	v := mustVariant(t, VariantTarget)

	r := Recompute(v, Header{Date: "2024-03-07", Time: "14:05"}, nil)

	if r.StoreName != "TARGET" || r.StoreLocation != "NEW YORK" {
		t.Errorf("defaults not applied: %q / %q", r.StoreName, r.StoreLocation)
	}
	if r.Date != "03/07/2024" {
		t.Errorf("date = %q, want 03/07/2024", r.Date)
	}
	if r.Time != "2:05 PM" {
		t.Errorf("time = %q, want 2:05 PM", r.Time)
	}

	r = Recompute(v, Header{StoreName: "Corner Shop", StoreLocation: "Austin"}, nil)
	if r.StoreName != "Corner Shop" || r.StoreLocation != "Austin" {
		t.Errorf("explicit header overridden: %q / %q", r.StoreName, r.StoreLocation)
	}
}

func TestRecompute_WalmartStoreDetailsAndTransaction(t *testing.T) {
	h := Header{
		StoreNumber:   "Store #1234",
		Manager:       "Dana Reyes",
		Date:          "2024-03-07",
		Time:          "14:05",
		TransactionID: "12345678901234567890",
	}

	r := Recompute(mustVariant(t, VariantWalmart), h, nil)

	if r.StoreLocation != "Store #1234 SUPERCENTER" {
		t.Errorf("location = %q, want store number first", r.StoreLocation)
	}
	if r.Manager != "DANA REYES" {
		t.Errorf("manager = %q, want DANA REYES", r.Manager)
	}
	if r.TransactionID != "TC# 1234 5678 9012 3456 7890" {
		t.Errorf("transaction = %q", r.TransactionID)
	}
	if r.Footer != "03/07/2024 14:05:00" {
		t.Errorf("footer = %q, want 03/07/2024 14:05:00", r.Footer)
	}
	if !r.ShowPayment {
		t.Error("walmart receipts print the payment line")
	}

	r = Recompute(mustVariant(t, VariantTarget), h, nil)
	if r.StoreLocation != "NEW YORK" || r.Manager != "" || r.TransactionID != "" || r.Footer != "" || r.ShowPayment {
		t.Errorf("target receipt printed walmart details: %+v", r)
	}
}
