// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/example/till/internal/adapters/render"
	"github.com/example/till/internal/ports/primary"
)

// Print formats.
const (
	FormatText = "text"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ReceiptAdapter is a thin adapter that translates CLI operations to ReceiptService calls.
// Item positions on the command line are 1-based.
type ReceiptAdapter struct {
	service primary.ReceiptService
	out     io.Writer
	color   bool
}

// NewReceiptAdapter creates a new ReceiptAdapter with the given service.
func NewReceiptAdapter(service primary.ReceiptService, out io.Writer, color bool) *ReceiptAdapter {
	return &ReceiptAdapter{
		service: service,
		out:     out,
		color:   color,
	}
}

// Show prints the receipt preview.
func (a *ReceiptAdapter) Show(ctx context.Context) error {
	view, err := a.service.Load(ctx)
	if err != nil {
		return err
	}
	return a.preview(view)
}

// List lists the editable rows with their positions.
func (a *ReceiptAdapter) List(ctx context.Context) error {
	view, err := a.service.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%-4s %-32s %-10s %s\n", "#", "NAME", "PRICE", "CODE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, item := range view.Items {
		fmt.Fprintf(a.out, "%-4d %-32s %-10s %s\n", item.Index+1, orDash(item.Name), orDash(item.Price), item.Code)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Add appends an item and prints the result.
func (a *ReceiptAdapter) Add(ctx context.Context, name, price, code string) error {
	view, err := a.service.AddItem(ctx, primary.AddItemRequest{Name: name, Price: price, Code: code})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Added item %d\n", len(view.Items))
	return a.preview(view)
}

// Remove removes the item at position.
func (a *ReceiptAdapter) Remove(ctx context.Context, position int) error {
	before, err := a.service.Load(ctx)
	if err != nil {
		return err
	}
	view, err := a.service.RemoveItem(ctx, position-1)
	if err != nil {
		return fmt.Errorf("failed to remove item %d: %w", position, err)
	}

	if len(view.Items) == len(before.Items) {
		fmt.Fprintln(a.out, "At least one item must remain; nothing removed")
	} else {
		fmt.Fprintf(a.out, "✓ Removed item %d\n", position)
	}
	return a.preview(view)
}

// Edit changes fields of the item at position. Nil fields are unchanged.
func (a *ReceiptAdapter) Edit(ctx context.Context, position int, name, price, code *string) error {
	view, err := a.service.EditItem(ctx, primary.EditItemRequest{
		Index: position - 1,
		Name:  name,
		Price: price,
		Code:  code,
	})
	if err != nil {
		return fmt.Errorf("failed to edit item %d: %w", position, err)
	}

	fmt.Fprintf(a.out, "✓ Updated item %d\n", position)
	return a.preview(view)
}

// Header changes the receipt header.
func (a *ReceiptAdapter) Header(ctx context.Context, req primary.UpdateHeaderRequest) error {
	view, err := a.service.UpdateHeader(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "✓ Updated header")
	return a.preview(view)
}

// Randomize replaces the items with a catalog draw.
func (a *ReceiptAdapter) Randomize(ctx context.Context) error {
	view, err := a.service.Randomize(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Drew %d items\n", len(view.Items))
	return a.preview(view)
}

// Reset restores the sample items.
func (a *ReceiptAdapter) Reset(ctx context.Context) error {
	view, err := a.service.Reset(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, "✓ Reset to sample items")
	return a.preview(view)
}

// Save saves the current receipt and records it in the history.
func (a *ReceiptAdapter) Save(ctx context.Context) error {
	resp, err := a.service.Save(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Saved receipt %s at %s\n", resp.HistoryID, resp.SavedAt)
	return nil
}

// History lists saved receipts, newest first.
func (a *ReceiptAdapter) History(ctx context.Context) error {
	entries, err := a.service.ListHistory(ctx)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No saved receipts")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-36s %-20s %-16s %-5s %s\n", "ID", "SAVED", "STORE", "ITEMS", "TOTAL")
	fmt.Fprintln(a.out, "──────────────────────────────────────────────────────────────────────────────────────")
	for _, e := range entries {
		fmt.Fprintf(a.out, "%-36s %-20s %-16s %-5d %s\n", e.ID, e.SavedAt, e.StoreName, e.ItemCount, e.Total)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Restore makes a saved receipt current.
func (a *ReceiptAdapter) Restore(ctx context.Context, id string) error {
	view, err := a.service.RestoreHistory(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Restored %s\n", id)
	return a.preview(view)
}

// Print writes the receipt to w in the given format.
func (a *ReceiptAdapter) Print(ctx context.Context, w io.Writer, format string) error {
	view, err := a.service.Load(ctx)
	if err != nil {
		return err
	}

	switch format {
	case FormatText, "":
		return render.Text(w, view, render.TextOptions{Color: a.color})
	case FormatPDF:
		return render.PDF(w, view)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	default:
		return fmt.Errorf("unknown format %q (expected text, pdf or json)", format)
	}
}

func (a *ReceiptAdapter) preview(view *primary.ReceiptView) error {
	fmt.Fprintln(a.out)
	return render.Text(a.out, view, render.TextOptions{Color: a.color})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
