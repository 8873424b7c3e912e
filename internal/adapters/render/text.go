// Package render turns a receipt view into printable output.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/example/till/internal/ports/primary"
)

// Width is the printable width of a thermal receipt, in columns.
const Width = 40

const thanks = "Thank you for your purchase!"

// TextOptions controls text rendering.
type TextOptions struct {
	Color bool
}

// Text writes the receipt as fixed-width text.
func Text(w io.Writer, v *primary.ReceiptView, opts TextOptions) error {
	bold := color.New(color.Bold)
	dim := color.New(color.Faint)
	green := color.New(color.FgGreen, color.Bold)
	if !opts.Color {
		bold.DisableColor()
		dim.DisableColor()
		green.DisableColor()
	}

	var b strings.Builder
	heavy := strings.Repeat("═", Width)
	light := strings.Repeat("─", Width)

	b.WriteString(heavy + "\n")
	b.WriteString(bold.Sprint(center(v.StoreName)) + "\n")
	b.WriteString(center(v.StoreLocation) + "\n")
	if v.Manager != "" {
		b.WriteString(center("MGR. "+v.Manager) + "\n")
	}
	if stamp := strings.TrimSpace(v.Date + "  " + v.Time); stamp != "" {
		b.WriteString(dim.Sprint(center(stamp)) + "\n")
	}
	b.WriteString(light + "\n")

	for _, line := range v.Lines {
		name := line.Name
		if v.ShowItemCodes && line.Code != "" {
			name = line.Name + " " + line.Code
		}
		b.WriteString(row(name, line.Price) + "\n")
	}
	if len(v.Lines) == 0 {
		b.WriteString(dim.Sprint(center("(no items)")) + "\n")
	}

	b.WriteString(light + "\n")
	b.WriteString(row("SUBTOTAL", v.Subtotal) + "\n")
	b.WriteString(row("TAX "+v.TaxRate, v.Tax) + "\n")
	b.WriteString(green.Sprint(row("TOTAL", v.Total)) + "\n")
	if v.Payment != "" {
		b.WriteString(row("PAYMENT", v.Payment) + "\n")
	}
	if v.ShowItemCount || v.TransactionID != "" {
		b.WriteString(light + "\n")
	}
	if v.ShowItemCount {
		b.WriteString(fmt.Sprintf("# ITEMS SOLD %d\n", v.ItemCount))
	}
	if v.TransactionID != "" {
		b.WriteString(truncate(v.TransactionID, Width) + "\n")
	}
	b.WriteString(heavy + "\n")
	b.WriteString(center(thanks) + "\n")
	if v.Footer != "" {
		b.WriteString(dim.Sprint(center(v.Footer)) + "\n")
	}
	b.WriteString(heavy + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// row left-aligns label and right-aligns amount, truncating label to fit.
func row(label, amount string) string {
	room := Width - utf8.RuneCountInString(amount) - 1
	label = truncate(label, room)
	pad := Width - utf8.RuneCountInString(label) - utf8.RuneCountInString(amount)
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + amount
}

func center(s string) string {
	s = truncate(s, Width)
	n := utf8.RuneCountInString(s)
	return strings.Repeat(" ", (Width-n)/2) + s
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
