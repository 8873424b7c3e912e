package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/example/till/internal/ports/primary"
)

// Page geometry in millimetres.
const (
	pageWidth  = 80.0
	margin     = 4.0
	lineHeight = 4.5
)

// PDF writes the receipt as a single 80mm-wide page.
func PDF(w io.Writer, v *primary.ReceiptView) error {
	lines := len(v.Lines)
	if lines == 0 {
		lines = 1
	}
	// header, rules, totals and footer take roughly 14 lines, plus the
	// store details and transaction lines when printed
	height := 2*margin + float64(lines+18)*lineHeight

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pageWidth, Ht: height},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)
	pdf.SetTitle(fmt.Sprintf("%s receipt %s", v.StoreName, v.Date), true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	inner := pageWidth - 2*margin

	pdf.SetFont("Courier", "B", 12)
	pdf.CellFormat(inner, lineHeight+1, tr(v.StoreName), "", 1, "C", false, 0, "")
	pdf.SetFont("Courier", "", 9)
	pdf.CellFormat(inner, lineHeight, tr(v.StoreLocation), "", 1, "C", false, 0, "")
	if v.Manager != "" {
		pdf.CellFormat(inner, lineHeight, tr("MGR. "+v.Manager), "", 1, "C", false, 0, "")
	}
	pdf.CellFormat(inner, lineHeight, tr(v.Date+"  "+v.Time), "", 1, "C", false, 0, "")
	rule(pdf, inner)

	for _, line := range v.Lines {
		name := line.Name
		if v.ShowItemCodes && line.Code != "" {
			name = line.Name + " " + line.Code
		}
		pdfRow(pdf, tr(name), tr(line.Price), inner)
	}
	if len(v.Lines) == 0 {
		pdf.CellFormat(inner, lineHeight, "(no items)", "", 1, "C", false, 0, "")
	}
	rule(pdf, inner)

	pdfRow(pdf, "SUBTOTAL", v.Subtotal, inner)
	pdfRow(pdf, "TAX "+v.TaxRate, v.Tax, inner)
	pdf.SetFont("Courier", "B", 10)
	pdfRow(pdf, "TOTAL", v.Total, inner)
	pdf.SetFont("Courier", "", 9)
	if v.Payment != "" {
		pdfRow(pdf, "PAYMENT", v.Payment, inner)
	}
	if v.ShowItemCount {
		pdf.CellFormat(inner, lineHeight, fmt.Sprintf("# ITEMS SOLD %d", v.ItemCount), "", 1, "L", false, 0, "")
	}
	if v.TransactionID != "" {
		pdf.CellFormat(inner, lineHeight, v.TransactionID, "", 1, "L", false, 0, "")
	}
	rule(pdf, inner)
	pdf.CellFormat(inner, lineHeight, thanks, "", 1, "C", false, 0, "")
	if v.Footer != "" {
		pdf.CellFormat(inner, lineHeight, v.Footer, "", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

func pdfRow(pdf *gofpdf.Fpdf, label, amount string, inner float64) {
	amountWidth := pdf.GetStringWidth(amount) + 1
	labelWidth := inner - amountWidth
	for label != "" && pdf.GetStringWidth(label) > labelWidth {
		label = label[:len(label)-1]
	}
	pdf.CellFormat(labelWidth, lineHeight, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(amountWidth, lineHeight, amount, "", 1, "R", false, 0, "")
}

func rule(pdf *gofpdf.Fpdf, inner float64) {
	y := pdf.GetY() + 1
	pdf.SetDashPattern([]float64{1, 1}, 0)
	pdf.Line(margin, y, margin+inner, y)
	pdf.SetDashPattern([]float64{}, 0)
	pdf.Ln(2)
}
