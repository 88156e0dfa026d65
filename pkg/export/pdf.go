package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth = 277.0 // A4 landscape minus 10mm margins
	pdfRowHeight = 6.0
	pdfMinColumn = 12.0
)

// PDF renders a landscape A4 table. Cells wider than their column are clipped with an ellipsis.
type PDF struct{}

// ContentType implements Renderer.
func (PDF) ContentType() string { return "application/pdf" }

// Extension implements Renderer.
func (PDF) Extension() string { return "pdf" }

// Render implements Renderer.
func (PDF) Render(w io.Writer, t Table) error {
	if len(t.Headers) == 0 {
		return fmt.Errorf("pdf requires at least one header")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 12)
	widths := columnWidths(pdf, t)

	header := func() {
		pdf.SetFont("Arial", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range t.Headers {
			pdf.CellFormat(widths[i], pdfRowHeight+1, clip(pdf, h, widths[i]), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 7)
	}
	pdf.SetHeaderFunc(func() {
		if t.Title != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, t.Title, "", 1, "L", false, 0, "")
		}
		header()
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(0, 5, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, row := range t.Rows {
		for i := range t.Headers {
			pdf.CellFormat(widths[i], pdfRowHeight, clip(pdf, tr(t.cell(row, i)), widths[i]), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// columnWidths splits the page in proportion to the widest of header and first rows, with a floor.
func columnWidths(pdf *gofpdf.Fpdf, t Table) []float64 {
	pdf.SetFont("Arial", "", 7)
	sample := t.Rows
	if len(sample) > 50 {
		sample = sample[:50]
	}

	natural := make([]float64, len(t.Headers))
	total := 0.0
	for i, h := range t.Headers {
		w := pdf.GetStringWidth(h) + 4
		for _, row := range sample {
			if cw := pdf.GetStringWidth(t.cell(row, i)) + 4; cw > w {
				w = cw
			}
		}
		if w < pdfMinColumn {
			w = pdfMinColumn
		}
		natural[i] = w
		total += w
	}

	widths := make([]float64, len(natural))
	for i, w := range natural {
		widths[i] = w * pdfPageWidth / total
	}
	return widths
}

func clip(pdf *gofpdf.Fpdf, s string, width float64) string {
	limit := width - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
