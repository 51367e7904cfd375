package export

import (
	"bytes"
	"fmt"

	"carmodel-inventory/internal/model"

	"github.com/go-pdf/fpdf"
)

var colWidths = []float64{44, 30, 28, 30, 18, 30}

const (
	rowHeight    = 8
	pageMargin   = 10
	bottomMargin = 15
)

// PrintDocument renders records as a PDF table, one row per record in input
// order. An empty collection yields the header row alone.
func (e *Exporter) PrintDocument(records []model.Record) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(e.compress)
	pdf.SetTitle("Car Model Inventory", true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, bottomMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	_, pageH := pdf.GetPageSize()

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range Header {
			pdf.CellFormat(colWidths[i], rowHeight, h, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.AddPage()
	header()
	for n, m := range records {
		if pdf.GetY()+rowHeight > pageH-bottomMargin {
			pdf.AddPage()
			header()
		}
		fill := n%2 == 1
		pdf.SetFillColor(245, 245, 245)
		for i, v := range e.printRow(m) {
			pdf.CellFormat(colWidths[i], rowHeight, tr(v), "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
