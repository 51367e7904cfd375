// Package export renders a record collection as downloadable documents:
// a printable PDF table and an XLSX workbook.
package export

import (
	"time"

	"carmodel-inventory/internal/model"

	"golang.org/x/text/language"
)

const (
	PDFFilename  = "CarModelInventory.pdf"
	XLSXFilename = "CarModelInventory.xlsx"

	PDFContentType  = "application/pdf"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheetName = "Inventory"
)

// Header is the column row shared by both formats.
var Header = []string{"Model Name", "Brand", "Class", "Price", "Active", "Manufactured"}

// Options configure an Exporter.
type Options struct {
	// CurrencyPrefix is printed before prices in the PDF.
	CurrencyPrefix string
	// Locale selects the short-date layout.
	Locale language.Tag
	// Compress enables PDF stream compression.
	Compress bool
}

// Exporter renders filtered collections. It holds no state between calls.
type Exporter struct {
	currency   string
	dateLayout string
	compress   bool
}

// New creates an Exporter.
func New(opts Options) *Exporter {
	return &Exporter{
		currency:   opts.CurrencyPrefix,
		dateLayout: DateLayout(opts.Locale),
		compress:   opts.Compress,
	}
}

// ForLocale returns a copy of e that formats dates for tag.
func (e *Exporter) ForLocale(tag language.Tag) *Exporter {
	cp := *e
	cp.dateLayout = DateLayout(tag)
	return &cp
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// shortDate formats the calendar date stored by the record. The store keeps
// dates at midnight UTC, so the date is read in UTC to avoid a day shift.
func (e *Exporter) shortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(e.dateLayout)
}

func (e *Exporter) printRow(m model.Record) []string {
	return []string{
		m.ModelName,
		m.Brand,
		m.Class,
		e.currency + m.Price.String(),
		yesNo(m.Active),
		e.shortDate(m.DateOfManufacturing),
	}
}

func (e *Exporter) sheetRow(m model.Record) []interface{} {
	return []interface{}{
		m.ModelName,
		m.Brand,
		m.Class,
		m.Price.InexactFloat64(),
		yesNo(m.Active),
		e.shortDate(m.DateOfManufacturing),
	}
}
