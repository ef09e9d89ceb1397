package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 28, "L"},
	{"Type", 22, "L"},
	{"Category", 48, "L"},
	{"Amount", 30, "R"},
	{"Description", 149, "L"},
}

// BuildPDF renders records as a landscape A4 report: a title carrying
// ownerLabel, a one-line summary and a striped table in the caller's
// row order.
func BuildPDF(records []core.Record, ownerLabel string) ([]byte, error) {
	totals := ledger.Summarize(records)

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Expense Tracker — %s", ownerLabel)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	summary := fmt.Sprintf("Summary: Income %s  |  Expense %s  |  Balance %s",
		totals.Income, totals.Expense, totals.Balance)
	pdf.CellFormat(0, 7, tr(summary), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(243, 244, 246)
	pdf.SetDrawColor(128, 128, 128)
	for _, col := range pdfColumns {
		pdf.CellFormat(col.width, 7, col.title, "1", 0, col.align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range records {
		if i%2 == 1 {
			pdf.SetFillColor(252, 252, 252)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		cells := []string{r.Date, r.Kind.Title(), r.Category, r.Amount.String(), r.Description}
		for c, col := range pdfColumns {
			pdf.CellFormat(col.width, 6, tr(cells[c]), "1", 0, col.align, true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
