// Package export renders record sets to CSV and PDF. Both renderers
// are pure: records go in, bytes come out, nothing is mutated and the
// caller's ordering is preserved.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"fintrack/internal/core"
)

// csvHeader matches the import pipeline's required column set, so an
// exported file round-trips through import unchanged.
var csvHeader = []string{"date", "type", "category", "amount", "description"}

// WriteCSV streams records as CSV with a UTF-8 BOM prefix so
// spreadsheet software picks the right encoding. Amounts always carry
// exactly two decimal places.
func WriteCSV(w io.Writer, records []core.Record) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Date, string(r.Kind), r.Category, r.Amount.String(), r.Description}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
