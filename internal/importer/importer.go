// Package importer bulk-loads ledger records from uploaded CSV files.
//
// The central contract is partial-failure tolerance: one malformed row
// never aborts the batch. Rows are validated independently, failures
// are collected by 1-based source row number, and everything accepted
// is committed in a single storage transaction at the end.
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"fintrack/internal/core"
)

// MaxPayloadBytes caps uploads before any parsing happens.
const MaxPayloadBytes = 5 << 20 // 5 MiB

// DefaultCategory is assigned to rows with a blank category column.
const DefaultCategory = "Uncategorized"

var (
	ErrNotCSV          = errors.New("please upload a .csv file")
	ErrPayloadTooLarge = errors.New("csv is too large (max 5MB)")
	ErrMalformedHeader = errors.New("csv header must include: date,type,category,amount,description")
)

var requiredColumns = []string{"date", "type", "category", "amount", "description"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Outcome reports what an import accomplished. FailedRows holds the
// 1-based source row numbers (the header is row 1) of rejected rows,
// in file order.
type Outcome struct {
	Accepted   int
	FailedRows []int
}

// Store is the storage collaborator. ImportBatch must persist records
// and new categories as one atomic unit.
type Store interface {
	CategoryNames(ctx context.Context, ownerID int64) ([]string, error)
	ImportBatch(ctx context.Context, ownerID int64, records []core.Record, newCategories []string) error
}

// Pipeline imports CSV payloads for one owner at a time.
type Pipeline struct {
	store Store
}

func New(store Store) *Pipeline {
	return &Pipeline{store: store}
}

// Import validates and loads raw CSV bytes for the given owner.
//
// Structural problems (wrong extension, oversized payload, missing
// header columns) fail the whole import. After the header check every
// row stands alone: a bad row lands in Outcome.FailedRows and the scan
// continues. When createMissing is set, unknown categories are created
// alongside the records; otherwise rows keep their category text as-is
// and referential integrity is left to the interactive write path.
func (p *Pipeline) Import(ctx context.Context, filename string, raw []byte, ownerID int64, createMissing bool) (Outcome, error) {
	if !strings.HasSuffix(strings.ToLower(filename), ".csv") {
		return Outcome{}, ErrNotCSV
	}
	if len(raw) > MaxPayloadBytes {
		return Outcome{}, ErrPayloadTooLarge
	}

	content := decode(raw)
	reader := csv.NewReader(strings.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return Outcome{}, ErrMalformedHeader
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return Outcome{}, ErrMalformedHeader
		}
	}

	existing, err := p.existingCategories(ctx, ownerID)
	if err != nil {
		return Outcome{}, err
	}

	var (
		outcome  Outcome
		accepted []core.Record
		newCats  []string
	)
	for rowNum := 2; ; rowNum++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			outcome.FailedRows = append(outcome.FailedRows, rowNum)
			continue
		}

		rec, err := parseRow(row, columns, ownerID)
		if err != nil {
			outcome.FailedRows = append(outcome.FailedRows, rowNum)
			continue
		}

		if createMissing {
			if key := strings.ToLower(rec.Category); !existing[key] {
				existing[key] = true
				newCats = append(newCats, rec.Category)
			}
		}
		accepted = append(accepted, rec)
	}

	if len(accepted) > 0 || len(newCats) > 0 {
		if err := p.store.ImportBatch(ctx, ownerID, accepted, newCats); err != nil {
			return Outcome{}, fmt.Errorf("commit import batch: %w", err)
		}
	}
	outcome.Accepted = len(accepted)

	slog.InfoContext(ctx, "CSV import finished",
		"owner_id", ownerID,
		"accepted", outcome.Accepted,
		"rejected", len(outcome.FailedRows),
		"new_categories", len(newCats))
	return outcome, nil
}

func (p *Pipeline) existingCategories(ctx context.Context, ownerID int64) (map[string]bool, error) {
	names, err := p.store.CategoryNames(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = true
	}
	return set, nil
}

func parseRow(row []string, columns map[string]int, ownerID int64) (core.Record, error) {
	field := func(name string) string {
		i := columns[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := ParseDate(field("date"))
	if err != nil {
		return core.Record{}, err
	}
	kind, err := core.ParseKind(field("type"))
	if err != nil {
		return core.Record{}, err
	}
	category := field("category")
	if category == "" {
		category = DefaultCategory
	}
	amount, err := core.ParseAmount(field("amount"))
	if err != nil {
		return core.Record{}, err
	}

	return core.Record{
		Date:        date,
		Kind:        kind,
		Category:    category,
		Amount:      amount,
		Description: field("description"),
		OwnerID:     ownerID,
	}, nil
}

// decode interprets raw bytes as UTF-8 (honoring a BOM) and falls back
// to Windows-1251 with lossy replacement. Decoding never fails
// outright; the worst input still yields replacement runes.
func decode(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.Windows1251.NewDecoder().Bytes(raw)
	if err != nil {
		// The 1251 decoder maps every byte; this path is unreachable
		// in practice but string() keeps the lossy guarantee.
		return string(raw)
	}
	return string(decoded)
}
