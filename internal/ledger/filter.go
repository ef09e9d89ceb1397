// Package ledger builds filtered, paginated views over a user's
// records and aggregates them into summary totals and breakdowns.
package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fintrack/internal/core"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"

	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Criteria selects and orders a subset of a user's ledger. Empty
// fields mean "no restriction". Invalid values never fail a request:
// an unknown Kind is ignored, an unknown Sort falls back to descending
// and Page/PerPage are clamped.
type Criteria struct {
	Category string // exact match against the stored category string
	Kind     string // "income" or "expense"; anything else is ignored
	DateFrom string // inclusive, YYYY-MM-DD
	DateTo   string // inclusive, YYYY-MM-DD
	Query    string // case-insensitive substring of the description
	Sort     string // SortAsc or SortDesc
	Page     int    // 1-indexed
	PerPage  int
}

// Page is one page of a filtered ledger plus the counts a caller needs
// to render navigation.
type Page struct {
	Items         []core.Record
	Page          int
	PerPage       int
	TotalMatching int
	TotalPages    int
}

// Source supplies the owner's full record set. Owner scoping happens
// at the source; everything else happens here.
type Source interface {
	RecordsByOwner(ctx context.Context, ownerID int64) ([]core.Record, error)
}

// Filter produces filtered views over a record source.
type Filter struct {
	src Source
}

func NewFilter(src Source) *Filter {
	return &Filter{src: src}
}

// Page returns one page of the owner's ledger matching c.
func (f *Filter) Page(ctx context.Context, ownerID int64, c Criteria) (Page, error) {
	records, err := f.src.RecordsByOwner(ctx, ownerID)
	if err != nil {
		return Page{}, fmt.Errorf("load records: %w", err)
	}
	return Apply(records, c), nil
}

// All returns the full filtered, sorted record set without pagination,
// in export order.
func (f *Filter) All(ctx context.Context, ownerID int64, c Criteria) ([]core.Record, error) {
	records, err := f.src.RecordsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return Select(records, c), nil
}

// Select filters and sorts records by c, ignoring pagination.
func Select(records []core.Record, c Criteria) []core.Record {
	out := make([]core.Record, 0, len(records))
	query := strings.ToLower(strings.TrimSpace(c.Query))
	kind := core.Kind(c.Kind)
	for _, r := range records {
		if c.Category != "" && r.Category != c.Category {
			continue
		}
		if kind.Valid() && r.Kind != kind {
			continue
		}
		if c.DateFrom != "" && r.Date < c.DateFrom {
			continue
		}
		if c.DateTo != "" && r.Date > c.DateTo {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Description), query) {
			continue
		}
		out = append(out, r)
	}

	asc := c.Sort == SortAsc
	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return out[i].Date < out[j].Date
		}
		return out[i].Date > out[j].Date
	})
	return out
}

// Apply filters, sorts and paginates records by c. A page past the end
// yields an empty item list, not an error.
func Apply(records []core.Record, c Criteria) Page {
	matched := Select(records, c)

	// min(100, max(1, per)); the 20-per-page default is applied where
	// the request is parsed, not here.
	perPage := c.PerPage
	if perPage < 1 {
		perPage = 1
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	page := c.Page
	if page < 1 {
		page = 1
	}

	total := len(matched)
	totalPages := (total + perPage - 1) / perPage

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:         matched[start:end],
		Page:          page,
		PerPage:       perPage,
		TotalMatching: total,
		TotalPages:    totalPages,
	}
}
