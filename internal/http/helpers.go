package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/importer"
	"fintrack/internal/ledger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeErr maps domain errors onto HTTP statuses. Unrecognized errors
// become opaque 500s so internals never leak to the client.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, core.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, core.ErrUserExists),
		errors.Is(err, core.ErrCategoryExists),
		errors.Is(err, core.ErrCategoryInUse):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrBadCredentials), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, importer.ErrPayloadTooLarge),
		errors.Is(err, importer.ErrMalformedHeader),
		errors.Is(err, importer.ErrNotCSV),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidCategory),
		errors.Is(err, core.ErrCategoryMissing),
		errors.Is(err, core.ErrDescriptionLong):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, core.ErrNotFound
	}
	return id, nil
}

// criteriaFromQuery maps the request's filter parameters onto ledger
// criteria. Bad values degrade to defaults rather than failing.
func criteriaFromQuery(r *http.Request) ledger.Criteria {
	q := r.URL.Query()
	c := ledger.Criteria{
		Category: strings.TrimSpace(q.Get("category")),
		Kind:     strings.TrimSpace(q.Get("entry_type")),
		DateFrom: strings.TrimSpace(q.Get("date_from")),
		DateTo:   strings.TrimSpace(q.Get("date_to")),
		Query:    strings.TrimSpace(q.Get("q")),
		Sort:     ledger.SortDesc,
		Page:     1,
		PerPage:  ledger.DefaultPerPage,
	}
	if q.Get("sort") == ledger.SortAsc {
		c.Sort = ledger.SortAsc
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		c.Page = page
	}
	if per, err := strconv.Atoi(q.Get("per")); err == nil {
		c.PerPage = per
	}
	return c
}

// sanitizeInput strips control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// recordJSON is the wire shape of a record. Amounts travel as decimal
// strings with two places so clients never see float artifacts.
type recordJSON struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func toRecordJSON(r core.Record) recordJSON {
	return recordJSON{
		ID:          r.ID,
		Date:        r.Date,
		Type:        string(r.Kind),
		Category:    r.Category,
		Amount:      r.Amount.String(),
		Description: r.Description,
	}
}

func toRecordList(records []core.Record) []recordJSON {
	out := make([]recordJSON, len(records))
	for i, r := range records {
		out[i] = toRecordJSON(r)
	}
	return out
}
