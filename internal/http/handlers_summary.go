package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/ledger"
	"fintrack/internal/period"
)

type categoryTotalJSON struct {
	Name  string `json:"name"`
	Total string `json:"total"`
}

type monthTotalJSON struct {
	Month   string `json:"month"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

// handleSummary renders the dashboard for one period: headline totals,
// per-category breakdowns for both kinds and the monthly series, plus
// the prev/next anchors the client needs for navigation.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request, user core.User) {
	q := r.URL.Query()

	scope, err := period.ParseScope(q.Get("scope"))
	if err != nil {
		scope = period.DefaultScope
	}
	ref := time.Now().UTC()
	if raw := q.Get("date"); raw != "" {
		if t, err := time.Parse(core.DateFormat, raw); err == nil {
			ref = t
		}
	}

	anchor := period.Normalize(scope, ref)
	prev, next := period.Neighbors(scope, anchor)
	from, to := period.Bounds(scope, anchor)

	records, err := s.filter.All(r.Context(), user.ID, ledger.Criteria{
		DateFrom: from,
		DateTo:   to,
		Sort:     ledger.SortAsc,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	totals := ledger.Summarize(records)
	expenseCats := ledger.ByCategory(records, core.Expense)
	incomeCats := ledger.ByCategory(records, core.Income)
	months := ledger.ByMonth(records)

	writeJSON(w, http.StatusOK, map[string]any{
		"scope":     string(scope),
		"anchor":    anchor.Format(core.DateFormat),
		"label":     period.Label(scope, anchor),
		"prev":      prev.Format(core.DateFormat),
		"next":      next.Format(core.DateFormat),
		"date_from": from,
		"date_to":   to,
		"totals": map[string]string{
			"income":  totals.Income.String(),
			"expense": totals.Expense.String(),
			"balance": totals.Balance.String(),
		},
		"expense_by_category": toCategoryTotals(expenseCats),
		"income_by_category":  toCategoryTotals(incomeCats),
		"months":              toMonthTotals(months),
	})
}

func toCategoryTotals(in []ledger.CategoryTotal) []categoryTotalJSON {
	out := make([]categoryTotalJSON, len(in))
	for i, ct := range in {
		out[i] = categoryTotalJSON{Name: ct.Name, Total: ct.Total.String()}
	}
	return out
}

func toMonthTotals(in []ledger.MonthTotal) []monthTotalJSON {
	out := make([]monthTotalJSON, len(in))
	for i, mt := range in {
		out[i] = monthTotalJSON{
			Month:   mt.Month,
			Income:  mt.Income.String(),
			Expense: mt.Expense.String(),
		}
	}
	return out
}
