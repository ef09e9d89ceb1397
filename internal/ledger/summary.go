package ledger

import (
	"sort"

	"fintrack/internal/core"
)

// Totals is the headline summary of a record set.
type Totals struct {
	Income  core.Money
	Expense core.Money
	Balance core.Money
}

// CategoryTotal is an amount aggregated by category name.
type CategoryTotal struct {
	Name  string
	Total core.Money
}

// MonthTotal holds both totals for one calendar month.
type MonthTotal struct {
	Month   string // YYYY-MM
	Income  core.Money
	Expense core.Money
}

// Summarize computes income, expense and balance totals. It is a total
// function: an empty input yields zero totals. The result does not
// depend on record order.
func Summarize(records []core.Record) Totals {
	var t Totals
	for _, r := range records {
		switch r.Kind {
		case core.Income:
			t.Income = t.Income.Add(r.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(r.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

// ByCategory aggregates amounts of the given kind per category, sorted
// by total descending with category name breaking ties so the output
// is deterministic.
func ByCategory(records []core.Record, kind core.Kind) []CategoryTotal {
	sums := make(map[string]int64)
	for _, r := range records {
		if r.Kind == kind {
			sums[r.Category] += r.Amount.Cents
		}
	}
	out := make([]CategoryTotal, 0, len(sums))
	for name, cents := range sums {
		out = append(out, CategoryTotal{Name: name, Total: core.Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ByMonth aggregates both kinds per calendar month, ascending. The
// month key is the first seven characters of the record date; only
// months actually present in the input appear, with no gap filling.
func ByMonth(records []core.Record) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, r := range records {
		if len(r.Date) < 7 {
			continue
		}
		key := r.Date[:7]
		mt, ok := byMonth[key]
		if !ok {
			mt = &MonthTotal{Month: key}
			byMonth[key] = mt
		}
		switch r.Kind {
		case core.Income:
			mt.Income = mt.Income.Add(r.Amount)
		case core.Expense:
			mt.Expense = mt.Expense.Add(r.Amount)
		}
	}
	out := make([]MonthTotal, 0, len(byMonth))
	for _, mt := range byMonth {
		out = append(out, *mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
