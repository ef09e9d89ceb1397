// Package period resolves day/week/month/year scopes into canonical
// period anchors and navigable prev/next periods. Everything here is
// pure date math over midnight-UTC times.
package period

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
)

const (
	Day   Scope = "day"
	Week  Scope = "week"
	Month Scope = "month"
	Year  Scope = "year"
)

// DefaultScope is what callers fall back to on an unknown scope value.
const DefaultScope = Month

// Scope is the granularity of a reporting period.
type Scope string

var ErrInvalidScope = errors.New("scope must be one of day, week, month, year")

// ParseScope validates a scope string. Callers substitute DefaultScope
// on error rather than failing the request.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case Day, Week, Month, Year:
		return Scope(s), nil
	default:
		return "", ErrInvalidScope
	}
}

// Normalize returns the canonical anchor of the period containing ref:
// the day itself, the most recent Monday, the first of the month, or
// January 1st. Normalize is idempotent for every scope.
func Normalize(scope Scope, ref time.Time) time.Time {
	d := truncate(ref)
	switch scope {
	case Day:
		return d
	case Week:
		// ISO weeks start on Monday; Go's Sunday is 0.
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case Month:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Year:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// Neighbors returns the anchors of the previous and next periods. The
// input is normalized first, so month arithmetic always runs on
// day-of-month 1 and can never be skewed by end-of-month normalization.
func Neighbors(scope Scope, anchor time.Time) (prev, next time.Time) {
	a := Normalize(scope, anchor)
	switch scope {
	case Day:
		return a.AddDate(0, 0, -1), a.AddDate(0, 0, 1)
	case Week:
		return a.AddDate(0, 0, -7), a.AddDate(0, 0, 7)
	case Year:
		return a.AddDate(-1, 0, 0), a.AddDate(1, 0, 0)
	default:
		return a.AddDate(0, -1, 0), a.AddDate(0, 1, 0)
	}
}

// Bounds returns the inclusive ISO date range covered by the period
// anchored at anchor, ready to feed the ledger filter.
func Bounds(scope Scope, anchor time.Time) (from, to string) {
	a := Normalize(scope, anchor)
	_, next := Neighbors(scope, a)
	return a.Format(core.DateFormat), next.AddDate(0, 0, -1).Format(core.DateFormat)
}

// Label renders a human heading for the period.
func Label(scope Scope, anchor time.Time) string {
	a := Normalize(scope, anchor)
	switch scope {
	case Day:
		return a.Format(core.DateFormat)
	case Week:
		end := a.AddDate(0, 0, 6)
		return fmt.Sprintf("Week %s – %s", a.Format(core.DateFormat), end.Format(core.DateFormat))
	case Year:
		return a.Format("2006")
	default:
		return a.Format("2006-01")
	}
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
