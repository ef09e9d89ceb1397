package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

// Layouts tried in order before the permissive fallback. ISO wins, then
// US month-first, then day-first: "02/13/2024" can only be US, while an
// ambiguous "03/04/2024" resolves as March 4th.
var dateLayouts = []string{
	core.DateFormat, // 2006-01-02
	"01/02/2006",    // MM/DD/YYYY
	"02/01/2006",    // DD/MM/YYYY
}

// ParseDate normalizes a date in any accepted input format to
// YYYY-MM-DD. As a last resort it splits on slashes, dots or dashes
// into three integers read as month/day/year.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(core.DateFormat), nil
		}
	}
	if iso, ok := parseLooseDate(s); ok {
		return iso, nil
	}
	return "", fmt.Errorf("unrecognized date: %q", s)
}

func parseLooseDate(s string) (string, bool) {
	norm := strings.NewReplacer(".", "/", "-", "/").Replace(s)
	var parts []int
	for _, p := range strings.Split(norm, "/") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return "", false
		}
		parts = append(parts, n)
	}
	if len(parts) != 3 {
		return "", false
	}
	m, d, y := parts[0], parts[1], parts[2]
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; a changed month or
	// day means the input was not a real calendar date.
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return "", false
	}
	return t.Format(core.DateFormat), true
}
