package ledger

import (
	"testing"

	"fintrack/internal/core"
)

func rec(id int64, date string, kind core.Kind, category string, cents int64, desc string) core.Record {
	return core.Record{
		ID:          id,
		Date:        date,
		Kind:        kind,
		Category:    category,
		Amount:      core.Money{Cents: cents},
		Description: desc,
		OwnerID:     1,
	}
}

func sampleLedger() []core.Record {
	return []core.Record{
		rec(1, "2024-01-15", core.Income, "Salary", 200000, "January salary"),
		rec(2, "2024-01-20", core.Expense, "Food", 4500, "groceries at market"),
		rec(3, "2024-02-01", core.Expense, "Food", 1250, "Lunch downtown"),
		rec(4, "2024-02-01", core.Expense, "Rent", 80000, "february rent"),
		rec(5, "2024-02-10", core.Income, "Bonus", 50000, "project bonus"),
		rec(6, "2024-03-05", core.Expense, "food", 900, "coffee"),
	}
}

func TestSelectByCategory(t *testing.T) {
	got := Select(sampleLedger(), Criteria{Category: "Food"})
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
	// Matching is case-sensitive: "food" (id 6) is a different string.
	for _, r := range got {
		if r.Category != "Food" {
			t.Errorf("unexpected category %q", r.Category)
		}
	}
}

func TestSelectByKind(t *testing.T) {
	got := Select(sampleLedger(), Criteria{Kind: "income"})
	if len(got) != 2 {
		t.Fatalf("got %d income records, want 2", len(got))
	}

	// An unknown kind is ignored, not rejected.
	got = Select(sampleLedger(), Criteria{Kind: "transfer"})
	if len(got) != 6 {
		t.Fatalf("unknown kind should not filter: got %d, want 6", len(got))
	}
}

func TestSelectByDateRange(t *testing.T) {
	got := Select(sampleLedger(), Criteria{DateFrom: "2024-02-01", DateTo: "2024-02-10"})
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3 (bounds are inclusive)", len(got))
	}
	for _, r := range got {
		if r.Date < "2024-02-01" || r.Date > "2024-02-10" {
			t.Errorf("record %d date %s outside range", r.ID, r.Date)
		}
	}
}

func TestSelectByQuery(t *testing.T) {
	got := Select(sampleLedger(), Criteria{Query: "LUNCH"})
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("case-insensitive description search failed: %+v", got)
	}
	// Search covers description only, not category.
	got = Select(sampleLedger(), Criteria{Query: "Salary"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("want only the record with 'salary' in its description, got %+v", got)
	}
}

func TestSelectSortStable(t *testing.T) {
	asc := Select(sampleLedger(), Criteria{Sort: SortAsc})
	if asc[0].ID != 1 || asc[len(asc)-1].ID != 6 {
		t.Errorf("asc sort wrong ends: first=%d last=%d", asc[0].ID, asc[len(asc)-1].ID)
	}
	// Records 3 and 4 share a date; insertion order must hold.
	for i, r := range asc {
		if r.ID == 3 {
			if i+1 >= len(asc) || asc[i+1].ID != 4 {
				t.Errorf("tie on 2024-02-01 not in insertion order")
			}
		}
	}

	desc := Select(sampleLedger(), Criteria{Sort: SortDesc})
	if desc[0].ID != 6 {
		t.Errorf("desc sort: first = %d, want 6", desc[0].ID)
	}
	// Stable descending keeps insertion order within the tie too.
	for i, r := range desc {
		if r.ID == 3 {
			if i+1 >= len(desc) || desc[i+1].ID != 4 {
				t.Errorf("desc tie on 2024-02-01 not in insertion order")
			}
		}
	}
}

func TestApplyPagination(t *testing.T) {
	records := sampleLedger()

	page := Apply(records, Criteria{Sort: SortAsc, Page: 1, PerPage: 4})
	if page.TotalMatching != 6 || page.TotalPages != 2 || len(page.Items) != 4 {
		t.Fatalf("page 1: total=%d pages=%d items=%d", page.TotalMatching, page.TotalPages, len(page.Items))
	}

	page = Apply(records, Criteria{Sort: SortAsc, Page: 2, PerPage: 4})
	if len(page.Items) != 2 {
		t.Fatalf("page 2: items=%d, want 2", len(page.Items))
	}

	// One past the last page is empty, not an error.
	page = Apply(records, Criteria{Sort: SortAsc, Page: 3, PerPage: 4})
	if len(page.Items) != 0 || page.TotalPages != 2 {
		t.Fatalf("page 3: items=%d pages=%d", len(page.Items), page.TotalPages)
	}
}

func TestApplyPageCountProperty(t *testing.T) {
	var records []core.Record
	for i := int64(1); i <= 23; i++ {
		records = append(records, rec(i, "2024-01-01", core.Expense, "Misc", 100, ""))
	}
	for _, perPage := range []int{1, 5, 7, 23, 24} {
		page := Apply(records, Criteria{Page: 1, PerPage: perPage})
		wantPages := (23 + perPage - 1) / perPage
		if page.TotalPages != wantPages {
			t.Errorf("perPage=%d: pages=%d, want %d", perPage, page.TotalPages, wantPages)
		}
		beyond := Apply(records, Criteria{Page: wantPages + 1, PerPage: perPage})
		if len(beyond.Items) != 0 {
			t.Errorf("perPage=%d: page beyond last returned %d items", perPage, len(beyond.Items))
		}
	}
}

func TestApplyClamping(t *testing.T) {
	records := sampleLedger()

	// Non-positive per-page clamps to 1, not to the default: the
	// default applies only when no value was supplied at all.
	page := Apply(records, Criteria{Page: 0, PerPage: 0})
	if page.Page != 1 || page.PerPage != 1 {
		t.Errorf("zero values not clamped: page=%d per=%d", page.Page, page.PerPage)
	}
	if len(page.Items) != 1 || page.TotalPages != len(records) {
		t.Errorf("per=1 paging: items=%d pages=%d", len(page.Items), page.TotalPages)
	}

	page = Apply(records, Criteria{Page: -5, PerPage: 1000})
	if page.Page != 1 || page.PerPage != MaxPerPage {
		t.Errorf("out-of-range values not clamped: page=%d per=%d", page.Page, page.PerPage)
	}
}

func TestApplyEmptyInput(t *testing.T) {
	page := Apply(nil, Criteria{})
	if page.TotalMatching != 0 || page.TotalPages != 0 || len(page.Items) != 0 {
		t.Fatalf("empty ledger: %+v", page)
	}
}
