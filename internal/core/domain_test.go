package core

import (
	"errors"
	"strings"
	"testing"
)

func TestParseKind(t *testing.T) {
	cases := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"income", Income, true},
		{"expense", Expense, true},
		{"EXPENSE", Expense, true},
		{" Income ", Income, true},
		{"transfer", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseKind(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseKind(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		} else if err == nil {
			t.Errorf("ParseKind(%q) expected error", tc.in)
		}
	}
}

func TestKindTitle(t *testing.T) {
	if got := Income.Title(); got != "Income" {
		t.Errorf("Income.Title() = %q", got)
	}
	if got := Expense.Title(); got != "Expense" {
		t.Errorf("Expense.Title() = %q", got)
	}
}

func TestValidDate(t *testing.T) {
	valid := []string{"2024-02-29", "2023-01-01", "1999-12-31"}
	invalid := []string{"2023-02-29", "2024-13-01", "2024-1-1", "02/13/2024", "", "yesterday"}
	for _, d := range valid {
		if !ValidDate(d) {
			t.Errorf("ValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if ValidDate(d) {
			t.Errorf("ValidDate(%q) = true, want false", d)
		}
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{
		Date:        "2024-02-13",
		Kind:        Expense,
		Category:    "Food",
		Amount:      Money{Cents: 1250},
		Description: "lunch",
		OwnerID:     1,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Record)
		want   error
	}{
		{"bad date", func(r *Record) { r.Date = "13/02/2024" }, ErrInvalidDate},
		{"bad kind", func(r *Record) { r.Kind = "transfer" }, ErrInvalidKind},
		{"zero amount", func(r *Record) { r.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(r *Record) { r.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"blank category", func(r *Record) { r.Category = "  " }, ErrInvalidCategory},
		{"long description", func(r *Record) { r.Description = strings.Repeat("x", 201) }, ErrDescriptionLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := good
			tc.mutate(&r)
			if err := r.Validate(); !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestCategoryValidate(t *testing.T) {
	if err := (Category{Name: "Food"}).Validate(); err != nil {
		t.Errorf("valid category rejected: %v", err)
	}
	if err := (Category{Name: ""}).Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("empty name: got %v", err)
	}
	if err := (Category{Name: strings.Repeat("a", 51)}).Validate(); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("over-long name: got %v", err)
	}
	if err := (Category{Name: strings.Repeat("a", 50)}).Validate(); err != nil {
		t.Errorf("50-char name rejected: %v", err)
	}
}
