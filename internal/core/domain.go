package core

import (
	"errors"
	"strings"
	"time"
)

// DateFormat is the canonical stored date layout. ISO dates sort
// lexicographically in chronological order, which the ledger filter
// relies on for range comparisons.
const DateFormat = "2006-01-02"

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind tags a record as income or expense.
	Kind string

	// Money is an amount in cents. Arithmetic stays in integer cents;
	// formatting to two decimals happens only at the edges.
	Money struct {
		Cents int64
	}

	// Record is a single ledger entry. Category is a denormalized
	// name, not a foreign key: the read path filters on the string and
	// existence is enforced only at interactive create/edit time.
	Record struct {
		ID          int64
		Date        string // YYYY-MM-DD
		Kind        Kind
		Category    string
		Amount      Money
		Description string
		OwnerID     int64
	}

	// Category is an owner-scoped grouping label. Names are unique per
	// owner, case-insensitively.
	Category struct {
		ID      int64
		Name    string
		OwnerID int64
	}

	// User owns records and categories. Password hashing lives in the
	// auth package; this only carries the stored hash.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}
)

var (
	ErrInvalidDate     = errors.New("date must be a valid YYYY-MM-DD date")
	ErrInvalidKind     = errors.New("type must be 'income' or 'expense'")
	ErrInvalidAmount   = errors.New("amount must be a positive number")
	ErrInvalidCategory = errors.New("category name must be 1-50 characters")
	ErrCategoryExists  = errors.New("category already exists")
	ErrCategoryInUse   = errors.New("category is referenced by records")
	ErrCategoryMissing = errors.New("category does not exist")
	ErrUserExists      = errors.New("username already taken")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrBadCredentials  = errors.New("invalid username or password")
	ErrDescriptionLong = errors.New("description too long (max 200 characters)")
)

// ParseKind validates and normalizes a record type string.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", ErrInvalidKind
	}
}

// ValidDate reports whether s is a real calendar date in ISO form.
func ValidDate(s string) bool {
	_, err := time.Parse(DateFormat, s)
	return err == nil
}

func (k Kind) Valid() bool { return k == Income || k == Expense }

// Title returns the display form of the kind ("Income", "Expense").
func (k Kind) Title() string {
	if len(k) == 0 {
		return ""
	}
	return strings.ToUpper(string(k[0])) + string(k[1:])
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (r Record) Validate() error {
	if !ValidDate(r.Date) {
		return ErrInvalidDate
	}
	if !r.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrInvalidCategory
	}
	if len(r.Description) > 200 {
		return ErrDescriptionLong
	}
	return nil
}

func (c Category) Validate() error {
	name := strings.TrimSpace(c.Name)
	if name == "" || len(name) > 50 {
		return ErrInvalidCategory
	}
	return nil
}
