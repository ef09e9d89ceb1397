// Package storage implements the owner-scoped persistence collaborator
// on SQLite. Every mutating operation is a single transaction; the
// multi-step ones (import batches, category renames) wrap all their
// statements in one so readers never observe partial state.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := migrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ---- users ----

func (r *SQLiteRepository) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash)
	if isUniqueViolation(err) {
		return core.User{}, core.ErrUserExists
	}
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, fmt.Errorf("user id: %w", err)
	}

	slog.InfoContext(ctx, "User created", "user_id", id, "username", username)
	return core.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

func (r *SQLiteRepository) UserByName(ctx context.Context, username string) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by name: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id int64) (core.User, error) {
	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password_hash FROM users WHERE id = ?`,
		id).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// ---- categories ----

func (r *SQLiteRepository) CategoriesByOwner(ctx context.Context, ownerID int64) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name FROM categories WHERE user_id = ? ORDER BY name ASC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CategoryNames implements the import pipeline's category-existence
// collaborator.
func (r *SQLiteRepository) CategoryNames(ctx context.Context, ownerID int64) ([]string, error) {
	cats, err := r.CategoriesByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names, nil
}

// CategoryExists reports whether the owner has a category with exactly
// this name. The interactive record write path uses it to enforce
// referential integrity.
func (r *SQLiteRepository) CategoryExists(ctx context.Context, ownerID int64, name string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM categories WHERE user_id = ? AND name = ?`,
		ownerID, name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check category: %w", err)
	}
	return n > 0, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, ownerID int64, name string) (core.Category, error) {
	c := core.Category{Name: strings.TrimSpace(name), OwnerID: ownerID}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (user_id, name) VALUES (?, ?)`,
		ownerID, c.Name)
	if isUniqueViolation(err) {
		return core.Category{}, core.ErrCategoryExists
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID, err = res.LastInsertId()
	if err != nil {
		return core.Category{}, fmt.Errorf("category id: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "owner_id", ownerID, "category", c.Name)
	return c, nil
}

func (r *SQLiteRepository) categoryByID(ctx context.Context, ownerID, id int64) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name FROM categories WHERE id = ?`,
		id).Scan(&c.ID, &c.OwnerID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	if c.OwnerID != ownerID {
		return core.Category{}, core.ErrForbidden
	}
	return c, nil
}

// DeleteCategory removes an owner's category. Deletion is rejected
// while any record still references the category by name.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, ownerID, id int64) error {
	c, err := r.categoryByID(ctx, ownerID, id)
	if err != nil {
		return err
	}

	var inUse int
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM records WHERE user_id = ? AND category = ?`,
		ownerID, c.Name).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("count category references: %w", err)
	}
	if inUse > 0 {
		return core.ErrCategoryInUse
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted", "owner_id", ownerID, "category", c.Name)
	return nil
}

// RenameCategory renames a category and rewrites the denormalized
// category field of every matching record in the same transaction, so
// readers never see the rename half applied.
func (r *SQLiteRepository) RenameCategory(ctx context.Context, ownerID, id int64, newName string) (core.Category, error) {
	c, err := r.categoryByID(ctx, ownerID, id)
	if err != nil {
		return core.Category{}, err
	}
	renamed := core.Category{ID: c.ID, Name: strings.TrimSpace(newName), OwnerID: ownerID}
	if err := renamed.Validate(); err != nil {
		return core.Category{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Category{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, renamed.Name, id)
	if isUniqueViolation(err) {
		return core.Category{}, core.ErrCategoryExists
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("rename category: %w", err)
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE records SET category = ? WHERE user_id = ? AND category = ?`,
		renamed.Name, ownerID, c.Name)
	if err != nil {
		return core.Category{}, fmt.Errorf("rewrite record categories: %w", err)
	}
	rewritten, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return core.Category{}, fmt.Errorf("commit rename: %w", err)
	}

	slog.InfoContext(ctx, "Category renamed",
		"owner_id", ownerID,
		"from", c.Name,
		"to", renamed.Name,
		"records_rewritten", rewritten)
	return renamed, nil
}

// ---- records ----

// RecordsByOwner returns the owner's full ledger in insertion order,
// the stable tie-break order for filtered views.
func (r *SQLiteRepository) RecordsByOwner(ctx context.Context, ownerID int64) ([]core.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, date, kind, category, amount_cents, description
		 FROM records WHERE user_id = ? ORDER BY id ASC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []core.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(rows *sql.Rows) (core.Record, error) {
	var rec core.Record
	err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Date, &rec.Kind,
		&rec.Category, &rec.Amount.Cents, &rec.Description)
	if err != nil {
		return core.Record{}, fmt.Errorf("scan record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) RecordByID(ctx context.Context, ownerID, id int64) (core.Record, error) {
	var rec core.Record
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, date, kind, category, amount_cents, description
		 FROM records WHERE id = ?`,
		id).Scan(&rec.ID, &rec.OwnerID, &rec.Date, &rec.Kind,
		&rec.Category, &rec.Amount.Cents, &rec.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Record{}, core.ErrNotFound
	}
	if err != nil {
		return core.Record{}, fmt.Errorf("get record: %w", err)
	}
	if rec.OwnerID != ownerID {
		return core.Record{}, core.ErrForbidden
	}
	return rec, nil
}

func (r *SQLiteRepository) CreateRecord(ctx context.Context, rec core.Record) (core.Record, error) {
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO records (user_id, date, kind, category, amount_cents, description)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.OwnerID, rec.Date, rec.Kind, rec.Category, rec.Amount.Cents, rec.Description)
	if err != nil {
		return core.Record{}, fmt.Errorf("create record: %w", err)
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return core.Record{}, fmt.Errorf("record id: %w", err)
	}

	slog.InfoContext(ctx, "Record created",
		"owner_id", rec.OwnerID,
		"record_id", rec.ID,
		"kind", rec.Kind,
		"category", rec.Category,
		"amount_cents", rec.Amount.Cents)
	return rec, nil
}

// UpdateRecord overwrites an existing record after the usual
// ownership checks.
func (r *SQLiteRepository) UpdateRecord(ctx context.Context, rec core.Record) (core.Record, error) {
	if _, err := r.RecordByID(ctx, rec.OwnerID, rec.ID); err != nil {
		return core.Record{}, err
	}
	if err := rec.Validate(); err != nil {
		return core.Record{}, err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE records SET date = ?, kind = ?, category = ?, amount_cents = ?, description = ?
		 WHERE id = ? AND user_id = ?`,
		rec.Date, rec.Kind, rec.Category, rec.Amount.Cents, rec.Description,
		rec.ID, rec.OwnerID)
	if err != nil {
		return core.Record{}, fmt.Errorf("update record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) DeleteRecord(ctx context.Context, ownerID, id int64) error {
	if _, err := r.RecordByID(ctx, ownerID, id); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE id = ? AND user_id = ?`, id, ownerID); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}

	slog.InfoContext(ctx, "Record deleted", "owner_id", ownerID, "record_id", id)
	return nil
}

// ImportBatch persists an import's accepted rows and new categories as
// one atomic unit. Nothing is visible until the commit; a failure
// leaves the ledger untouched.
func (r *SQLiteRepository) ImportBatch(ctx context.Context, ownerID int64, records []core.Record, newCategories []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, name := range newCategories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (user_id, name) VALUES (?, ?)`,
			ownerID, name); err != nil {
			return fmt.Errorf("insert category %q: %w", name, err)
		}
	}
	for _, rec := range records {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO records (user_id, date, kind, category, amount_cents, description)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			ownerID, rec.Date, rec.Kind, rec.Category, rec.Amount.Cents, rec.Description); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}

	slog.InfoContext(ctx, "Import batch committed",
		"owner_id", ownerID,
		"records", len(records),
		"new_categories", len(newCategories))
	return nil
}
