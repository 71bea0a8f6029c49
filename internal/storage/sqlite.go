// Package storage is the persistence gateway: a SQLite-backed store that
// owns identity-keyed rows for categories and expenses, enforces the
// uniqueness and foreign-key constraints, and stamps timestamps on every
// write using its own UTC clock.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver, no CGO

	"github.com/kpassoubady/expense-tracker/internal/core"
)

// CategoryRow is a category entity joined with its live expense count.
type CategoryRow struct {
	core.Category
	ExpenseCount int
}

// ExpenseRow is an expense entity joined with the display fields of its
// category. CategoryName and CategoryColor are empty when the category row
// could not be resolved.
type ExpenseRow struct {
	core.Expense
	CategoryName  string
	CategoryColor string
}

// Store is the contract the service layer depends on.
type Store interface {
	InsertCategory(ctx context.Context, c *core.Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryRow, error)
	ListCategories(ctx context.Context) ([]CategoryRow, error)
	UpdateCategory(ctx context.Context, c *core.Category) (bool, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
	CategoryNameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)

	InsertExpense(ctx context.Context, e *core.Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseRow, error)
	ListExpenses(ctx context.Context) ([]ExpenseRow, error)
	ListExpensesByCategory(ctx context.Context, categoryID uuid.UUID) ([]ExpenseRow, error)
	UpdateExpense(ctx context.Context, e *core.Expense) (bool, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error)
	ExpenseExists(ctx context.Context, id uuid.UUID) (bool, error)
	TotalExpenseCents(ctx context.Context) (int64, error)

	Close() error
}

// SQLiteStore implements Store on a SQLite database file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// New opens (creating if needed) the database at dbPath, enables foreign
// keys and runs the embedded migrations.
func New(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// A single connection keeps the foreign_keys pragma in force for
	// every statement; SQLite gains nothing from a larger pool here.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, now: time.Now}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// stamp returns the gateway clock reading used for timestamp columns.
// Timestamps are persisted as unix nanoseconds so that ordering ties on
// expense_date break deterministically on creation order.
func (s *SQLiteStore) stamp() time.Time {
	return s.now().UTC()
}

// InsertCategory persists a new category. CreatedAt and UpdatedAt are set
// by the gateway, overriding any caller-supplied values.
func (s *SQLiteStore) InsertCategory(ctx context.Context, c *core.Category) error {
	now := s.stamp()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, description, icon, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.Description, c.Icon, c.Color,
		now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

const categorySelect = `
SELECT c.id, c.name, c.description, c.icon, c.color, c.created_at, c.updated_at,
       COUNT(e.id)
FROM categories c
LEFT JOIN expenses e ON e.category_id = c.id`

// GetCategory returns the category with its expense count, or (nil, nil)
// when no such row exists.
func (s *SQLiteStore) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryRow, error) {
	row := s.db.QueryRowContext(ctx, categorySelect+` WHERE c.id = ? GROUP BY c.id`, id.String())
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// ListCategories returns every category ordered by name ascending,
// case-insensitively, each with its live expense count.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]CategoryRow, error) {
	rows, err := s.db.QueryContext(ctx, categorySelect+` GROUP BY c.id ORDER BY c.name COLLATE NOCASE ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// UpdateCategory replaces the mutable fields of an existing category and
// stamps UpdatedAt; created_at is never touched. Returns false when the row
// no longer exists.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, c *core.Category) (bool, error) {
	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, icon = ?, color = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.Description, c.Icon, c.Color, now.UnixNano(), c.ID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update category rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	c.UpdatedAt = now
	return true, nil
}

// DeleteCategory removes a category; the foreign key cascades the delete to
// every dependent expense atomically. Returns false when nothing matched.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category rows affected: %w", err)
	}
	return n > 0, nil
}

// CategoryExists reports whether a category row with the id exists.
func (s *SQLiteStore) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = ?)`, id.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return exists, nil
}

// CategoryNameTaken reports whether another category already uses the name,
// compared case-insensitively. excludeID carves out the record being
// updated; pass uuid.Nil when creating.
func (s *SQLiteStore) CategoryNameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE name = ? COLLATE NOCASE AND id <> ?)`,
		name, excludeID.String(),
	).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("category name taken: %w", err)
	}
	return taken, nil
}

// InsertExpense persists a new expense. CreatedAt and UpdatedAt are set by
// the gateway, overriding any caller-supplied values.
func (s *SQLiteStore) InsertExpense(ctx context.Context, e *core.Expense) error {
	now := s.stamp()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount_cents, description, expense_date, category_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID.String(), e.Amount.Cents, e.Description, e.ExpenseDate.String(),
		e.CategoryID.String(), now.UnixNano(), now.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

const expenseSelect = `
SELECT e.id, e.amount_cents, e.description, e.expense_date, e.category_id,
       e.created_at, e.updated_at, c.name, c.color
FROM expenses e
LEFT JOIN categories c ON c.id = e.category_id`

const expenseOrder = ` ORDER BY e.expense_date DESC, e.created_at DESC`

// GetExpense returns the expense joined with its category display fields,
// or (nil, nil) when no such row exists.
func (s *SQLiteStore) GetExpense(ctx context.Context, id uuid.UUID) (*ExpenseRow, error) {
	row := s.db.QueryRowContext(ctx, expenseSelect+` WHERE e.id = ?`, id.String())
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

// ListExpenses returns every expense ordered by expense date descending,
// ties broken by creation time descending.
func (s *SQLiteStore) ListExpenses(ctx context.Context) ([]ExpenseRow, error) {
	return s.queryExpenses(ctx, expenseSelect+expenseOrder)
}

// ListExpensesByCategory returns the expenses of one category in the same
// order as ListExpenses.
func (s *SQLiteStore) ListExpensesByCategory(ctx context.Context, categoryID uuid.UUID) ([]ExpenseRow, error) {
	return s.queryExpenses(ctx, expenseSelect+` WHERE e.category_id = ?`+expenseOrder, categoryID.String())
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...any) ([]ExpenseRow, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// UpdateExpense replaces the mutable fields of an existing expense and
// stamps UpdatedAt. Returns false when the row no longer exists.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, e *core.Expense) (bool, error) {
	now := s.stamp()
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount_cents = ?, description = ?, expense_date = ?, category_id = ?, updated_at = ?
		 WHERE id = ?`,
		e.Amount.Cents, e.Description, e.ExpenseDate.String(), e.CategoryID.String(),
		now.UnixNano(), e.ID.String(),
	)
	if err != nil {
		return false, fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update expense rows affected: %w", err)
	}
	if n == 0 {
		return false, nil
	}
	e.UpdatedAt = now
	return true, nil
}

// DeleteExpense removes an expense. Returns false when nothing matched.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete expense rows affected: %w", err)
	}
	return n > 0, nil
}

// ExpenseExists reports whether an expense row with the id exists.
func (s *SQLiteStore) ExpenseExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM expenses WHERE id = ?)`, id.String(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("expense exists: %w", err)
	}
	return exists, nil
}

// TotalExpenseCents returns the exact sum of all expense amounts in cents,
// zero when no expenses exist.
func (s *SQLiteStore) TotalExpenseCents(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM expenses`,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("total expenses: %w", err)
	}
	return total, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(r rowScanner) (*CategoryRow, error) {
	var (
		c                    CategoryRow
		id                   string
		createdNS, updatedNS int64
	)
	if err := r.Scan(&id, &c.Name, &c.Description, &c.Icon, &c.Color, &createdNS, &updatedNS, &c.ExpenseCount); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse category id %q: %w", id, err)
	}
	c.ID = parsed
	c.CreatedAt = time.Unix(0, createdNS).UTC()
	c.UpdatedAt = time.Unix(0, updatedNS).UTC()
	return &c, nil
}

func scanExpense(r rowScanner) (*ExpenseRow, error) {
	var (
		e                    ExpenseRow
		id, categoryID, date string
		createdNS, updatedNS int64
		name, color          sql.NullString
	)
	if err := r.Scan(&id, &e.Amount.Cents, &e.Description, &date, &categoryID, &createdNS, &updatedNS, &name, &color); err != nil {
		return nil, err
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse expense id %q: %w", id, err)
	}
	parsedCategoryID, err := uuid.Parse(categoryID)
	if err != nil {
		return nil, fmt.Errorf("parse expense category id %q: %w", categoryID, err)
	}
	parsedDate, err := core.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parse expense date %q: %w", date, err)
	}
	e.ID = parsedID
	e.CategoryID = parsedCategoryID
	e.ExpenseDate = parsedDate
	e.CreatedAt = time.Unix(0, createdNS).UTC()
	e.UpdatedAt = time.Unix(0, updatedNS).UTC()
	e.CategoryName = name.String
	e.CategoryColor = color.String
	return &e, nil
}
