package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kpassoubady/expense-tracker/internal/core"
)

// defaultCategories is the starter set installed on first run so a fresh
// deployment has something to record expenses against.
var defaultCategories = []core.Category{
	{
		ID:          uuid.MustParse("11111111-1111-1111-1111-111111111111"),
		Name:        "Food",
		Description: "Groceries, dining out, and food delivery",
		Icon:        "fas fa-utensils",
		Color:       "#28a745",
	},
	{
		ID:          uuid.MustParse("22222222-2222-2222-2222-222222222222"),
		Name:        "Transportation",
		Description: "Gas, parking, public transit, ride-sharing",
		Icon:        "fas fa-car",
		Color:       "#007bff",
	},
	{
		ID:          uuid.MustParse("33333333-3333-3333-3333-333333333333"),
		Name:        "Entertainment",
		Description: "Movies, concerts, streaming services, hobbies",
		Icon:        "fas fa-film",
		Color:       "#e83e8c",
	},
	{
		ID:          uuid.MustParse("44444444-4444-4444-4444-444444444444"),
		Name:        "Shopping",
		Description: "Clothing, electronics, household items",
		Icon:        "fas fa-shopping-bag",
		Color:       "#fd7e14",
	},
	{
		ID:          uuid.MustParse("55555555-5555-5555-5555-555555555555"),
		Name:        "Healthcare",
		Description: "Medical visits, pharmacy, insurance",
		Icon:        "fas fa-heartbeat",
		Color:       "#dc3545",
	},
}

// EnsureDefaultCategories inserts the starter categories when the table is
// empty. It is a startup step, not a migration, so tests against a fresh
// database start with no rows.
func (s *SQLiteStore) EnsureDefaultCategories(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i := range defaultCategories {
		c := defaultCategories[i]
		if err := s.InsertCategory(ctx, &c); err != nil {
			return fmt.Errorf("seed category %q: %w", c.Name, err)
		}
	}

	slog.InfoContext(ctx, "Seeded default categories", "count", len(defaultCategories))
	return nil
}
