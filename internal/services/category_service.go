// Package services is the domain service layer: the only logic in the
// system. It validates inputs, assigns identity, shapes storage rows into
// transfer views and performs the aggregation reads.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kpassoubady/expense-tracker/internal/core"
	"github.com/kpassoubady/expense-tracker/internal/storage"
	"github.com/kpassoubady/expense-tracker/internal/validation"
)

// CategoryService manages category operations.
type CategoryService struct {
	store storage.Store
}

func NewCategoryService(store storage.Store) *CategoryService {
	return &CategoryService{store: store}
}

// GetAll returns every category ordered by name ascending, each with a live
// expense count.
func (s *CategoryService) GetAll(ctx context.Context) ([]core.CategoryView, error) {
	rows, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	views := make([]core.CategoryView, len(rows))
	for i, row := range rows {
		views[i] = mapCategory(row)
	}
	return views, nil
}

// GetByID returns one category view, or (nil, nil) when the id is unknown.
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*core.CategoryView, error) {
	row, err := s.store.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if row == nil {
		slog.WarnContext(ctx, "Category not found", "category_id", id)
		return nil, nil
	}
	view := mapCategory(*row)
	return &view, nil
}

// Create validates the input, assigns a fresh identity and persists the
// category. A blank color falls back to the default. Validation failures
// are returned as validation.Errors.
func (s *CategoryService) Create(ctx context.Context, in core.CategoryInput) (*core.CategoryView, error) {
	verrs, err := validation.Category(ctx, s.store, in, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if verrs.Any() {
		return nil, verrs
	}

	category := newCategory(uuid.New(), in)
	if err := s.store.InsertCategory(ctx, &category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Created category", "category_id", category.ID, "name", category.Name)

	view := core.CategoryView{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		Icon:        category.Icon,
		Color:       category.Color,
		CreatedAt:   category.CreatedAt,
	}
	return &view, nil
}

// Update validates the input and replaces every mutable field of the
// category; CreatedAt is untouched. Returns (nil, nil) when the id is
// unknown.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, in core.CategoryInput) (*core.CategoryView, error) {
	verrs, err := validation.Category(ctx, s.store, in, id)
	if err != nil {
		return nil, err
	}
	if verrs.Any() {
		return nil, verrs
	}

	category := newCategory(id, in)
	found, err := s.store.UpdateCategory(ctx, &category)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if !found {
		slog.WarnContext(ctx, "Category not found for update", "category_id", id)
		return nil, nil
	}

	slog.InfoContext(ctx, "Updated category", "category_id", id)
	return s.GetByID(ctx, id)
}

// Delete removes the category and, by cascade, every dependent expense.
// Returns false when the id is unknown.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	if !deleted {
		slog.WarnContext(ctx, "Category not found for deletion", "category_id", id)
		return false, nil
	}

	slog.InfoContext(ctx, "Deleted category", "category_id", id)
	return true, nil
}

// Exists reports whether a category with the id exists.
func (s *CategoryService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.CategoryExists(ctx, id)
}

func newCategory(id uuid.UUID, in core.CategoryInput) core.Category {
	color := strings.TrimSpace(in.Color)
	if color == "" {
		color = core.DefaultColor
	}
	return core.Category{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Icon:        strings.TrimSpace(in.Icon),
		Color:       color,
	}
}

func mapCategory(row storage.CategoryRow) core.CategoryView {
	return core.CategoryView{
		ID:           row.ID,
		Name:         row.Name,
		Description:  row.Description,
		Icon:         row.Icon,
		Color:        row.Color,
		ExpenseCount: row.ExpenseCount,
		CreatedAt:    row.CreatedAt,
	}
}
