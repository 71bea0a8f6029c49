package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kpassoubady/expense-tracker/internal/core"
	"github.com/kpassoubady/expense-tracker/internal/storage"
	"github.com/kpassoubady/expense-tracker/internal/validation"
)

func newTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustCreateCategory(t *testing.T, svc *CategoryService, in core.CategoryInput) core.CategoryView {
	t.Helper()

	view, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create category %q: %v", in.Name, err)
	}
	return *view
}

func TestCategoryCreate(t *testing.T) {
	svc := NewCategoryService(newTestStore(t))
	ctx := context.Background()

	t.Run("valid color is kept", func(t *testing.T) {
		view := mustCreateCategory(t, svc, core.CategoryInput{Name: "Food", Color: "#28a745"})
		if view.Color != "#28a745" {
			t.Errorf("color = %q", view.Color)
		}
		if view.ID == uuid.Nil {
			t.Error("id not assigned")
		}
		if view.CreatedAt.IsZero() {
			t.Error("created at not stamped")
		}
	})

	t.Run("blank color falls back to default", func(t *testing.T) {
		view := mustCreateCategory(t, svc, core.CategoryInput{Name: "Travel"})
		if view.Color != core.DefaultColor {
			t.Errorf("color = %q, want %q", view.Color, core.DefaultColor)
		}
	})

	t.Run("multi-byte name within limit", func(t *testing.T) {
		// 60 characters but 120 bytes; the limit counts characters.
		name := strings.Repeat("é", 60)
		view := mustCreateCategory(t, svc, core.CategoryInput{Name: name, Color: "#28a745"})
		if view.Name != name {
			t.Errorf("name = %q", view.Name)
		}
	})

	t.Run("duplicate name fails validation", func(t *testing.T) {
		_, err := svc.Create(ctx, core.CategoryInput{Name: "FOOD"})
		verrs, ok := validation.AsErrors(err)
		if !ok {
			t.Fatalf("expected validation errors, got %v", err)
		}
		if len(verrs["name"]) == 0 {
			t.Errorf("expected a name violation, got %v", verrs)
		}
	})

	t.Run("invalid color fails validation", func(t *testing.T) {
		_, err := svc.Create(ctx, core.CategoryInput{Name: "Misc", Color: "blue"})
		if verrs, ok := validation.AsErrors(err); !ok || len(verrs["color"]) == 0 {
			t.Errorf("expected a color violation, got %v", err)
		}
	})
}

func TestCategoryGetByIDAbsent(t *testing.T) {
	svc := NewCategoryService(newTestStore(t))

	view, err := svc.GetByID(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("absent id should not error: %v", err)
	}
	if view != nil {
		t.Errorf("expected nil view, got %+v", view)
	}
}

func TestCategoryUpdate(t *testing.T) {
	store := newTestStore(t)
	svc := NewCategoryService(store)
	ctx := context.Background()

	created := mustCreateCategory(t, svc, core.CategoryInput{Name: "Food", Color: "#28a745"})

	t.Run("replaces mutable fields", func(t *testing.T) {
		view, err := svc.Update(ctx, created.ID, core.CategoryInput{
			Name:        "Dining",
			Description: "restaurants",
			Color:       "#007bff",
		})
		if err != nil {
			t.Fatal(err)
		}
		if view == nil {
			t.Fatal("update returned absent for existing category")
		}
		if view.Name != "Dining" || view.Description != "restaurants" || view.Color != "#007bff" {
			t.Errorf("update not reflected: %+v", view)
		}
	})

	t.Run("keeping own name passes uniqueness", func(t *testing.T) {
		view, err := svc.Update(ctx, created.ID, core.CategoryInput{Name: "Dining", Color: "#007bff"})
		if err != nil {
			t.Fatalf("renaming to own name failed: %v", err)
		}
		if view == nil {
			t.Fatal("unexpected absent result")
		}
	})

	t.Run("absent id returns nil", func(t *testing.T) {
		view, err := svc.Update(ctx, uuid.New(), core.CategoryInput{Name: "Nobody"})
		if err != nil {
			t.Fatal(err)
		}
		if view != nil {
			t.Errorf("expected nil view, got %+v", view)
		}
	})
}

func TestCategoryDelete(t *testing.T) {
	svc := NewCategoryService(newTestStore(t))
	ctx := context.Background()

	created := mustCreateCategory(t, svc, core.CategoryInput{Name: "Food"})

	deleted, err := svc.Delete(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("delete of existing category returned false")
	}

	deleted, err = svc.Delete(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("second delete returned true")
	}
}

func TestCategoryGetAllCounts(t *testing.T) {
	store := newTestStore(t)
	categories := NewCategoryService(store)
	expenses := NewExpenseService(store, nil)
	ctx := context.Background()

	food := mustCreateCategory(t, categories, core.CategoryInput{Name: "Food"})
	mustCreateCategory(t, categories, core.CategoryInput{Name: "Travel"})

	for i := 0; i < 2; i++ {
		if _, err := expenses.Create(ctx, core.ExpenseInput{
			Amount:      "10.00",
			Description: "meal",
			ExpenseDate: "2025-01-01",
			CategoryID:  food.ID.String(),
		}); err != nil {
			t.Fatal(err)
		}
	}

	views, err := categories.GetAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d categories", len(views))
	}
	for _, v := range views {
		want := 0
		if v.ID == food.ID {
			want = 2
		}
		if v.ExpenseCount != want {
			t.Errorf("category %q count = %d, want %d", v.Name, v.ExpenseCount, want)
		}
	}
}
