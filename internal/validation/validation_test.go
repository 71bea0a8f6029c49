package validation

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kpassoubady/expense-tracker/internal/core"
)

// fakeProbe answers category lookups from in-memory sets.
type fakeProbe struct {
	takenNames map[string]bool
	existing   map[uuid.UUID]bool
}

func (p *fakeProbe) CategoryNameTaken(_ context.Context, name string, _ uuid.UUID) (bool, error) {
	return p.takenNames[strings.ToLower(name)], nil
}

func (p *fakeProbe) CategoryExists(_ context.Context, id uuid.UUID) (bool, error) {
	return p.existing[id], nil
}

func TestCategoryValidation(t *testing.T) {
	probe := &fakeProbe{takenNames: map[string]bool{"food": true}}

	tests := []struct {
		name       string
		input      core.CategoryInput
		wantFields []string
	}{
		{
			name:  "valid",
			input: core.CategoryInput{Name: "Groceries", Color: "#28a745"},
		},
		{
			name:       "missing name",
			input:      core.CategoryInput{Color: "#28a745"},
			wantFields: []string{"name"},
		},
		{
			name:       "name too long",
			input:      core.CategoryInput{Name: strings.Repeat("a", 101), Color: "#28a745"},
			wantFields: []string{"name"},
		},
		{
			name:  "multi-byte name within limit",
			input: core.CategoryInput{Name: strings.Repeat("é", 60), Color: "#28a745"},
		},
		{
			name:       "multi-byte name over limit",
			input:      core.CategoryInput{Name: strings.Repeat("é", 101), Color: "#28a745"},
			wantFields: []string{"name"},
		},
		{
			name:  "multi-byte description within limit",
			input: core.CategoryInput{Name: "Groceries", Description: strings.Repeat("ü", 255), Color: "#28a745"},
		},
		{
			name:       "duplicate name case insensitive",
			input:      core.CategoryInput{Name: "FOOD", Color: "#28a745"},
			wantFields: []string{"name"},
		},
		{
			name:       "bad color",
			input:      core.CategoryInput{Name: "Groceries", Color: "red"},
			wantFields: []string{"color"},
		},
		{
			name:       "short hex color",
			input:      core.CategoryInput{Name: "Groceries", Color: "#fff"},
			wantFields: []string{"color"},
		},
		{
			name:  "blank color allowed, defaulted later",
			input: core.CategoryInput{Name: "Groceries"},
		},
		{
			name: "multiple violations collected",
			input: core.CategoryInput{
				Name:        "",
				Description: strings.Repeat("d", 256),
				Icon:        strings.Repeat("i", 51),
				Color:       "zzz",
			},
			wantFields: []string{"name", "description", "icon", "color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verrs, err := Category(context.Background(), probe, tt.input, uuid.Nil)
			if err != nil {
				t.Fatalf("unexpected probe error: %v", err)
			}
			if len(tt.wantFields) == 0 {
				if verrs.Any() {
					t.Fatalf("expected no violations, got %v", verrs)
				}
				return
			}
			if len(verrs) != len(tt.wantFields) {
				t.Fatalf("got violations for %d fields (%v), want %d", len(verrs), verrs, len(tt.wantFields))
			}
			for _, field := range tt.wantFields {
				if len(verrs[field]) == 0 {
					t.Errorf("expected a violation for field %q, got %v", field, verrs)
				}
			}
		})
	}
}

func TestCategoryValidationExcludesOwnName(t *testing.T) {
	// Renaming a category to its current name must not trip uniqueness.
	// The probe receives the exclude id and the store-backed probe filters
	// on it; the fake ignores it, so simulate by not marking the name taken.
	probe := &fakeProbe{takenNames: map[string]bool{}}
	id := uuid.New()

	verrs, err := Category(context.Background(), probe, core.CategoryInput{Name: "Food", Color: "#28a745"}, id)
	if err != nil {
		t.Fatal(err)
	}
	if verrs.Any() {
		t.Errorf("unexpected violations: %v", verrs)
	}
}

func TestExpenseValidation(t *testing.T) {
	knownID := uuid.New()
	probe := &fakeProbe{existing: map[uuid.UUID]bool{knownID: true}}

	valid := core.ExpenseInput{
		Amount:      "42.50",
		Description: "Lunch",
		ExpenseDate: "2025-06-01",
		CategoryID:  knownID.String(),
	}

	t.Run("valid input parses", func(t *testing.T) {
		parsed, verrs, err := Expense(context.Background(), probe, valid)
		if err != nil {
			t.Fatal(err)
		}
		if verrs.Any() {
			t.Fatalf("unexpected violations: %v", verrs)
		}
		if parsed.Amount.Cents != 4250 {
			t.Errorf("amount = %d cents, want 4250", parsed.Amount.Cents)
		}
		if parsed.CategoryID != knownID {
			t.Errorf("category id = %v, want %v", parsed.CategoryID, knownID)
		}
		if parsed.ExpenseDate.String() != "2025-06-01" {
			t.Errorf("date = %v", parsed.ExpenseDate)
		}
	})

	tests := []struct {
		name      string
		mutate    func(in *core.ExpenseInput)
		wantField string
	}{
		{"zero amount", func(in *core.ExpenseInput) { in.Amount = "0" }, "amount"},
		{"negative amount", func(in *core.ExpenseInput) { in.Amount = "-3" }, "amount"},
		{"too many decimals", func(in *core.ExpenseInput) { in.Amount = "1.999" }, "amount"},
		{"missing description", func(in *core.ExpenseInput) { in.Description = "  " }, "description"},
		{"long description", func(in *core.ExpenseInput) { in.Description = strings.Repeat("x", 256) }, "description"},
		{"multi-byte description over limit", func(in *core.ExpenseInput) { in.Description = strings.Repeat("ß", 256) }, "description"},
		{"missing date", func(in *core.ExpenseInput) { in.ExpenseDate = "" }, "expenseDate"},
		{"malformed date", func(in *core.ExpenseInput) { in.ExpenseDate = "01/06/2025" }, "expenseDate"},
		{"future date", func(in *core.ExpenseInput) { in.ExpenseDate = "2999-01-01" }, "expenseDate"},
		{"missing category", func(in *core.ExpenseInput) { in.CategoryID = "" }, "categoryId"},
		{"malformed category id", func(in *core.ExpenseInput) { in.CategoryID = "not-a-uuid" }, "categoryId"},
		{"unknown category", func(in *core.ExpenseInput) { in.CategoryID = uuid.NewString() }, "categoryId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, verrs, err := Expense(context.Background(), probe, in)
			if err != nil {
				t.Fatal(err)
			}
			if len(verrs[tt.wantField]) == 0 {
				t.Errorf("expected violation on %q, got %v", tt.wantField, verrs)
			}
		})
	}

	t.Run("all violations collected at once", func(t *testing.T) {
		_, verrs, err := Expense(context.Background(), probe, core.ExpenseInput{})
		if err != nil {
			t.Fatal(err)
		}
		for _, field := range []string{"amount", "description", "expenseDate", "categoryId"} {
			if len(verrs[field]) == 0 {
				t.Errorf("expected violation on %q", field)
			}
		}
	})
}

func TestErrorsBehaveAsError(t *testing.T) {
	verrs := Errors{}
	verrs.Add("name", "Category name is required")

	var err error = verrs
	got, ok := AsErrors(err)
	if !ok {
		t.Fatal("AsErrors failed to recover validation errors")
	}
	if len(got["name"]) != 1 {
		t.Errorf("got %v", got)
	}

	if _, ok := AsErrors(context.Canceled); ok {
		t.Error("AsErrors matched an unrelated error")
	}
}
