// Package validation evaluates the field rules checked before every create
// and update. Rules are evaluated independently: all violations are
// collected into a field-keyed map instead of failing on the first one.
package validation

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/kpassoubady/expense-tracker/internal/core"
)

// Errors maps a JSON field name to the rule violations recorded for it.
type Errors map[string][]string

// Add records a violation for a field.
func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Any reports whether at least one violation was recorded.
func (e Errors) Any() bool {
	return len(e) > 0
}

// Error renders the violations as a single line, fields in sorted order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var b strings.Builder
	b.WriteString("validation failed:")
	for _, f := range fields {
		fmt.Fprintf(&b, " %s: %s;", f, strings.Join(e[f], ", "))
	}
	return strings.TrimSuffix(b.String(), ";")
}

// AsErrors unwraps a validation Errors value from err, if present.
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// CategoryProbe answers the storage-backed questions the rules need:
// whether a name is already taken and whether a referenced category exists.
type CategoryProbe interface {
	CategoryNameTaken(ctx context.Context, name string, excludeID uuid.UUID) (bool, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Category evaluates the category rules. excludeID is the id of the record
// being updated (uuid.Nil on create) so a category may keep its own name.
// The returned error is non-nil only when a probe fails.
func Category(ctx context.Context, probe CategoryProbe, in core.CategoryInput, excludeID uuid.UUID) (Errors, error) {
	verrs := Errors{}

	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		verrs.Add("name", "Category name is required")
	case utf8.RuneCountInString(name) > core.MaxNameLength:
		verrs.Add("name", fmt.Sprintf("Category name cannot exceed %d characters", core.MaxNameLength))
	default:
		taken, err := probe.CategoryNameTaken(ctx, name, excludeID)
		if err != nil {
			return nil, fmt.Errorf("check category name uniqueness: %w", err)
		}
		if taken {
			verrs.Add("name", "A category with this name already exists")
		}
	}

	if utf8.RuneCountInString(in.Description) > core.MaxDescriptionLength {
		verrs.Add("description", fmt.Sprintf("Description cannot exceed %d characters", core.MaxDescriptionLength))
	}

	if color := strings.TrimSpace(in.Color); color != "" && !hexColorPattern.MatchString(color) {
		verrs.Add("color", "Color must be a valid hex color code (e.g., #28a745)")
	}

	if utf8.RuneCountInString(in.Icon) > core.MaxIconLength {
		verrs.Add("icon", fmt.Sprintf("Icon cannot exceed %d characters", core.MaxIconLength))
	}

	return verrs, nil
}

// ParsedExpense holds the normalized values an expense input parses to when
// its rules pass.
type ParsedExpense struct {
	Amount      core.Money
	Description string
	ExpenseDate core.Date
	CategoryID  uuid.UUID
}

// Expense evaluates the expense rules and parses the raw input fields. The
// category existence check goes through the probe so test and production
// storage enforce the same referential rule. The returned error is non-nil
// only when the probe fails.
func Expense(ctx context.Context, probe CategoryProbe, in core.ExpenseInput) (ParsedExpense, Errors, error) {
	verrs := Errors{}
	var parsed ParsedExpense

	amount, err := core.ParseAmount(in.Amount)
	switch {
	case errors.Is(err, core.ErrAmountPrecision):
		verrs.Add("amount", "Amount cannot have more than 2 decimal places")
	case err != nil, !amount.IsPositive():
		verrs.Add("amount", "Amount must be greater than 0")
	default:
		parsed.Amount = amount
	}

	desc := strings.TrimSpace(in.Description)
	switch {
	case desc == "":
		verrs.Add("description", "Description is required")
	case utf8.RuneCountInString(desc) > core.MaxDescriptionLength:
		verrs.Add("description", fmt.Sprintf("Description cannot exceed %d characters", core.MaxDescriptionLength))
	default:
		parsed.Description = desc
	}

	if strings.TrimSpace(in.ExpenseDate) == "" {
		verrs.Add("expenseDate", "Expense date is required")
	} else if date, err := core.ParseDate(in.ExpenseDate); err != nil {
		verrs.Add("expenseDate", "Expense date must be a valid date in YYYY-MM-DD format")
	} else if date.After(core.Today().Time) {
		verrs.Add("expenseDate", "Expense date cannot be in the future")
	} else {
		parsed.ExpenseDate = date
	}

	if strings.TrimSpace(in.CategoryID) == "" {
		verrs.Add("categoryId", "Category is required")
	} else if id, err := uuid.Parse(strings.TrimSpace(in.CategoryID)); err != nil || id == uuid.Nil {
		verrs.Add("categoryId", "Selected category does not exist")
	} else {
		exists, err := probe.CategoryExists(ctx, id)
		if err != nil {
			return ParsedExpense{}, nil, fmt.Errorf("check category existence: %w", err)
		}
		if !exists {
			verrs.Add("categoryId", "Selected category does not exist")
		} else {
			parsed.CategoryID = id
		}
	}

	return parsed, verrs, nil
}
