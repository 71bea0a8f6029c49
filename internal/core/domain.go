// Package core defines the expense-tracking domain model: categories,
// expenses, money amounts and calendar dates, plus the view shapes the
// service layer hands to presentation code.
package core

import (
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultColor is assigned to a category created without a color.
	DefaultColor = "#6c757d"

	// UnknownCategoryName is shown on an expense whose category cannot
	// be resolved.
	UnknownCategoryName = "Unknown"

	// Length limits count characters, not bytes.
	MaxNameLength        = 100
	MaxDescriptionLength = 255
	MaxIconLength        = 50
)

type (
	// Category groups expenses. Name is unique case-insensitively across
	// all categories.
	Category struct {
		ID          uuid.UUID
		Name        string
		Description string
		Icon        string
		Color       string
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	// Expense is a single recorded expenditure against a category.
	Expense struct {
		ID          uuid.UUID
		Amount      Money
		Description string
		ExpenseDate Date
		CategoryID  uuid.UUID
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
)

// CategoryView is the transfer shape for a category, enriched with a live
// count of associated expenses.
type CategoryView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Icon         string    `json:"icon,omitempty"`
	Color        string    `json:"color"`
	ExpenseCount int       `json:"expenseCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ExpenseView is the transfer shape for an expense, denormalizing the
// referenced category's name and color for display.
type ExpenseView struct {
	ID            uuid.UUID `json:"id"`
	Amount        Money     `json:"amount"`
	Description   string    `json:"description"`
	ExpenseDate   Date      `json:"expenseDate"`
	CategoryID    uuid.UUID `json:"categoryId"`
	CategoryName  string    `json:"categoryName"`
	CategoryColor string    `json:"categoryColor"`
	CreatedAt     time.Time `json:"createdAt"`
}
