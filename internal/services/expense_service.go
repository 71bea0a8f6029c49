package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kpassoubady/expense-tracker/internal/core"
	"github.com/kpassoubady/expense-tracker/internal/events"
	"github.com/kpassoubady/expense-tracker/internal/storage"
	"github.com/kpassoubady/expense-tracker/internal/validation"
)

// EventPublisher publishes expense lifecycle events. Implemented by
// events.Client; nil disables publishing.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, event, id string) error
}

// ExpenseService manages expense operations and aggregation reads.
type ExpenseService struct {
	store     storage.Store
	publisher EventPublisher
}

func NewExpenseService(store storage.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, publisher: publisher}
}

// GetAll returns every expense ordered by expense date descending, ties
// broken by creation time descending, with category display fields
// denormalized from the same joined read.
func (s *ExpenseService) GetAll(ctx context.Context) ([]core.ExpenseView, error) {
	rows, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return mapExpenses(rows), nil
}

// GetByID returns one expense view, or (nil, nil) when the id is unknown.
func (s *ExpenseService) GetByID(ctx context.Context, id uuid.UUID) (*core.ExpenseView, error) {
	row, err := s.store.GetExpense(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get expense: %w", err)
	}
	if row == nil {
		slog.WarnContext(ctx, "Expense not found", "expense_id", id)
		return nil, nil
	}
	view := mapExpense(*row)
	return &view, nil
}

// GetByCategory returns the expenses of one category, ordered like GetAll.
func (s *ExpenseService) GetByCategory(ctx context.Context, categoryID uuid.UUID) ([]core.ExpenseView, error) {
	rows, err := s.store.ListExpensesByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list expenses by category: %w", err)
	}
	return mapExpenses(rows), nil
}

// GetGroupedByCategory partitions every expense into groups keyed by the
// referenced category's current name. Each group keeps the GetAll ordering.
func (s *ExpenseService) GetGroupedByCategory(ctx context.Context) (map[string][]core.ExpenseView, error) {
	rows, err := s.store.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	grouped := make(map[string][]core.ExpenseView)
	for _, row := range rows {
		view := mapExpense(row)
		grouped[view.CategoryName] = append(grouped[view.CategoryName], view)
	}
	return grouped, nil
}

// GetTotal returns the exact sum of all expense amounts, zero when no
// expenses exist.
func (s *ExpenseService) GetTotal(ctx context.Context) (core.Money, error) {
	cents, err := s.store.TotalExpenseCents(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("total expenses: %w", err)
	}
	return core.Money{Cents: cents}, nil
}

// Create validates the input, assigns a fresh identity and persists the
// expense. A CategoryID that references no existing category is rejected by
// the validation layer. Validation failures are returned as
// validation.Errors.
func (s *ExpenseService) Create(ctx context.Context, in core.ExpenseInput) (*core.ExpenseView, error) {
	parsed, verrs, err := validation.Expense(ctx, s.store, in)
	if err != nil {
		return nil, err
	}
	if verrs.Any() {
		return nil, verrs
	}

	expense := core.Expense{
		ID:          uuid.New(),
		Amount:      parsed.Amount,
		Description: parsed.Description,
		ExpenseDate: parsed.ExpenseDate,
		CategoryID:  parsed.CategoryID,
	}
	if err := s.store.InsertExpense(ctx, &expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Created expense",
		"expense_id", expense.ID,
		"category_id", expense.CategoryID,
		"amount", expense.Amount.String())

	s.publish(ctx, events.ExpenseCreated, expense.ID)
	return s.readViewOf(ctx, expense)
}

// Update validates the input and replaces every mutable field of the
// expense; CreatedAt is untouched. Returns (nil, nil) when the id is
// unknown.
func (s *ExpenseService) Update(ctx context.Context, id uuid.UUID, in core.ExpenseInput) (*core.ExpenseView, error) {
	parsed, verrs, err := validation.Expense(ctx, s.store, in)
	if err != nil {
		return nil, err
	}
	if verrs.Any() {
		return nil, verrs
	}

	expense := core.Expense{
		ID:          id,
		Amount:      parsed.Amount,
		Description: parsed.Description,
		ExpenseDate: parsed.ExpenseDate,
		CategoryID:  parsed.CategoryID,
	}
	found, err := s.store.UpdateExpense(ctx, &expense)
	if err != nil {
		return nil, fmt.Errorf("update expense: %w", err)
	}
	if !found {
		slog.WarnContext(ctx, "Expense not found for update", "expense_id", id)
		return nil, nil
	}

	slog.InfoContext(ctx, "Updated expense", "expense_id", id)
	s.publish(ctx, events.ExpenseUpdated, id)
	return s.GetByID(ctx, id)
}

// Delete removes the expense. Returns false when the id is unknown.
func (s *ExpenseService) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted, err := s.store.DeleteExpense(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	if !deleted {
		slog.WarnContext(ctx, "Expense not found for deletion", "expense_id", id)
		return false, nil
	}

	slog.InfoContext(ctx, "Deleted expense", "expense_id", id)
	s.publish(ctx, events.ExpenseDeleted, id)
	return true, nil
}

// ExistsByID reports whether an expense with the id exists.
func (s *ExpenseService) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.store.ExpenseExists(ctx, id)
}

// publish sends a lifecycle event when a publisher is configured. Publish
// failures are logged, never surfaced; the write already succeeded.
func (s *ExpenseService) publish(ctx context.Context, event string, id uuid.UUID) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishExpenseEvent(ctx, event, id.String()); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"event", event, "expense_id", id, "error", err)
	}
}

// readViewOf fetches the joined row the write produced so the view's
// denormalized category fields come from a single read.
func (s *ExpenseService) readViewOf(ctx context.Context, expense core.Expense) (*core.ExpenseView, error) {
	row, err := s.store.GetExpense(ctx, expense.ID)
	if err != nil {
		return nil, fmt.Errorf("read back expense: %w", err)
	}
	if row == nil {
		// Row vanished between write and read; fall back to the entity.
		view := mapExpense(storage.ExpenseRow{Expense: expense})
		return &view, nil
	}
	view := mapExpense(*row)
	return &view, nil
}

func mapExpense(row storage.ExpenseRow) core.ExpenseView {
	name := row.CategoryName
	if name == "" {
		name = core.UnknownCategoryName
	}
	color := row.CategoryColor
	if color == "" {
		color = core.DefaultColor
	}
	return core.ExpenseView{
		ID:            row.ID,
		Amount:        row.Amount,
		Description:   row.Description,
		ExpenseDate:   row.ExpenseDate,
		CategoryID:    row.CategoryID,
		CategoryName:  name,
		CategoryColor: color,
		CreatedAt:     row.CreatedAt,
	}
}

func mapExpenses(rows []storage.ExpenseRow) []core.ExpenseView {
	views := make([]core.ExpenseView, len(rows))
	for i, row := range rows {
		views[i] = mapExpense(row)
	}
	return views
}
