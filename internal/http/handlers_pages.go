package http

import (
	"bytes"
	"net/http"

	"github.com/kpassoubady/expense-tracker/internal/core"
	"github.com/kpassoubady/expense-tracker/internal/validation"
)

// render buffers template output so a mid-render failure still produces a
// clean 500 instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		writeInternalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

type dashboardData struct {
	Title         string
	Total         core.Money
	ExpenseCount  int
	CategoryCount int
	Recent        []core.ExpenseView
	Grouped       map[string][]core.ExpenseView
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	total, err := s.expenses.GetTotal(ctx)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	expenses, err := s.expenses.GetAll(ctx)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	categories, err := s.categories.GetAll(ctx)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	grouped, err := s.expenses.GetGroupedByCategory(ctx)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	recent := expenses
	if len(recent) > 5 {
		recent = recent[:5]
	}

	s.render(w, r, "dashboard.html", dashboardData{
		Title:         "Dashboard",
		Total:         total,
		ExpenseCount:  len(expenses),
		CategoryCount: len(categories),
		Recent:        recent,
		Grouped:       grouped,
	})
}

type categoriesPageData struct {
	Title      string
	Categories []core.CategoryView
}

func (s *Server) handleCategoriesPage(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.GetAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	s.render(w, r, "categories.html", categoriesPageData{
		Title:      "Categories",
		Categories: categories,
	})
}

type categoryFormData struct {
	Title  string
	Action string
	Values core.CategoryInput
	Errors validation.Errors
}

func (s *Server) handleCategoryNewPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "category_form.html", categoryFormData{
		Title:  "New Category",
		Action: "/categories",
		Values: core.CategoryInput{Color: core.DefaultColor},
	})
}

func categoryFormInput(r *http.Request) core.CategoryInput {
	return core.CategoryInput{
		Name:        sanitizeInput(r.FormValue("name")),
		Description: sanitizeInput(r.FormValue("description")),
		Icon:        sanitizeInput(r.FormValue("icon")),
		Color:       sanitizeInput(r.FormValue("color")),
	}
}

func (s *Server) handleCategoryCreateForm(w http.ResponseWriter, r *http.Request) {
	in := categoryFormInput(r)

	_, err := s.categories.Create(r.Context(), in)
	if verrs, ok := validation.AsErrors(err); ok {
		s.render(w, r, "category_form.html", categoryFormData{
			Title:  "New Category",
			Action: "/categories",
			Values: in,
			Errors: verrs,
		})
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

func (s *Server) handleCategoryEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	view, err := s.categories.GetByID(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if view == nil {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "category_form.html", categoryFormData{
		Title:  "Edit Category",
		Action: "/categories/" + id.String(),
		Values: core.CategoryInput{
			Name:        view.Name,
			Description: view.Description,
			Icon:        view.Icon,
			Color:       view.Color,
		},
	})
}

func (s *Server) handleCategoryUpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	in := categoryFormInput(r)

	view, err := s.categories.Update(r.Context(), id, in)
	if verrs, ok := validation.AsErrors(err); ok {
		s.render(w, r, "category_form.html", categoryFormData{
			Title:  "Edit Category",
			Action: "/categories/" + id.String(),
			Values: in,
			Errors: verrs,
		})
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if view == nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

func (s *Server) handleCategoryDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := s.categories.Delete(r.Context(), id); err != nil {
		writeInternalError(w, r, err)
		return
	}
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

type expensesPageData struct {
	Title    string
	Expenses []core.ExpenseView
	Total    core.Money
}

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.GetAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	total, err := s.expenses.GetTotal(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	s.render(w, r, "expenses.html", expensesPageData{
		Title:    "Expenses",
		Expenses: expenses,
		Total:    total,
	})
}

type expenseFormData struct {
	Title      string
	Action     string
	Values     core.ExpenseInput
	Errors     validation.Errors
	Categories []core.CategoryView
}

func (s *Server) expenseForm(w http.ResponseWriter, r *http.Request, data expenseFormData) {
	categories, err := s.categories.GetAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	data.Categories = categories
	s.render(w, r, "expense_form.html", data)
}

func (s *Server) handleExpenseNewPage(w http.ResponseWriter, r *http.Request) {
	s.expenseForm(w, r, expenseFormData{
		Title:  "New Expense",
		Action: "/expenses",
		Values: core.ExpenseInput{ExpenseDate: core.Today().String()},
	})
}

func expenseFormInput(r *http.Request) core.ExpenseInput {
	return core.ExpenseInput{
		Amount:      sanitizeInput(r.FormValue("amount")),
		Description: sanitizeInput(r.FormValue("description")),
		ExpenseDate: sanitizeInput(r.FormValue("expenseDate")),
		CategoryID:  sanitizeInput(r.FormValue("categoryId")),
	}
}

func (s *Server) handleExpenseCreateForm(w http.ResponseWriter, r *http.Request) {
	in := expenseFormInput(r)

	_, err := s.expenses.Create(r.Context(), in)
	if verrs, ok := validation.AsErrors(err); ok {
		s.expenseForm(w, r, expenseFormData{
			Title:  "New Expense",
			Action: "/expenses",
			Values: in,
			Errors: verrs,
		})
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleExpenseEditPage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	view, err := s.expenses.GetByID(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if view == nil {
		http.NotFound(w, r)
		return
	}
	s.expenseForm(w, r, expenseFormData{
		Title:  "Edit Expense",
		Action: "/expenses/" + id.String(),
		Values: core.ExpenseInput{
			Amount:      view.Amount.String(),
			Description: view.Description,
			ExpenseDate: view.ExpenseDate.String(),
			CategoryID:  view.CategoryID.String(),
		},
	})
}

func (s *Server) handleExpenseUpdateForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	in := expenseFormInput(r)

	view, err := s.expenses.Update(r.Context(), id, in)
	if verrs, ok := validation.AsErrors(err); ok {
		s.expenseForm(w, r, expenseFormData{
			Title:  "Edit Expense",
			Action: "/expenses/" + id.String(),
			Values: in,
			Errors: verrs,
		})
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if view == nil {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}

func (s *Server) handleExpenseDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}
	if _, err := s.expenses.Delete(r.Context(), id); err != nil {
		writeInternalError(w, r, err)
		return
	}
	http.Redirect(w, r, "/expenses", http.StatusSeeOther)
}
