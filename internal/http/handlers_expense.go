package http

import (
	"net/http"

	"github.com/kpassoubady/expense-tracker/internal/core"
	"github.com/kpassoubady/expense-tracker/internal/validation"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	views, err := s.expenses.GetAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if views == nil {
		views = []core.ExpenseView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeNotFound(w, r, "Expense not found")
		return
	}

	view, err := s.expenses.GetByID(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if view == nil {
		writeNotFound(w, r, "Expense not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleExpensesForCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := pathID(r, "categoryId")
	if !ok {
		writeNotFound(w, r, "Category not found")
		return
	}

	views, err := s.expenses.GetByCategory(r.Context(), categoryID)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if views == nil {
		views = []core.ExpenseView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleExpensesByCategory(w http.ResponseWriter, r *http.Request) {
	grouped, err := s.expenses.GetGroupedByCategory(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if grouped == nil {
		grouped = map[string][]core.ExpenseView{}
	}
	writeJSON(w, http.StatusOK, grouped)
}

type totalResponse struct {
	Total core.Money `json:"total"`
}

func (s *Server) handleExpenseTotal(w http.ResponseWriter, r *http.Request) {
	total, err := s.expenses.GetTotal(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, totalResponse{Total: total})
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "Request body is not valid JSON")
		return
	}

	view, err := s.expenses.Create(r.Context(), req.toInput())
	if verrs, ok := validation.AsErrors(err); ok {
		writeValidationProblem(w, r, verrs)
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/expenses/"+view.ID.String())
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeNotFound(w, r, "Expense not found")
		return
	}

	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "Request body is not valid JSON")
		return
	}

	view, err := s.expenses.Update(r.Context(), id, req.toInput())
	if verrs, ok := validation.AsErrors(err); ok {
		writeValidationProblem(w, r, verrs)
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if view == nil {
		writeNotFound(w, r, "Expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeNotFound(w, r, "Expense not found")
		return
	}

	found, err := s.expenses.Delete(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w, r, "Expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
