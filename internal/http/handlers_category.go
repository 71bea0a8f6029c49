package http

import (
	"net/http"

	"github.com/kpassoubady/expense-tracker/internal/core"
	"github.com/kpassoubady/expense-tracker/internal/validation"
)

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	views, err := s.categories.GetAll(r.Context())
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if views == nil {
		views = []core.CategoryView{}
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeNotFound(w, r, "Category not found")
		return
	}

	view, err := s.categories.GetByID(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if view == nil {
		writeNotFound(w, r, "Category not found")
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "Request body is not valid JSON")
		return
	}

	view, err := s.categories.Create(r.Context(), req.toInput())
	if verrs, ok := validation.AsErrors(err); ok {
		writeValidationProblem(w, r, verrs)
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/categories/"+view.ID.String())
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeNotFound(w, r, "Category not found")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, r, "Request body is not valid JSON")
		return
	}

	view, err := s.categories.Update(r.Context(), id, req.toInput())
	if verrs, ok := validation.AsErrors(err); ok {
		writeValidationProblem(w, r, verrs)
		return
	}
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if view == nil {
		writeNotFound(w, r, "Category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeNotFound(w, r, "Category not found")
		return
	}

	found, err := s.categories.Delete(r.Context(), id)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	if !found {
		writeNotFound(w, r, "Category not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
