package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/kpassoubady/expense-tracker/internal/core"
)

// clientIP extracts the client address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if comma := strings.IndexByte(ip, ','); comma >= 0 {
			ip = ip[:comma]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// pathID parses the {id} path segment. Route constraints in the mux do
// not cover UUID shape, so an unparseable id reads as a missing resource.
func pathID(r *http.Request, segment string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(segment))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON decodes a request body, preserving numeric literals as text
// so amounts keep their exact decimal representation.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	return dec.Decode(dst)
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

func (req categoryRequest) toInput() core.CategoryInput {
	return core.CategoryInput{
		Name:        sanitizeInput(req.Name),
		Description: sanitizeInput(req.Description),
		Icon:        sanitizeInput(req.Icon),
		Color:       sanitizeInput(req.Color),
	}
}

type expenseRequest struct {
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	ExpenseDate string      `json:"expenseDate"`
	CategoryID  string      `json:"categoryId"`
}

func (req expenseRequest) toInput() core.ExpenseInput {
	return core.ExpenseInput{
		Amount:      req.Amount.String(),
		Description: sanitizeInput(req.Description),
		ExpenseDate: sanitizeInput(req.ExpenseDate),
		CategoryID:  sanitizeInput(req.CategoryID),
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(m core.Money) string { return "$" + m.String() },
	}
}
