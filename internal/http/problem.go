package http

import (
	"log/slog"
	"net/http"

	"github.com/kpassoubady/expense-tracker/internal/validation"
)

// Problem is the error body returned by the API, in the problem-details
// style. Errors is present only for field validation failures.
type Problem struct {
	Status   int                 `json:"status"`
	Title    string              `json:"title"`
	Detail   string              `json:"detail"`
	Instance string              `json:"instance"`
	Type     string              `json:"type"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

func problemType(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://tools.ietf.org/html/rfc7231#section-6.5.1"
	case http.StatusNotFound:
		return "https://tools.ietf.org/html/rfc7231#section-6.5.4"
	default:
		return "https://tools.ietf.org/html/rfc7231#section-6.6.1"
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	writeJSON(w, status, Problem{
		Status:   status,
		Title:    title,
		Detail:   detail,
		Instance: r.URL.Path,
		Type:     problemType(status),
	})
}

// writeValidationProblem maps collected field violations to a 400. These
// are expected traffic and are not logged as failures.
func writeValidationProblem(w http.ResponseWriter, r *http.Request, errs validation.Errors) {
	writeJSON(w, http.StatusBadRequest, Problem{
		Status:   http.StatusBadRequest,
		Title:    "One or more validation errors occurred.",
		Detail:   "See the errors property for details.",
		Instance: r.URL.Path,
		Type:     problemType(http.StatusBadRequest),
		Errors:   errs,
	})
}

func writeNotFound(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, http.StatusNotFound, "Not Found", detail)
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	writeProblem(w, r, http.StatusBadRequest, "Bad Request", detail)
}

// writeInternalError logs the underlying cause with request context and
// returns a generic 500 body.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "Request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err)
	writeProblem(w, r, http.StatusInternalServerError, "Internal Server Error", err.Error())
}
