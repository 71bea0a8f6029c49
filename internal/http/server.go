// Package http wires the REST API and the server-rendered pages. All
// handlers call the service layer only; status mapping and the problem
// body shape live here and nowhere else.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/kpassoubady/expense-tracker/internal/log"
	"github.com/kpassoubady/expense-tracker/internal/middleware/ratelimit"
	"github.com/kpassoubady/expense-tracker/internal/middleware/security"
	"github.com/kpassoubady/expense-tracker/internal/middleware/trace"
	"github.com/kpassoubady/expense-tracker/internal/services"
	appweb "github.com/kpassoubady/expense-tracker/web"
)

type Server struct {
	http.Server
	templates  *template.Template
	categories *services.CategoryService
	expenses   *services.ExpenseService
	limiter    *ratelimit.Limiter
	logger     *log.Logger

	shutdownOnce sync.Once
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run http.Server. Construction fails when the embedded
// templates do not parse; every page render depends on them.
func NewServer(addr string, categories *services.CategoryService, expenses *services.ExpenseService, logger *log.Logger) (*Server, error) {
	mux := http.NewServeMux()

	s := &Server{
		categories: categories,
		expenses:   expenses,
		limiter:    ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		logger:     logger,
	}

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.limiter.Stop()
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /health", s.handleHealth)

	// Category API
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	// Expense API. Literal segments take precedence over {id}, so the
	// aggregate routes never shadow single-expense lookups.
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("GET /api/expenses/total", s.handleExpenseTotal)
	mux.HandleFunc("GET /api/expenses/by-category", s.handleExpensesByCategory)
	mux.HandleFunc("GET /api/expenses/category/{categoryId}", s.handleExpensesForCategory)
	mux.HandleFunc("GET /api/expenses/{id}", s.handleGetExpense)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	// Server-rendered pages
	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /categories", s.handleCategoriesPage)
	mux.HandleFunc("GET /categories/new", s.handleCategoryNewPage)
	mux.HandleFunc("POST /categories", s.handleCategoryCreateForm)
	mux.HandleFunc("GET /categories/{id}/edit", s.handleCategoryEditPage)
	mux.HandleFunc("POST /categories/{id}", s.handleCategoryUpdateForm)
	mux.HandleFunc("POST /categories/{id}/delete", s.handleCategoryDeleteForm)
	mux.HandleFunc("GET /expenses", s.handleExpensesPage)
	mux.HandleFunc("GET /expenses/new", s.handleExpenseNewPage)
	mux.HandleFunc("POST /expenses", s.handleExpenseCreateForm)
	mux.HandleFunc("GET /expenses/{id}/edit", s.handleExpenseEditPage)
	mux.HandleFunc("POST /expenses/{id}", s.handleExpenseUpdateForm)
	mux.HandleFunc("POST /expenses/{id}/delete", s.handleExpenseDeleteForm)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(clientIP)

	handler := s.withWriteRateLimit(mux)
	handler = log.Middleware(logger)(handler)
	handler = tracer.Middleware(handler)
	handler = headers.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// withWriteRateLimit consults the limiter for mutating requests only;
// reads are never throttled.
func (s *Server) withWriteRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodDelete:
			if !s.limiter.Allow(clientIP(r)) {
				slog.WarnContext(r.Context(), "Rate limit exceeded",
					"client_ip", clientIP(r), "method", r.Method, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the fully wired middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.Server.Handler
}

// Shutdown stops the HTTP server and the rate limiter cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type healthResponse struct {
	Status       string    `json:"status"`
	TimestampUTC time.Time `json:"timestampUtc"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "Healthy",
		TimestampUTC: time.Now().UTC(),
	})
}
