package http

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"grana/internal/assistant"
	"grana/internal/auth"
	"grana/internal/middleware/ratelimit"
	"grana/internal/services"
	"grana/internal/storage"
)

// Server is the JSON API over the ledger. Everything except registration,
// login and the health probes requires a bearer token.
type Server struct {
	http.Server

	storage   *storage.Repository
	authSvc   *services.AuthService
	ledger    *services.LedgerService
	reports   *services.Reports
	assistant *assistant.Client
	tokens    *auth.Tokens
	limiter   *ratelimit.Limiter
}

// Deps carries everything the server needs. Assistant may be nil; the chat
// endpoint then answers 503.
type Deps struct {
	Storage   *storage.Repository
	Auth      *services.AuthService
	Ledger    *services.LedgerService
	Reports   *services.Reports
	Assistant *assistant.Client
	Tokens    *auth.Tokens
}

func NewServer(addr string, deps Deps) *Server {
	s := &Server{
		storage:   deps.Storage,
		authSvc:   deps.Auth,
		ledger:    deps.Ledger,
		reports:   deps.Reports,
		assistant: deps.Assistant,
		tokens:    deps.Tokens,
		limiter:   ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	// Credential endpoints are throttled per address so a single client
	// cannot brute-force passwords.
	r.Group(func(r chi.Router) {
		r.Use(s.limiter.Middleware(clientAddr, tooManyRequests))

		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.tokens.Middleware)

		r.Get("/profile", s.handleProfile)
		r.Put("/profile", s.handleUpdateProfile)

		r.Get("/accounts", s.handleListAccounts)
		r.Post("/accounts", s.handleCreateAccount)
		r.Put("/accounts/{id}", s.handleRenameAccount)
		r.Delete("/accounts/{id}", s.handleDeleteAccount)
		r.Post("/accounts/{id}/funds", s.handleAddFunds)

		r.Get("/categories", s.handleListCategories)
		r.Post("/categories", s.handleCreateCategory)
		r.Delete("/categories/{id}", s.handleDeleteCategory)

		r.Get("/cards", s.handleListCards)
		r.Post("/cards", s.handleCreateCard)
		r.Put("/cards/{id}", s.handleUpdateCard)
		r.Delete("/cards/{id}", s.handleDeleteCard)
		r.Get("/cards/{id}/invoice", s.handleCardInvoice)
		r.Get("/invoices", s.handleInvoices)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Put("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)

		r.Get("/dashboard", s.handleDashboard)
		r.Get("/reports", s.handleMonthlyReport)

		r.Post("/chat", s.handleChat)
	})

	return r
}

// Shutdown stops the limiter's cleanup goroutine before draining the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}

// clientAddr identifies a client for rate limiting. RealIP has already
// rewritten RemoteAddr from the forwarding headers; without a proxy the
// ephemeral port is stripped so reconnecting does not reset the window.
func clientAddr(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "60")
	respondJSON(w, http.StatusTooManyRequests, map[string]string{
		"error": "too many requests, try again in a minute",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.storage.Ping(ctx); err != nil {
		http.Error(w, "database not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
