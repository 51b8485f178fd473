// Package http exposes the JSON API consumed by the finance app frontend.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tally/internal/auth"
	"tally/internal/middleware/security"
	"tally/internal/middleware/trace"
	"tally/internal/services"
)

// Services bundles the per-collection service objects the handlers
// delegate to.
type Services struct {
	Transactions *services.TransactionService
	Goals        *services.GoalService
	Insights     *services.InsightService
	Chat         *services.ChatService
	Accounts     *services.AccountService
	BankSync     *services.BankSyncService
}

type Server struct {
	http.Server
	verifier *auth.Verifier
	svc      Services
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server. Everything under /api requires a bearer token; /healthz
// stays open for probes.
func NewServer(addr string, verifier *auth.Verifier, svc Services) *Server {
	s := &Server{
		verifier: verifier,
		svc:      svc,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)
	r.Use(trace.Middleware(security.ClientIP))
	r.Use(security.Headers)
	// The frontend is served from a different origin; preflights must
	// succeed with the Authorization header allowed.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/healthz", handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", s.handleListTransactions)
			r.Post("/", s.handleCreateTransaction)
			r.Get("/summary", s.handleTransactionSummary)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.handleListGoals)
			r.Post("/", s.handleCreateGoal)
			r.Patch("/{id}", s.handleUpdateGoal)
			r.Delete("/{id}", s.handleDeleteGoal)
		})

		r.Route("/insights", func(r chi.Router) {
			r.Get("/", s.handleListInsights)
			r.Post("/{id}/read", s.handleMarkInsightRead)
			r.Delete("/{id}", s.handleDeleteInsight)
		})

		r.Route("/chat", func(r chi.Router) {
			r.Post("/conversations", s.handleNewConversation)
			r.Get("/{conversationID}/messages", s.handleListMessages)
			r.Post("/{conversationID}/messages", s.handleSendMessage)
		})

		r.Route("/accounts", func(r chi.Router) {
			r.Get("/", s.handleListAccounts)
			r.Post("/", s.handleConnectAccount)
			r.Post("/{id}/disconnect", s.handleDisconnectAccount)
			r.Post("/{id}/sync", s.handleSyncAccount)
			r.Delete("/{id}", s.handleDeleteAccount)
		})
	})

	s.Server = http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
