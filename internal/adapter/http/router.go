package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/iho/evenly/internal/adapter/http/handler"
	"github.com/iho/evenly/internal/adapter/http/middleware"
	"github.com/iho/evenly/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	GroupHandler      *handler.GroupHandler
	ExpenseHandler    *handler.ExpenseHandler
	SettlementHandler *handler.SettlementHandler
	BalanceHandler    *handler.BalanceHandler
	HealthHandler     *handler.HealthHandler
	IdempotencyStore  usecase.IdempotencyStore
	RateLimiter       *middleware.RateLimiter
	RequestLogger     *middleware.LoggingMiddleware
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.RequestLogger != nil {
		r.Use(cfg.RequestLogger.Wrap)
	}
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Groups and their ledgers
		r.Route("/groups", func(r chi.Router) {
			r.Post("/", cfg.GroupHandler.Create)
			r.Get("/", cfg.GroupHandler.List)
			r.Get("/{id}", cfg.GroupHandler.Get)
			r.Put("/{id}", cfg.GroupHandler.Update)
			r.Delete("/{id}", cfg.GroupHandler.Delete)

			r.Post("/{id}/expenses", cfg.ExpenseHandler.Create)
			r.Get("/{id}/expenses", cfg.ExpenseHandler.ListByGroup)
			r.Post("/{id}/settlements", cfg.SettlementHandler.Create)
			r.Get("/{id}/settlements", cfg.SettlementHandler.ListByGroup)

			r.Get("/{id}/balances", cfg.BalanceHandler.GroupBalances)
			r.Get("/{id}/balances/user", cfg.BalanceHandler.UserBalances)
			r.Get("/{id}/summary", cfg.BalanceHandler.GroupSummary)
		})

		// Expenses and settlements addressed by their own IDs
		r.Route("/expenses", func(r chi.Router) {
			r.Get("/{id}", cfg.ExpenseHandler.Get)
			r.Delete("/{id}", cfg.ExpenseHandler.Delete)
		})
		r.Route("/settlements", func(r chi.Router) {
			r.Get("/{id}", cfg.SettlementHandler.Get)
			r.Delete("/{id}", cfg.SettlementHandler.Delete)
		})

		// Cross-group views
		r.Get("/balances/owed", cfg.BalanceHandler.OwedAcrossGroups)
		r.Get("/reconciliation", cfg.BalanceHandler.Conservation)
	})

	return r
}
