/**
 * @description
 * This file sets up the HTTP router for the fixed-deposit service. It defines
 * the API endpoints, associates them with their corresponding handlers, and
 * applies middleware: JWT authentication on the customer-facing account
 * routes, and an internal API key (plus optional Redis rate limiting) on the
 * admin control surface.
 *
 * @dependencies
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps bundles what the router needs to assemble the endpoint tree.
type RouterDeps struct {
	Deposits       *DepositHandlers
	Admin          *AdminHandlers
	JWKSURL        string
	JWTAudience    string
	JWTIssuer      string
	InternalAPIKey string
	RateLimiter    *RedisRateLimiter
	AdminPerMinute int
	Logger         *slog.Logger
}

// Routes creates and returns the router for the fixed-deposit service.
func Routes(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Customer-facing account routes require a verified JWT.
	r.Group(func(r chi.Router) {
		r.Use(JWTAuthMiddleware(deps.JWKSURL, deps.JWTAudience, deps.JWTIssuer))

		r.Post("/accounts", deps.Deposits.OpenAccountHandler)
		r.Get("/accounts", deps.Deposits.ListAccountsHandler)
		r.Get("/accounts/{accountID}", deps.Deposits.GetAccountHandler)
		r.Post("/accounts/{accountID}/close", deps.Deposits.CloseAccountHandler)
	})

	// Admin control surface: internal key, rate limited.
	r.Route("/admin", func(r chi.Router) {
		r.Use(InternalAPIKeyMiddleware(deps.InternalAPIKey))
		r.Use(RateLimitMiddleware(deps.RateLimiter, "admin", deps.AdminPerMinute, deps.Logger))

		r.Get("/clock", deps.Admin.GetClockHandler)
		r.Post("/clock/set", deps.Admin.SetClockHandler)
		r.Post("/clock/set-date", deps.Admin.SetDateHandler)
		r.Post("/clock/advance", deps.Admin.AdvanceClockHandler)
		r.Post("/clock/reset", deps.Admin.ResetClockHandler)

		r.Get("/jobs", deps.Admin.ListJobsHandler)
		r.Post("/jobs/{job}/trigger", deps.Admin.TriggerJobHandler)
		r.Post("/jobs/{job}/reset", deps.Admin.ResetJobHandler)
	})

	return r
}
