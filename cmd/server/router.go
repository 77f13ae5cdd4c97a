package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"identify/internal/contact"
	"identify/internal/platform/health"
	"identify/internal/platform/metrics"
	"identify/internal/platform/middleware"
)

const requestTimeout = 30 * time.Second

// newRouter mounts the contact routes behind the shared middleware stack and
// exposes health and metrics alongside them.
func newRouter(logger *slog.Logger, contacts *contact.Handler, checker *health.Checker, httpMetrics *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(httpMetrics.Middleware)

	r.Get("/healthz", checker.Handler())
	r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))
		contacts.Register(r)
	})
	return r
}
