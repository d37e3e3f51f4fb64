// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// category directory: the directory pages under the base path and the JSON
// API consumed by the question list and the hover cards.
package router

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"qacategory/internal/handlers"
	"qacategory/internal/middleware"
)

// Handlers bundles the handler groups mounted by the router.
type Handlers struct {
	Directory *handlers.Directory
	Questions *handlers.Questions
	Card      *handlers.Card
	Filters   *handlers.Filters
	Meta      *handlers.Meta
	Media     *handlers.Media
	// Invalidations is optional; nil leaves the route unmounted.
	Invalidations *handlers.Invalidations
}

// HealthCheck reports whether a backing service is usable.
type HealthCheck func(ctx context.Context) error

// Options configures the router.
type Options struct {
	// BasePath is the directory base page, with leading and trailing slash.
	BasePath string
	// HSTS enables Strict-Transport-Security.
	HSTS bool
	// CardLimiter rate-limits hover card requests per client. Nil disables
	// limiting.
	CardLimiter *middleware.RateLimiter
	// Checks are run by /health, keyed by service name.
	Checks map[string]HealthCheck
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders(opts.HSTS))

	r.Get("/health", healthHandler(opts.Checks))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", h.Questions.List)
		r.Get("/filters/category", h.Filters.Category)

		r.Route("/categories/{id}", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				if opts.CardLimiter != nil {
					r.Use(opts.CardLimiter.Middleware)
				}
				r.Get("/card", h.Card.Get)
			})
			r.Get("/meta", h.Meta.Get)
			r.Put("/meta", h.Meta.Put)
		})

		r.Post("/media", h.Media.Register)
		if h.Invalidations != nil {
			r.Get("/cache/invalidations", h.Invalidations.List)
		}
	})

	// Directory pages. The base page itself serves the query-string form.
	base := opts.BasePath
	if base == "" {
		base = "/"
	}
	r.Get(base+"*", h.Directory.Serve)
	if trimmed := strings.TrimSuffix(base, "/"); trimmed != "" {
		r.Get(trimmed, h.Directory.Serve)
	}

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler runs every check and answers 200 with {"status":"ok"}, or
// 503 with status "degraded" when any check fails.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		code := http.StatusOK
		resp := healthResponse{Status: "ok"}
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				slog.Warn("health check failed", "check", name, "error", err)
				resp.Checks[name] = "unavailable"
				resp.Status = "degraded"
				code = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(resp)
	}
}
