// Reelpick - Two-Phase Movie Recommendation Engine
// Copyright 2026 The Reelpick Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// NewRouter builds the chi router serving h under /api/v1 plus /metrics and
// the Swagger UI under /swagger.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	r := chi.NewRouter()

	// Order matters: RealIP feeds the per-IP limiters, and the metrics and
	// logging wrappers must see the final status.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(PrometheusMetrics)
	r.Use(RequestLogging)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		r.With(mw.RateLimitCustom(RateLimitHealth)).Get("/health", h.Health)
		r.With(mw.RateLimitCustom(RateLimitWebSocket)).Get("/search/{id}/stream", h.StreamSearch)

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())

			r.Get("/movies/{index}", h.Movie)

			r.With(mw.RateLimitCustom(RateLimitSearch)).Post("/search", h.StartSearch)
			r.Get("/search/{id}", h.SearchStatus)
			r.Get("/search/{id}/sample", h.SearchSample)
			r.Post("/search/{id}/rerank", h.Rerank)

			r.Get("/reports", h.ListReports)
			r.Get("/reports/{id}", h.GetReport)
			r.Get("/tuning", h.ListTuning)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
