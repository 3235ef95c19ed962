// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinegraph/cinegraph/internal/auth"
	"github.com/cinegraph/cinegraph/internal/config"
)

// NewRouter assembles the full route tree. Ranking and search endpoints are
// public; the rating ledger requires a bearer token.
func NewRouter(handler *Handler, authmw *auth.Middleware, cfg config.SecurityConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(AccessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if cfg.RateLimitReqs > 0 {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(PrometheusMetrics)

		r.Get("/health/live", handler.HealthLive)
		r.Get("/health/ready", handler.HealthReady)

		r.Post("/auth/register", handler.Register)
		r.Post("/auth/login", handler.Login)

		r.Get("/movies/popular", handler.Popular)
		r.Get("/movies/search", handler.SearchMovies)
		r.Get("/movies/{title}/similar", handler.SimilarMovies)

		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireUser)

			r.Get("/recommendations/user/{userID}", handler.Recommendations)
			r.Post("/ratings", handler.AddRating)
			r.Delete("/ratings/{title}", handler.RemoveRating)
			r.Get("/ratings/{title}", handler.GetRating)
		})
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
