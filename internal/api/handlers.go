// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/cinegraph/cinegraph/internal/auth"
	"github.com/cinegraph/cinegraph/internal/models"
	"github.com/cinegraph/cinegraph/internal/ratings"
	"github.com/cinegraph/cinegraph/internal/users"
	"github.com/cinegraph/cinegraph/internal/validation"
)

// Recommender is the ranking pipeline as the handlers see it.
type Recommender interface {
	Recommend(ctx context.Context, userID string, limit int) ([]models.Movie, error)
	Popular(ctx context.Context, limit int) []models.Movie
	SimilarTo(ctx context.Context, title string, limit int) ([]models.Movie, error)
	Search(ctx context.Context, searchText string, limit int) ([]models.ScoredMovie, error)
}

// RatingLedger mutates and reads user ratings.
type RatingLedger interface {
	Rate(ctx context.Context, userID, movieTitle string, rating int) (*ratings.Result, error)
	Unrate(ctx context.Context, userID, movieTitle string) (*ratings.Result, error)
	Rating(ctx context.Context, userID, movieTitle string) (*int, error)
}

// AccountService registers and authenticates users.
type AccountService interface {
	Register(ctx context.Context, name, email, password string) (*users.Session, error)
	Login(ctx context.Context, email, password string) (*users.Session, error)
}

// HealthChecker reports catalog connectivity.
type HealthChecker interface {
	Verify(ctx context.Context) error
}

// Handler holds the services behind the HTTP surface.
type Handler struct {
	recommender Recommender
	ledger      RatingLedger
	accounts    AccountService
	health      HealthChecker
}

// NewHandler creates a Handler.
func NewHandler(recommender Recommender, ledger RatingLedger, accounts AccountService, health HealthChecker) *Handler {
	return &Handler{
		recommender: recommender,
		ledger:      ledger,
		accounts:    accounts,
		health:      health,
	}
}

// HealthLive reports process liveness.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady reports readiness, including catalog connectivity.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if err := h.health.Verify(r.Context()); err != nil {
		rw.Error(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "graph catalog is unreachable")
		return
	}
	rw.Success(map[string]string{"status": "ready"})
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Register creates an account and returns a session token.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		rw.AppError(err)
		return
	}

	session, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		rw.AppError(err)
		return
	}
	rw.Created(session)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates a user and returns a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		rw.AppError(err)
		return
	}

	session, err := h.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		rw.AppError(err)
		return
	}
	rw.Success(session)
}

// Recommendations serves the tiered recommendation list for a user.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID := pathParam(r, "userID")

	movies, err := h.recommender.Recommend(r.Context(), userID, limitParam(r))
	if err != nil {
		rw.AppError(err)
		return
	}
	rw.Success(movies)
}

// Popular serves the global popularity list. It requires no account and is
// the same list cold-start users receive.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.recommender.Popular(r.Context(), limitParam(r)))
}

// SimilarMovies serves movies ranked by shared genres with the named one.
func (h *Handler) SimilarMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	title := pathParam(r, "title")

	movies, err := h.recommender.SimilarTo(r.Context(), title, limitParam(r))
	if err != nil {
		rw.AppError(err)
		return
	}
	rw.Success(movies)
}

// SearchMovies serves fuzzy fulltext search results.
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	results, err := h.recommender.Search(r.Context(), r.URL.Query().Get("q"), limitParam(r))
	if err != nil {
		rw.AppError(err)
		return
	}
	rw.Success(results)
}

type rateRequest struct {
	MovieTitle string `json:"movieTitle" validate:"required"`
	Rating     int    `json:"rating" validate:"gte=1,lte=5"`
}

// AddRating records or replaces the authenticated user's rating.
func (h *Handler) AddRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		rw.Error(http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := validation.ValidateStruct(&req); err != nil {
		rw.AppError(err)
		return
	}

	result, err := h.ledger.Rate(r.Context(), auth.UserIDFromContext(r.Context()), req.MovieTitle, req.Rating)
	if err != nil {
		rw.AppError(err)
		return
	}
	rw.Success(result)
}

// RemoveRating deletes the authenticated user's rating for a movie.
func (h *Handler) RemoveRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	result, err := h.ledger.Unrate(r.Context(), auth.UserIDFromContext(r.Context()), pathParam(r, "title"))
	if err != nil {
		rw.AppError(err)
		return
	}
	rw.Success(result)
}

// GetRating returns the authenticated user's rating for a movie, or a null
// rating when none exists.
func (h *Handler) GetRating(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	rating, err := h.ledger.Rating(r.Context(), auth.UserIDFromContext(r.Context()), pathParam(r, "title"))
	if err != nil {
		rw.AppError(err)
		return
	}
	rw.Success(map[string]*int{"rating": rating})
}

// pathParam returns the unescaped chi path parameter.
func pathParam(r *http.Request, name string) string {
	raw := chi.URLParam(r, name)
	if unescaped, err := url.PathUnescape(raw); err == nil {
		return unescaped
	}
	return raw
}

// limitParam parses the optional limit query parameter. Zero means "use
// the configured default"; the services enforce that.
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
