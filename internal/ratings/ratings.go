// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package ratings maintains the RATED edges between users and movies.
//
// Unlike the ranking pipeline, writes here never degrade: a catalog failure
// surfaces to the caller so the client knows the rating was not recorded.
package ratings

import (
	"context"
	"strings"

	"github.com/cinegraph/cinegraph/internal/apperr"
	"github.com/cinegraph/cinegraph/internal/catalog"
	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/models"
)

// Rating bounds. Values outside this range are rejected before any catalog
// round trip.
const (
	MinRating = 1
	MaxRating = 5
)

const (
	// Upsert in one write transaction so a re-rate can never produce a
	// second RATED edge. The timestamp refreshes on every write.
	rateQuery = `
MATCH (u:User {userId: $userId})
MATCH (m:Movie {title: $movieTitle})
MERGE (u)-[r:RATED]->(m)
ON CREATE SET r.rating = $rating, r.timestamp = datetime()
ON MATCH SET r.rating = $rating, r.timestamp = datetime()
RETURN m {.*, rating: r.rating} AS movie, u {.*} AS user`

	unrateQuery = `
MATCH (u:User {userId: $userId})-[r:RATED]->(m:Movie {title: $movieTitle})
DELETE r
RETURN m {.*} AS movie, u {.*} AS user`

	userRatingQuery = `
MATCH (u:User {userId: $userId})-[r:RATED]->(m:Movie {title: $movieTitle})
RETURN r.rating AS rating`
)

// Result is the outcome of a rating mutation.
type Result struct {
	Movie  models.Movie      `json:"movie"`
	User   models.PublicUser `json:"user"`
	Rating int               `json:"rating,omitempty"`
}

// Ledger reads and writes user ratings through the graph catalog.
type Ledger struct {
	runner catalog.Runner
}

// NewLedger creates a Ledger backed by the given catalog runner.
func NewLedger(runner catalog.Runner) *Ledger {
	return &Ledger{runner: runner}
}

// Rate records or replaces the user's rating for a movie. The matched
// pattern requires both endpoints to exist, so an empty result means the
// user or the movie is unknown.
func (l *Ledger) Rate(ctx context.Context, userID, movieTitle string, rating int) (*Result, error) {
	if err := validateKeys(userID, movieTitle); err != nil {
		return nil, err
	}
	if rating < MinRating || rating > MaxRating {
		return nil, apperr.Validationf("rating must be between %d and %d, got %d", MinRating, MaxRating, rating)
	}

	rows, err := l.runner.Write(ctx, rateQuery, map[string]any{
		"userId":     userID,
		"movieTitle": movieTitle,
		"rating":     rating,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFoundf("user %q or movie %q not found", userID, movieTitle)
	}

	movie := models.MovieFromProps(rows[0].Props("movie"))
	logging.Ctx(ctx).Info().Str("user_id", userID).Str("title", movieTitle).
		Int("rating", rating).Msg("rating recorded")
	return &Result{
		Movie:  movie,
		User:   models.UserFromProps(rows[0].Props("user")).Public(),
		Rating: rating,
	}, nil
}

// Unrate deletes the user's rating for a movie. Deleting a rating that does
// not exist is an error, not a no-op.
func (l *Ledger) Unrate(ctx context.Context, userID, movieTitle string) (*Result, error) {
	if err := validateKeys(userID, movieTitle); err != nil {
		return nil, err
	}

	rows, err := l.runner.Write(ctx, unrateQuery, map[string]any{
		"userId":     userID,
		"movieTitle": movieTitle,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.NotFoundf("no rating by user %q for movie %q", userID, movieTitle)
	}

	logging.Ctx(ctx).Info().Str("user_id", userID).Str("title", movieTitle).
		Msg("rating removed")
	return &Result{
		Movie: models.MovieFromProps(rows[0].Props("movie")),
		User:  models.UserFromProps(rows[0].Props("user")).Public(),
	}, nil
}

// Rating returns the user's rating for a movie, or nil when the user has
// not rated it. This is a read path: a catalog failure also reads as "no
// rating" rather than an error.
func (l *Ledger) Rating(ctx context.Context, userID, movieTitle string) (*int, error) {
	if err := validateKeys(userID, movieTitle); err != nil {
		return nil, err
	}

	rows, err := l.runner.Read(ctx, userRatingQuery, map[string]any{
		"userId":     userID,
		"movieTitle": movieTitle,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).
			Str("title", movieTitle).Msg("rating lookup unavailable")
		return nil, nil
	}
	if len(rows) == 0 {
		return nil, nil
	}
	n, ok := models.AsInt(rows[0]["rating"])
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func validateKeys(userID, movieTitle string) error {
	if strings.TrimSpace(userID) == "" {
		return apperr.Validationf("userId is required")
	}
	if strings.TrimSpace(movieTitle) == "" {
		return apperr.Validationf("movieTitle is required")
	}
	return nil
}
