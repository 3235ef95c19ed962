// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package recommend implements the tiered ranking pipeline.
//
// Recommendations cascade through three tiers: genre affinity, shared
// genres, then personal popularity. The first tier that produces at least
// one movie wins; lower tiers do not run. Users with no rating history skip
// the cascade entirely and receive the global popularity list.
//
// Every read path in this package degrades instead of failing: a catalog
// error steps down to the next fallback, and at the bottom the caller gets
// an empty list, never an error.
package recommend

import (
	"context"
	"strings"

	"github.com/cinegraph/cinegraph/internal/catalog"
	"github.com/cinegraph/cinegraph/internal/config"
	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/metrics"
	"github.com/cinegraph/cinegraph/internal/models"
)

// tier is one stage of the recommendation cascade. A tier returns its
// candidates in final order; an empty slice means "nothing for this user,
// try the next tier".
type tier struct {
	name  string
	query string
}

// Engine runs the ranking pipeline against the graph catalog. It is
// stateless apart from configuration and safe for concurrent use.
type Engine struct {
	runner catalog.Runner
	cfg    config.RecommendConfig
	tiers  []tier
}

// NewEngine creates an Engine backed by the given catalog runner.
func NewEngine(runner catalog.Runner, cfg config.RecommendConfig) *Engine {
	return &Engine{
		runner: runner,
		cfg:    cfg,
		tiers: []tier{
			{name: metrics.TierGenreAffinity, query: genreAffinityQuery},
			{name: metrics.TierSharedGenre, query: sharedGenreQuery},
			{name: metrics.TierPopularity, query: personalPopularityQuery},
		},
	}
}

// Recommend produces up to limit movies for the user, walking the tier
// cascade. A non-positive limit falls back to the configured default.
//
// Recommend never returns an error: a missing user id or any catalog
// failure degrades to the global popularity list.
func (e *Engine) Recommend(ctx context.Context, userID string, limit int) ([]models.Movie, error) {
	if strings.TrimSpace(userID) == "" {
		logging.Ctx(ctx).Warn().Msg("recommendation requested without a user id, serving popular movies")
		return e.Popular(ctx, limit), nil
	}
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	log := logging.Ctx(ctx)

	count, err := e.ratingCount(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).
			Msg("rating count unavailable, serving popular movies")
		metrics.RecommendationFallbacks.Inc()
		return e.Popular(ctx, limit), nil
	}
	if count == 0 {
		metrics.RecommendationsServed.WithLabelValues(metrics.TierColdStart).Inc()
		return e.Popular(ctx, limit), nil
	}

	params := map[string]any{
		"userId":    userID,
		"limit":     limit,
		"minRating": e.cfg.MinAffinityRating,
		"topGenres": e.cfg.TopGenres,
	}
	for _, t := range e.tiers {
		rows, err := e.runner.Read(ctx, t.query, params)
		if err != nil {
			log.Warn().Err(err).Str("tier", t.name).Str("user_id", userID).
				Msg("tier query failed, serving popular movies")
			metrics.RecommendationFallbacks.Inc()
			return e.Popular(ctx, limit), nil
		}
		if len(rows) > 0 {
			metrics.RecommendationsServed.WithLabelValues(t.name).Inc()
			log.Debug().Str("tier", t.name).Int("count", len(rows)).
				Str("user_id", userID).Msg("recommendations served")
			return moviesFromRows(rows), nil
		}
	}

	// Every movie in the catalog is already rated by this user.
	metrics.RecommendationsServed.WithLabelValues(metrics.TierPopularity).Inc()
	return []models.Movie{}, nil
}

// Popular returns the catalog's top movies by rating, ignoring any user
// context. It never fails; a catalog error yields an empty list.
func (e *Engine) Popular(ctx context.Context, limit int) []models.Movie {
	if limit <= 0 {
		limit = e.cfg.DefaultLimit
	}
	rows, err := e.runner.Read(ctx, popularQuery, map[string]any{"limit": limit})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("popular movies unavailable")
		return []models.Movie{}
	}
	return moviesFromRows(rows)
}

// SimilarTo ranks movies by how many genres they share with the named
// movie. A blank or unknown title yields an empty list, as does a catalog
// failure; similarity never errors outward.
func (e *Engine) SimilarTo(ctx context.Context, title string, limit int) ([]models.Movie, error) {
	if strings.TrimSpace(title) == "" {
		logging.Ctx(ctx).Warn().Msg("similarity requested without a title")
		return []models.Movie{}, nil
	}
	if limit <= 0 {
		limit = e.cfg.SimilarLimit
	}
	rows, err := e.runner.Read(ctx, similarMoviesQuery, map[string]any{
		"title": title,
		"limit": limit,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("title", title).
			Msg("similar movies unavailable")
		metrics.RecommendationFallbacks.Inc()
		return []models.Movie{}, nil
	}
	return moviesFromRows(rows), nil
}

// Search runs a fuzzy fulltext query over movie titles, plots and taglines.
// Blank search text matches nothing. Results carry the index relevance
// score; a catalog failure degrades to an empty list.
func (e *Engine) Search(ctx context.Context, searchText string, limit int) ([]models.ScoredMovie, error) {
	if strings.TrimSpace(searchText) == "" {
		metrics.SearchQueries.WithLabelValues("empty").Inc()
		return []models.ScoredMovie{}, nil
	}
	if limit <= 0 {
		limit = e.cfg.SearchLimit
	}

	// Index check first; when it is missing the query still runs and fails
	// into the empty-list path, so this only buys a clearer log line.
	if exists, err := catalog.HasFulltextIndex(ctx, e.runner); err == nil && !exists {
		logging.Ctx(ctx).Warn().Str("index", catalog.FulltextIndexName).
			Msg("fulltext index missing, search will likely return nothing")
	}

	rows, err := e.runner.Read(ctx, searchQuery, map[string]any{
		"index":      catalog.FulltextIndexName,
		"searchText": searchText,
		"limit":      limit,
	})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("fulltext search unavailable")
		metrics.SearchQueries.WithLabelValues("degraded").Inc()
		return []models.ScoredMovie{}, nil
	}

	results := make([]models.ScoredMovie, 0, len(rows))
	for _, row := range rows {
		score, _ := models.AsFloat(row["score"])
		results = append(results, models.ScoredMovie{
			Movie: models.MovieFromProps(row.Props("node")),
			Score: score,
		})
	}
	metrics.SearchQueries.WithLabelValues("ok").Inc()
	return results, nil
}

// ratingCount returns how many RATED edges the user has.
func (e *Engine) ratingCount(ctx context.Context, userID string) (int, error) {
	rows, err := e.runner.Read(ctx, ratingCountQuery, map[string]any{"userId": userID})
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	n, _ := models.AsInt(rows[0]["ratingCount"])
	return n, nil
}

// moviesFromRows converts single-column movie rows, whatever the column is
// named, into models. Rows without a node column are dropped.
func moviesFromRows(rows []catalog.Row) []models.Movie {
	movies := make([]models.Movie, 0, len(rows))
	for _, row := range rows {
		for _, v := range row {
			props, ok := v.(map[string]any)
			if !ok {
				continue
			}
			movies = append(movies, models.MovieFromProps(props))
			break
		}
	}
	return movies
}
