// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cinegraph/cinegraph/internal/apperr"
	"github.com/cinegraph/cinegraph/internal/catalog"
	"github.com/cinegraph/cinegraph/internal/config"
)

// fakeRunner scripts read results by a distinctive fragment of the query
// text and records which queries ran.
type fakeRunner struct {
	results map[string][]catalog.Row
	errs    map[string]error
	ran     []string
}

func (f *fakeRunner) Read(_ context.Context, cypher string, _ map[string]any) ([]catalog.Row, error) {
	for frag, err := range f.errs {
		if strings.Contains(cypher, frag) {
			f.ran = append(f.ran, frag)
			return nil, err
		}
	}
	for frag, rows := range f.results {
		if strings.Contains(cypher, frag) {
			f.ran = append(f.ran, frag)
			return rows, nil
		}
	}
	f.ran = append(f.ran, cypher)
	return nil, nil
}

func (f *fakeRunner) Write(_ context.Context, _ string, _ map[string]any) ([]catalog.Row, error) {
	return nil, errors.New("unexpected write")
}

func (f *fakeRunner) Run(ctx context.Context, cypher string, params map[string]any) ([]catalog.Row, error) {
	return f.Read(ctx, cypher, params)
}

func (f *fakeRunner) didRun(frag string) bool {
	for _, r := range f.ran {
		if strings.Contains(r, frag) {
			return true
		}
	}
	return false
}

// Query fragments unique to each tier.
const (
	fragRatingCount   = "ratingCount"
	fragGenreAffinity = "matchingGenres"
	fragSharedGenre   = "commonGenres"
	fragPersonalPop   = "NOT exists((u)-[:RATED]->(m))"
	fragGlobalPop     = "MATCH (m:Movie)\nWHERE m.imdbRating"
	fragSearch        = "db.index.fulltext.queryNodes"
)

func movieRow(column, title string, rating float64) catalog.Row {
	return catalog.Row{column: map[string]any{"title": title, "imdbRating": rating}}
}

func countRow(n int64) []catalog.Row {
	return []catalog.Row{{"ratingCount": n}}
}

func testEngine(runner catalog.Runner) *Engine {
	return NewEngine(runner, config.Default().Recommend)
}

func TestRecommendColdStart(t *testing.T) {
	runner := &fakeRunner{results: map[string][]catalog.Row{
		fragRatingCount: countRow(0),
		fragGlobalPop: {
			movieRow("m", "The Shawshank Redemption", 9.3),
			movieRow("m", "The Godfather", 9.2),
		},
	}}

	movies, err := testEngine(runner).Recommend(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(movies))
	}
	if movies[0].Title != "The Shawshank Redemption" {
		t.Errorf("movies[0].Title = %q", movies[0].Title)
	}
	if runner.didRun(fragGenreAffinity) {
		t.Error("genre affinity tier ran for a user with no ratings")
	}
}

func TestRecommendGenreAffinityWins(t *testing.T) {
	runner := &fakeRunner{results: map[string][]catalog.Row{
		fragRatingCount:   countRow(7),
		fragGenreAffinity: {movieRow("rec", "Heat", 8.3)},
	}}

	movies, err := testEngine(runner).Recommend(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "Heat" {
		t.Fatalf("got %+v, want single Heat result", movies)
	}
	if runner.didRun(fragSharedGenre) {
		t.Error("shared genre tier ran after genre affinity produced results")
	}
}

// A movie sharing two genres with a liked movie must outrank one sharing a
// single genre, regardless of their catalog ratings. Ordering comes from the
// catalog query, so the engine must preserve row order exactly.
func TestRecommendSharedGenreOrderPreserved(t *testing.T) {
	runner := &fakeRunner{results: map[string][]catalog.Row{
		fragRatingCount:   countRow(3),
		fragGenreAffinity: {},
		fragSharedGenre: {
			movieRow("similar", "Two Shared Genres", 7.1),
			movieRow("similar", "One Shared Genre", 9.0),
		},
	}}

	movies, err := testEngine(runner).Recommend(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("got %d movies, want 2", len(movies))
	}
	if movies[0].Title != "Two Shared Genres" || movies[1].Title != "One Shared Genre" {
		t.Errorf("order = [%q, %q], want genre overlap before rating", movies[0].Title, movies[1].Title)
	}
}

func TestRecommendAllTiersEmpty(t *testing.T) {
	runner := &fakeRunner{results: map[string][]catalog.Row{
		fragRatingCount: countRow(1),
	}}

	movies, err := testEngine(runner).Recommend(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(movies) != 0 {
		t.Errorf("got %d movies, want 0", len(movies))
	}
	for _, frag := range []string{fragGenreAffinity, fragSharedGenre, fragPersonalPop} {
		if !runner.didRun(frag) {
			t.Errorf("tier %q never ran", frag)
		}
	}
}

func TestRecommendCatalogFailureFallsBackToPopular(t *testing.T) {
	runner := &fakeRunner{
		results: map[string][]catalog.Row{
			fragRatingCount: countRow(5),
			fragGlobalPop:   {movieRow("m", "Casablanca", 8.5)},
		},
		errs: map[string]error{
			fragGenreAffinity: apperr.Unavailable(errors.New("connection refused")),
		},
	}

	movies, err := testEngine(runner).Recommend(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v, want degraded success", err)
	}
	if len(movies) != 1 || movies[0].Title != "Casablanca" {
		t.Fatalf("got %+v, want popular fallback", movies)
	}
}

func TestRecommendTotalCatalogOutageYieldsEmptyList(t *testing.T) {
	down := apperr.Unavailable(errors.New("connection refused"))
	runner := &fakeRunner{errs: map[string]error{
		fragRatingCount: down,
		fragGlobalPop:   down,
	}}

	movies, err := testEngine(runner).Recommend(context.Background(), "user-1", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil on full outage", err)
	}
	if len(movies) != 0 {
		t.Errorf("got %d movies, want 0", len(movies))
	}
}

func TestRecommendBlankUserFallsBackToPopular(t *testing.T) {
	runner := &fakeRunner{results: map[string][]catalog.Row{
		fragGlobalPop: {movieRow("m", "Seven Samurai", 8.6)},
	}}

	movies, err := testEngine(runner).Recommend(context.Background(), "  ", 10)
	if err != nil {
		t.Fatalf("Recommend() error = %v, want nil", err)
	}
	if len(movies) != 1 || movies[0].Title != "Seven Samurai" {
		t.Fatalf("got %+v, want popular fallback", movies)
	}
	if runner.didRun(fragRatingCount) {
		t.Error("personalized path ran without a user id")
	}
}

func TestSimilarTo(t *testing.T) {
	t.Run("ranked by shared genres", func(t *testing.T) {
		runner := &fakeRunner{results: map[string][]catalog.Row{
			"other": {
				movieRow("other", "Aliens", 8.4),
				movieRow("other", "Predator", 7.8),
			},
		}}

		movies, err := testEngine(runner).SimilarTo(context.Background(), "Alien", 5)
		if err != nil {
			t.Fatalf("SimilarTo() error = %v", err)
		}
		if len(movies) != 2 || movies[0].Title != "Aliens" {
			t.Fatalf("got %+v", movies)
		}
	})

	t.Run("unknown title yields empty list", func(t *testing.T) {
		movies, err := testEngine(&fakeRunner{}).SimilarTo(context.Background(), "No Such Movie", 5)
		if err != nil {
			t.Fatalf("SimilarTo() error = %v", err)
		}
		if len(movies) != 0 {
			t.Errorf("got %d movies, want 0", len(movies))
		}
	})

	t.Run("blank title yields empty list without a query", func(t *testing.T) {
		runner := &fakeRunner{}
		movies, err := testEngine(runner).SimilarTo(context.Background(), "", 5)
		if err != nil {
			t.Fatalf("SimilarTo() error = %v, want nil", err)
		}
		if len(movies) != 0 {
			t.Errorf("got %d movies, want 0", len(movies))
		}
		if len(runner.ran) != 0 {
			t.Error("catalog queried for a blank title")
		}
	})

	t.Run("catalog failure degrades to empty list", func(t *testing.T) {
		runner := &fakeRunner{errs: map[string]error{
			"other": apperr.Unavailable(errors.New("timeout")),
		}}
		movies, err := testEngine(runner).SimilarTo(context.Background(), "Alien", 5)
		if err != nil {
			t.Fatalf("SimilarTo() error = %v, want degraded success", err)
		}
		if len(movies) != 0 {
			t.Errorf("got %d movies, want 0", len(movies))
		}
	})
}

func TestSearch(t *testing.T) {
	t.Run("scores carried through", func(t *testing.T) {
		runner := &fakeRunner{results: map[string][]catalog.Row{
			fragSearch: {
				{"node": map[string]any{"title": "The Matrix", "imdbRating": 8.7}, "score": 2.5},
				{"node": map[string]any{"title": "The Matrix Reloaded", "imdbRating": 7.2}, "score": 1.1},
			},
		}}

		results, err := testEngine(runner).Search(context.Background(), "matrix", 5)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("got %d results, want 2", len(results))
		}
		if results[0].Title != "The Matrix" || results[0].Score != 2.5 {
			t.Errorf("results[0] = %+v", results[0])
		}
	})

	t.Run("blank text never hits the catalog", func(t *testing.T) {
		runner := &fakeRunner{}
		results, err := testEngine(runner).Search(context.Background(), "   ", 5)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, want 0", len(results))
		}
		if len(runner.ran) != 0 {
			t.Error("catalog queried for blank search text")
		}
	})

	t.Run("catalog failure degrades to empty list", func(t *testing.T) {
		runner := &fakeRunner{errs: map[string]error{
			fragSearch: apperr.Unavailable(errors.New("no such procedure")),
		}}
		results, err := testEngine(runner).Search(context.Background(), "matrix", 5)
		if err != nil {
			t.Fatalf("Search() error = %v, want degraded success", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d results, want 0", len(results))
		}
	})
}

func TestPopular(t *testing.T) {
	runner := &fakeRunner{results: map[string][]catalog.Row{
		fragGlobalPop: {movieRow("m", "12 Angry Men", 9.0)},
	}}

	movies := testEngine(runner).Popular(context.Background(), 0)
	if len(movies) != 1 || movies[0].Title != "12 Angry Men" {
		t.Fatalf("got %+v", movies)
	}
}
