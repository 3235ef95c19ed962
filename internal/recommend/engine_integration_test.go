// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

//go:build integration

package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/cinegraph/cinegraph/internal/catalog"
	"github.com/cinegraph/cinegraph/internal/config"
	"github.com/cinegraph/cinegraph/internal/models"
	"github.com/cinegraph/cinegraph/internal/testinfra"
)

// The scripted-runner tests cover orchestration; these run the actual Cypher
// against a real catalog, because the ranking rules live in the query text.
//
// Usage:
//   go test -tags integration -run Catalog ./internal/recommend/...

// seedGraph builds one user with a 5-star Action rating and a 2-star Drama
// rating, plus unseen candidates across genres. "Unrated Reel" has no
// imdbRating and must never surface.
const seedGraph = `
CREATE (u:User {userId: 'u-1', name: 'Uma', email: 'uma@example.com'})
CREATE (action:Genre {name: 'Action'})
CREATE (drama:Genre {name: 'Drama'})
CREATE (comedy:Genre {name: 'Comedy'})
CREATE (a:Movie {title: 'Edge of the Grid', imdbRating: 7.4})-[:IN_GENRE]->(action)
CREATE (b:Movie {title: 'Quiet Hours', imdbRating: 7.9})-[:IN_GENRE]->(drama)
CREATE (c:Movie {title: 'Steel Horizon', imdbRating: 8.0})-[:IN_GENRE]->(action)
CREATE (d:Movie {title: 'Last Laugh', imdbRating: 9.0})-[:IN_GENRE]->(comedy)
CREATE (f:Movie {title: 'Long Shadows', imdbRating: 8.8})-[:IN_GENRE]->(drama)
CREATE (e:Movie {title: 'Unrated Reel'})-[:IN_GENRE]->(action)
CREATE (u)-[:RATED {rating: 5, timestamp: datetime()}]->(a)
CREATE (u)-[:RATED {rating: 2, timestamp: datetime()}]->(b)`

func startCatalog(t *testing.T, ctx context.Context) *catalog.Catalog {
	t.Helper()

	testinfra.SkipIfNoDocker(t)

	n4j, err := testinfra.NewNeo4jContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start Neo4j container: %v", err)
	}
	t.Cleanup(func() { testinfra.CleanupContainer(t, ctx, n4j.Container) })

	cat, err := catalog.New(config.Neo4jConfig{
		URI:          n4j.BoltURI,
		Username:     n4j.Username,
		Password:     n4j.Password,
		Database:     "neo4j",
		QueryTimeout: 30 * time.Second,
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	t.Cleanup(func() { cat.Close(ctx) })

	if err := cat.Verify(ctx); err != nil {
		t.Fatalf("catalog.Verify: %v", err)
	}
	return cat
}

func titleIndex(movies []models.Movie, title string) int {
	for i, m := range movies {
		if m.Title == title {
			return i
		}
	}
	return len(movies)
}

func TestRecommendAgainstCatalog(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cat := startCatalog(t, ctx)
	if _, err := cat.Write(ctx, seedGraph, nil); err != nil {
		t.Fatalf("seed graph: %v", err)
	}

	engine := NewEngine(cat, config.Default().Recommend)

	t.Run("affinity comes from high ratings only", func(t *testing.T) {
		movies, err := engine.Recommend(ctx, "u-1", 10)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if len(movies) == 0 {
			t.Fatal("no recommendations for a user with rating history")
		}

		// Action is the only genre backed by a rating of 4 or more, so the
		// unseen Action movie must rank ahead of the Comedy one.
		steel := titleIndex(movies, "Steel Horizon")
		if steel == len(movies) {
			t.Fatalf("Steel Horizon missing from %+v", movies)
		}
		if laugh := titleIndex(movies, "Last Laugh"); steel >= laugh {
			t.Errorf("Steel Horizon at %d, Last Laugh at %d, want Action first", steel, laugh)
		}

		// The 2-star Drama rating contributes no affinity.
		if i := titleIndex(movies, "Long Shadows"); i < len(movies) {
			t.Errorf("Drama movie recommended at %d from a 2-star rating", i)
		}

		// Already-rated movies never come back.
		for _, title := range []string{"Edge of the Grid", "Quiet Hours"} {
			if i := titleIndex(movies, title); i < len(movies) {
				t.Errorf("already-rated %q recommended at %d", title, i)
			}
		}
	})

	t.Run("movies without a rating never surface", func(t *testing.T) {
		movies, err := engine.Recommend(ctx, "u-1", 10)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		if i := titleIndex(movies, "Unrated Reel"); i < len(movies) {
			t.Errorf("null-rating movie recommended at %d", i)
		}

		popular := engine.Popular(ctx, 10)
		if len(popular) == 0 {
			t.Fatal("popular list empty")
		}
		if popular[0].Title != "Last Laugh" {
			t.Errorf("popular[0] = %q, want the highest-rated movie", popular[0].Title)
		}
		if i := titleIndex(popular, "Unrated Reel"); i < len(popular) {
			t.Errorf("null-rating movie in popular list at %d", i)
		}
	})

	t.Run("cold start user gets the popularity ordering", func(t *testing.T) {
		movies, err := engine.Recommend(ctx, "nobody", 10)
		if err != nil {
			t.Fatalf("Recommend() error = %v", err)
		}
		popular := engine.Popular(ctx, 10)
		if len(movies) != len(popular) {
			t.Fatalf("cold start returned %d movies, popular %d", len(movies), len(popular))
		}
		for i := range movies {
			if movies[i].Title != popular[i].Title {
				t.Errorf("position %d: %q vs popular %q", i, movies[i].Title, popular[i].Title)
			}
		}
	})
}
