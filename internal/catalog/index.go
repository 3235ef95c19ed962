// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package catalog

import (
	"context"
	"fmt"
)

// FulltextIndexName is the catalog's fulltext index over movie text fields.
const FulltextIndexName = "movieIndex"

const (
	showFulltextIndexQuery = `SHOW INDEXES WHERE type = 'FULLTEXT' AND name = 'movieIndex'`

	createFulltextIndexQuery = `CREATE FULLTEXT INDEX movieIndex FOR (m:Movie) ON EACH [m.title, m.plot, m.tagline]`
)

// HasFulltextIndex reports whether the movie fulltext index exists. SHOW
// INDEXES is a schema command, so it must run auto-commit.
func HasFulltextIndex(ctx context.Context, runner Runner) (bool, error) {
	rows, err := runner.Run(ctx, showFulltextIndexQuery, nil)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// EnsureFulltextIndex creates the movie fulltext index if it does not exist.
// Called once at startup; search itself only checks, never creates. Index
// creation must also run auto-commit or the server rejects it.
func EnsureFulltextIndex(ctx context.Context, runner Runner) error {
	exists, err := HasFulltextIndex(ctx, runner)
	if err != nil {
		return fmt.Errorf("fulltext index check: %w", err)
	}
	if exists {
		return nil
	}
	if _, err := runner.Run(ctx, createFulltextIndexQuery, nil); err != nil {
		return fmt.Errorf("fulltext index create: %w", err)
	}
	return nil
}
