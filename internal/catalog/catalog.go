// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package catalog wraps the official Neo4j Go driver as the service's graph
// catalog client.
//
// Every call acquires its own session and releases it on every exit path;
// no session is shared across requests. A circuit breaker classifies driver
// failures: whatever goes wrong at this boundary surfaces as
// apperr.ErrCatalogUnavailable, which the read paths translate into fallback
// behavior and the write paths surface to the caller.
//
// Rows are translated at this boundary: nodes and projection maps become
// plain property maps and all numeric values arrive as native Go int64 or
// float64, so ranking logic never handles driver-native wrapper types.
package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sony/gobreaker/v2"

	"github.com/cinegraph/cinegraph/internal/apperr"
	"github.com/cinegraph/cinegraph/internal/config"
	"github.com/cinegraph/cinegraph/internal/metrics"
)

// Row is a single result row: column name to normalized value.
type Row map[string]any

// Props returns the named column as a property map, or nil when the column
// is absent or not a node/projection.
func (r Row) Props(key string) map[string]any {
	props, _ := r[key].(map[string]any)
	return props
}

// Runner executes Cypher against the catalog. It is the seam the ranking and
// mutation layers depend on, so tests can substitute a scripted fake.
type Runner interface {
	// Read executes a read query in its own session.
	Read(ctx context.Context, cypher string, params map[string]any) ([]Row, error)

	// Write executes a write query in a single write transaction, relying on
	// the catalog's native transactional guarantees for atomicity.
	Write(ctx context.Context, cypher string, params map[string]any) ([]Row, error)

	// Run executes a query in an auto-commit transaction. Schema commands
	// such as SHOW INDEXES and CREATE INDEX must come through here; the
	// server rejects them inside explicit transactions.
	Run(ctx context.Context, cypher string, params map[string]any) ([]Row, error)
}

// Catalog is the production Runner backed by neo4j-go-driver.
type Catalog struct {
	driver   neo4j.DriverWithContext
	database string
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker[[]Row]
}

// New creates a Catalog from configuration. The connection is lazy; call
// Verify to check connectivity at startup.
func New(cfg config.Neo4jConfig) (*Catalog, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("could not create neo4j driver: %w", err)
	}

	st := gobreaker.Settings{
		Name: "catalog",
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		Timeout: 15 * time.Second,
	}

	return &Catalog{
		driver:   driver,
		database: cfg.Database,
		timeout:  cfg.QueryTimeout,
		breaker:  gobreaker.NewCircuitBreaker[[]Row](st),
	}, nil
}

// Verify checks connectivity to the catalog.
func (c *Catalog) Verify(ctx context.Context) error {
	if err := c.driver.VerifyConnectivity(ctx); err != nil {
		return apperr.Unavailable(err)
	}
	return nil
}

// Close releases the underlying driver.
func (c *Catalog) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Read implements Runner.
func (c *Catalog) Read(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	return c.run(ctx, neo4j.AccessModeRead, cypher, params)
}

// Write implements Runner.
func (c *Catalog) Write(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	return c.run(ctx, neo4j.AccessModeWrite, cypher, params)
}

// Run implements Runner.
func (c *Catalog) Run(ctx context.Context, cypher string, params map[string]any) ([]Row, error) {
	start := time.Now()

	rows, err := c.breaker.Execute(func() ([]Row, error) {
		runCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		session := c.driver.NewSession(runCtx, neo4j.SessionConfig{
			DatabaseName: c.database,
		})
		defer session.Close(runCtx)

		result, err := session.Run(runCtx, cypher, params)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(runCtx)
		if err != nil {
			return nil, err
		}
		out := make([]Row, 0, len(records))
		for _, rec := range records {
			out = append(out, rowFromRecord(rec))
		}
		return out, nil
	})

	metrics.CatalogQueryDuration.WithLabelValues("auto").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogQueryErrors.WithLabelValues("auto").Inc()
		return nil, apperr.Unavailable(err)
	}
	return rows, nil
}

// run executes the query in a fresh session scoped to this call.
func (c *Catalog) run(ctx context.Context, mode neo4j.AccessMode, cypher string, params map[string]any) ([]Row, error) {
	op := "read"
	if mode == neo4j.AccessModeWrite {
		op = "write"
	}
	start := time.Now()

	rows, err := c.breaker.Execute(func() ([]Row, error) {
		runCtx := ctx
		if c.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		session := c.driver.NewSession(runCtx, neo4j.SessionConfig{
			AccessMode:   mode,
			DatabaseName: c.database,
		})
		defer session.Close(runCtx)

		work := func(tx neo4j.ManagedTransaction) (any, error) {
			result, err := tx.Run(runCtx, cypher, params)
			if err != nil {
				return nil, err
			}
			records, err := result.Collect(runCtx)
			if err != nil {
				return nil, err
			}
			rows := make([]Row, 0, len(records))
			for _, rec := range records {
				rows = append(rows, rowFromRecord(rec))
			}
			return rows, nil
		}

		var out any
		var workErr error
		if mode == neo4j.AccessModeWrite {
			out, workErr = session.ExecuteWrite(runCtx, work)
		} else {
			out, workErr = session.ExecuteRead(runCtx, work)
		}
		if workErr != nil {
			return nil, workErr
		}
		rows, _ := out.([]Row)
		return rows, nil
	})

	metrics.CatalogQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CatalogQueryErrors.WithLabelValues(op).Inc()
		return nil, apperr.Unavailable(err)
	}
	return rows, nil
}

// rowFromRecord translates a driver record into a normalized Row.
func rowFromRecord(rec *neo4j.Record) Row {
	row := make(Row, len(rec.Keys))
	for i, key := range rec.Keys {
		row[key] = normalizeValue(rec.Values[i])
	}
	return row
}

// normalizeValue converts driver-native values into plain Go values.
// Nodes and relationships collapse to their property maps; projection maps
// (the `n {.*}` form) are normalized recursively.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case neo4j.Node:
		return normalizeProps(val.Props)
	case neo4j.Relationship:
		return normalizeProps(val.Props)
	case map[string]any:
		return normalizeProps(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return v
	}
}

func normalizeProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = normalizeValue(v)
	}
	return out
}
