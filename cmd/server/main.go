// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package main is the entry point for the CineGraph server.
//
// CineGraph serves tiered movie recommendations from a Neo4j movie graph:
// users, movies, genres, and RATED edges. Discovery endpoints (popular,
// similar, search) are public; recommendations and the rating ledger
// require a bearer token obtained from /api/v1/auth.
//
// # Startup order
//
//  1. Configuration: Koanf v2 layering defaults, config file, environment
//  2. Logging: zerolog, JSON or console format
//  3. Graph catalog: Neo4j driver, connectivity check, fulltext index
//  4. Services: ranking engine, rating ledger, accounts, JWT
//  5. HTTP server under a suture supervision tree
//
// # Configuration
//
// Highest priority wins:
//   - Environment variables (NEO4J_URI, NEO4J_PASSWORD, JWT_SECRET, ...)
//   - Config file (CONFIG_PATH or /etc/cinegraph/config.yaml)
//   - Built-in defaults
//
// # Signal handling
//
// SIGINT and SIGTERM trigger graceful shutdown: the server stops accepting
// connections, in-flight requests get the configured drain window, then the
// catalog driver closes.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cinegraph/cinegraph/internal/api"
	"github.com/cinegraph/cinegraph/internal/auth"
	"github.com/cinegraph/cinegraph/internal/catalog"
	"github.com/cinegraph/cinegraph/internal/config"
	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/ratings"
	"github.com/cinegraph/cinegraph/internal/recommend"
	"github.com/cinegraph/cinegraph/internal/supervisor"
	"github.com/cinegraph/cinegraph/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("neo4j_uri", cfg.Neo4j.URI).
		Msg("starting cinegraph")

	cat, err := catalog.New(cfg.Neo4j)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create catalog client")
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := cat.Verify(startupCtx); err != nil {
		// Startup continues: read paths degrade and the readiness probe
		// reports the outage until the catalog comes back.
		logging.Warn().Err(err).Msg("graph catalog unreachable at startup")
	} else if err := catalog.EnsureFulltextIndex(startupCtx, cat); err != nil {
		logging.Warn().Err(err).Msg("could not ensure fulltext index, search may be degraded")
	}
	cancelStartup()

	jwtManager, err := auth.NewJWTManager(cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	handler := api.NewHandler(
		recommend.NewEngine(cat, cfg.Recommend),
		ratings.NewLedger(cat),
		users.NewService(cat, jwtManager, cfg.Security.BcryptCost),
		cat,
	)
	router := api.NewRouter(handler, auth.NewMiddleware(jwtManager), cfg.Security)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	slogger := slog.New(logging.NewSlogHandler())
	tree := supervisor.NewTree(slogger, supervisor.Config{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(supervisor.NewHTTPService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", cfg.Server.Addr()).Msg("http server listening")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Error().Err(err).Msg("supervision tree exited")
	}

	closeCtx, cancelClose := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelClose()
	if err := cat.Close(closeCtx); err != nil {
		logging.Error().Err(err).Msg("failed to close catalog driver")
	}
	logging.Info().Msg("shutdown complete")
}
