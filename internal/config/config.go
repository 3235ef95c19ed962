// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package config provides layered configuration loading for CineGraph.
//
// Configuration is loaded with Koanf v2 from three layers with clear
// precedence: environment variables > YAML config file > built-in defaults.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Neo4j     Neo4jConfig     `koanf:"neo4j"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
	Recommend RecommendConfig `koanf:"recommend"`
}

// Neo4jConfig holds the graph catalog connection settings.
type Neo4jConfig struct {
	// URI is the bolt/neo4j connection URI, e.g. "neo4j://localhost:7687".
	URI      string `koanf:"uri"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`

	// Database is the target database name.
	Database string `koanf:"database"`

	// QueryTimeout bounds every catalog call. On timeout the read paths
	// degrade per the fallback rules instead of failing the caller.
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs identity tokens. Required, minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenTTL is the identity token validity window.
	TokenTTL time.Duration `koanf:"token_ttl"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// RecommendConfig holds ranking pipeline settings.
type RecommendConfig struct {
	// DefaultLimit is the recommendation list size when the caller omits one.
	DefaultLimit int `koanf:"default_limit"`

	// SimilarLimit is the default size for similar-movie lists.
	SimilarLimit int `koanf:"similar_limit"`

	// SearchLimit is the default size for fulltext search results.
	SearchLimit int `koanf:"search_limit"`

	// TopGenres is how many of the user's strongest genres feed the
	// genre-affinity tier.
	TopGenres int `koanf:"top_genres"`

	// MinAffinityRating is the minimum star rating that counts as a
	// positive signal for personalization.
	MinAffinityRating int `koanf:"min_affinity_rating"`
}

// Default returns a Config with all default values applied.
// These are overridden by config file and environment variables.
func Default() *Config {
	return &Config{
		Neo4j: Neo4jConfig{
			URI:          "neo4j://localhost:7687",
			Username:     "neo4j",
			Password:     "",
			Database:     "neo4j",
			QueryTimeout: 10 * time.Second,
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4000,
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Security: SecurityConfig{
			JWTSecret:       "",
			TokenTTL:        7 * 24 * time.Hour,
			BcryptCost:      10,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Recommend: RecommendConfig{
			DefaultLimit:      10,
			SimilarLimit:      5,
			SearchLimit:       5,
			TopGenres:         3,
			MinAffinityRating: 4,
		},
	}
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Neo4j.URI == "" {
		return fmt.Errorf("neo4j.uri is required")
	}
	if c.Neo4j.QueryTimeout <= 0 {
		return fmt.Errorf("neo4j.query_timeout must be positive")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Security.TokenTTL <= 0 {
		return fmt.Errorf("security.token_ttl must be positive")
	}
	if c.Recommend.DefaultLimit < 1 || c.Recommend.SimilarLimit < 1 || c.Recommend.SearchLimit < 1 {
		return fmt.Errorf("recommend limits must be at least 1")
	}
	if c.Recommend.TopGenres < 1 {
		return fmt.Errorf("recommend.top_genres must be at least 1")
	}
	if c.Recommend.MinAffinityRating < 1 || c.Recommend.MinAffinityRating > 5 {
		return fmt.Errorf("recommend.min_affinity_rating must be within [1,5]")
	}
	return nil
}
