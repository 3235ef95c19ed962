// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultNeo4jImage is the Neo4j image used for integration tests.
	DefaultNeo4jImage = "neo4j:5"

	// DefaultBoltPort is the bolt protocol port inside the container.
	DefaultBoltPort = "7687"

	// DefaultNeo4jUser and DefaultNeo4jPassword are the credentials the
	// container starts with via NEO4J_AUTH.
	DefaultNeo4jUser     = "neo4j"
	DefaultNeo4jPassword = "cinegraph-test"
)

// Neo4jContainer represents a running Neo4j container for testing.
type Neo4jContainer struct {
	testcontainers.Container
	BoltURI  string
	Username string
	Password string
}

// Neo4jOption configures the Neo4j container.
type Neo4jOption func(*neo4jConfig)

type neo4jConfig struct {
	image        string
	startTimeout time.Duration
}

// WithNeo4jImage sets a custom Neo4j Docker image.
func WithNeo4jImage(image string) Neo4jOption {
	return func(c *neo4jConfig) {
		c.image = image
	}
}

// WithNeo4jStartTimeout sets the timeout for waiting for Neo4j to start.
func WithNeo4jStartTimeout(timeout time.Duration) Neo4jOption {
	return func(c *neo4jConfig) {
		c.startTimeout = timeout
	}
}

// NewNeo4jContainer creates and starts a new Neo4j container for testing.
//
// Example:
//
//	ctx := context.Background()
//	n4j, err := NewNeo4jContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer n4j.Terminate(ctx)
//
//	// Use n4j.BoltURI, n4j.Username, n4j.Password to build a driver
func NewNeo4jContainer(ctx context.Context, opts ...Neo4jOption) (*Neo4jContainer, error) {
	cfg := &neo4jConfig{
		image:        DefaultNeo4jImage,
		startTimeout: 120 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultBoltPort + "/tcp"},
		Env: map[string]string{
			"NEO4J_AUTH": DefaultNeo4jUser + "/" + DefaultNeo4jPassword,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultBoltPort+"/tcp"),
			wait.ForLog("Started."),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create neo4j container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultBoltPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &Neo4jContainer{
		Container: container,
		BoltURI:   fmt.Sprintf("bolt://%s:%s", host, port.Port()),
		Username:  DefaultNeo4jUser,
		Password:  DefaultNeo4jPassword,
	}, nil
}

// Terminate stops and removes the Neo4j container.
func (c *Neo4jContainer) Terminate(ctx context.Context) error {
	return c.Container.Terminate(ctx)
}
