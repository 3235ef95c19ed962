// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// blockingServer serves until Shutdown is called or it is told to fail.
type blockingServer struct {
	failWith chan error
	done     chan struct{}

	shutdownCalled bool
}

func newBlockingServer() *blockingServer {
	return &blockingServer{
		failWith: make(chan error, 1),
		done:     make(chan struct{}),
	}
}

func (s *blockingServer) ListenAndServe() error {
	select {
	case err := <-s.failWith:
		return err
	case <-s.done:
		return http.ErrServerClosed
	}
}

func (s *blockingServer) Shutdown(_ context.Context) error {
	s.shutdownCalled = true
	close(s.done)
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	server := newBlockingServer()
	svc := NewHTTPService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancellation")
	}
	if !server.shutdownCalled {
		t.Error("Shutdown was never called")
	}
}

func TestHTTPServicePropagatesListenerFailure(t *testing.T) {
	server := newBlockingServer()
	svc := NewHTTPService(server, time.Second)

	server.failWith <- errors.New("listen tcp: address already in use")

	err := svc.Serve(context.Background())
	if err == nil {
		t.Fatal("Serve() = nil, want listener failure")
	}
	if server.shutdownCalled {
		t.Error("Shutdown called for a listener failure")
	}
}
