// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/cinegraph/cinegraph/internal/config"
)

func testSecurityConfig() config.SecurityConfig {
	return config.SecurityConfig{
		JWTSecret: "test-secret-at-least-32-characters-long",
		TokenTTL:  7 * 24 * time.Hour,
	}
}

func newTestManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager(config.SecurityConfig{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.UserID != "user-42" {
		t.Errorf("UserID = %q, want user-42", claims.UserID)
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl < 6*24*time.Hour || ttl > 7*24*time.Hour {
		t.Errorf("token TTL = %v, want roughly 7 days", ttl)
	}
}

func TestVerifyRejects(t *testing.T) {
	m := newTestManager(t)

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Verify("not.a.token"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewJWTManager(config.SecurityConfig{
			JWTSecret: "another-secret-also-32-characters-xx",
			TokenTTL:  time.Hour,
		})
		token, _ := other.Issue("user-1")
		if _, err := m.Verify(token); err == nil {
			t.Fatal("expected signature error")
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired, _ := NewJWTManager(config.SecurityConfig{
			JWTSecret: testSecurityConfig().JWTSecret,
			TokenTTL:  -time.Minute,
		})
		token, _ := expired.Issue("user-1")
		if _, err := m.Verify(token); err == nil {
			t.Fatal("expected expiry error")
		}
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "user-1"})
		token, _ := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		if _, err := m.Verify(token); err == nil {
			t.Fatal("expected algorithm rejection")
		}
	})

	t.Run("missing user id", func(t *testing.T) {
		anon := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		token, _ := anon.SignedString([]byte(testSecurityConfig().JWTSecret))
		if _, err := m.Verify(token); err == nil {
			t.Fatal("expected rejection of token without user id")
		}
	})
}

func TestRequireUser(t *testing.T) {
	m := newTestManager(t)
	mw := NewMiddleware(m)

	var gotUserID string
	handler := mw.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token passes claims", func(t *testing.T) {
		token, _ := m.Issue("user-7")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if gotUserID != "user-7" {
			t.Errorf("user id in context = %q, want user-7", gotUserID)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		token, _ := m.Issue("user-7")
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("rejection carries the response envelope", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if rec.Header().Get("WWW-Authenticate") == "" {
			t.Error("WWW-Authenticate header missing")
		}

		var body struct {
			Success bool `json:"success"`
			Error   struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("401 body is not valid JSON: %v", err)
		}
		if body.Success {
			t.Error("success = true on a rejection")
		}
		if body.Error.Code != "UNAUTHORIZED" {
			t.Errorf("error code = %q, want UNAUTHORIZED", body.Error.Code)
		}
		if body.Error.Message == "" {
			t.Error("error message empty")
		}
	})
}
