// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package users handles account registration and login.
//
// User nodes are keyed by a generated userId; the email address is unique
// by convention and checked before every registration. Password hashes are
// stored on the node's password property and never leave this package.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/saulfrancisco-ruizacevedo/gocypher"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinegraph/cinegraph/internal/apperr"
	"github.com/cinegraph/cinegraph/internal/catalog"
	"github.com/cinegraph/cinegraph/internal/logging"
	"github.com/cinegraph/cinegraph/internal/models"
)

// ErrInvalidCredentials is returned by Login for an unknown email or a
// wrong password. Callers must not be able to tell the two apart.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Session is the outcome of a successful registration or login.
type Session struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// TokenIssuer mints the session token after the account itself checks out.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Service provides account operations over the graph catalog.
type Service struct {
	runner     catalog.Runner
	tokens     TokenIssuer
	bcryptCost int
}

// NewService creates a Service. A non-positive bcrypt cost falls back to
// the bcrypt default.
func NewService(runner catalog.Runner, tokens TokenIssuer, bcryptCost int) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{runner: runner, tokens: tokens, bcryptCost: bcryptCost}
}

// Register creates an account and returns a fresh session. A duplicate
// email is a conflict.
func (s *Service) Register(ctx context.Context, name, email, password string) (*Session, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return nil, apperr.Validationf("name, email and password are required")
	}

	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflictf("a user with email %q already exists", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.NewString()
	query, params, err := gocypher.NewQueryBuilder().
		Merge(gocypher.N("u", "User").WithProperties(map[string]any{"userId": userID})).
		Set(map[string]any{
			"u.name":     name,
			"u.email":    email,
			"u.password": string(hash),
		}).
		Return("u").
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build create query: %w", err)
	}

	rows, err := s.runner.Write(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("user creation returned no rows")
	}

	user := models.UserFromProps(rows[0].Props("u"))
	logging.Ctx(ctx).Info().Str("user_id", user.UserID).Msg("user registered")
	return s.session(user)
}

// Login verifies credentials and returns a fresh session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validationf("email and password are required")
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	logging.Ctx(ctx).Info().Str("user_id", user.UserID).Msg("user logged in")
	return s.session(*user)
}

// findByEmail returns the user node for an email, or nil when absent.
func (s *Service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("u", "User").WithProperties(map[string]any{"email": email})).
		Return("u").
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup query: %w", err)
	}

	rows, err := s.runner.Read(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	user := models.UserFromProps(rows[0].Props("u"))
	return &user, nil
}

func (s *Service) session(user models.User) (*Session, error) {
	token, err := s.tokens.Issue(user.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &Session{Token: token, User: user.Public()}, nil
}
