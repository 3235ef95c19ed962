// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package apperr defines the domain error taxonomy shared by the catalog,
// ranking, and mutation layers.
//
// Four error kinds cover every failure the service distinguishes:
//
//   - ErrValidation: malformed input (e.g. a rating outside [1,5])
//   - ErrNotFound: a referenced user, movie, or edge does not exist
//   - ErrConflict: a uniqueness violation (duplicate email on registration)
//   - ErrCatalogUnavailable: a transient failure talking to the graph catalog
//
// Read-path ranking operations never propagate ErrCatalogUnavailable to their
// caller; they degrade to the next fallback tier or an empty list. Write-path
// operations propagate ErrValidation and ErrNotFound as explicit failures.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors for the domain taxonomy. Wrap with fmt.Errorf("%w: ...")
// to attach context while keeping errors.Is classification intact.
var (
	// ErrValidation indicates malformed caller input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a referenced user, movie, or rating edge is absent.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation, such as a duplicate email.
	ErrConflict = errors.New("conflict")

	// ErrCatalogUnavailable indicates a transient catalog I/O failure.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Unavailable wraps a catalog error as ErrCatalogUnavailable, preserving the
// underlying cause in the message.
func Unavailable(cause error) error {
	if cause == nil {
		return ErrCatalogUnavailable
	}
	return fmt.Errorf("%w: %v", ErrCatalogUnavailable, cause)
}

// IsValidation reports whether err is an ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsConflict reports whether err is an ErrConflict.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }

// IsUnavailable reports whether err is an ErrCatalogUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrCatalogUnavailable) }
