// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package validation

import (
	"strings"
	"testing"

	"github.com/cinegraph/cinegraph/internal/apperr"
)

type registerPayload struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type ratingPayload struct {
	Rating int `validate:"gte=1,lte=5"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid payload passes", func(t *testing.T) {
		err := ValidateStruct(&registerPayload{
			Name:     "Ada",
			Email:    "ada@example.com",
			Password: "hunter2222",
		})
		if err != nil {
			t.Fatalf("ValidateStruct() error = %v", err)
		}
	})

	t.Run("failures are validation-class errors", func(t *testing.T) {
		err := ValidateStruct(&registerPayload{Email: "not-an-email"})
		if !apperr.IsValidation(err) {
			t.Fatalf("err = %v, want validation class", err)
		}
	})

	t.Run("every failed field is mentioned", func(t *testing.T) {
		err := ValidateStruct(&registerPayload{Email: "not-an-email", Password: "short"})
		if err == nil {
			t.Fatal("expected error")
		}
		msg := err.Error()
		for _, want := range []string{"Name is required", "Email must be a valid email address", "Password must be at least 8"} {
			if !strings.Contains(msg, want) {
				t.Errorf("message %q missing %q", msg, want)
			}
		}
	})

	t.Run("range tags", func(t *testing.T) {
		if err := ValidateStruct(&ratingPayload{Rating: 0}); !apperr.IsValidation(err) {
			t.Fatalf("Rating=0: err = %v, want validation class", err)
		}
		if err := ValidateStruct(&ratingPayload{Rating: 6}); !apperr.IsValidation(err) {
			t.Fatalf("Rating=6: err = %v, want validation class", err)
		}
		if err := ValidateStruct(&ratingPayload{Rating: 3}); err != nil {
			t.Fatalf("Rating=3: err = %v", err)
		}
	})
}
