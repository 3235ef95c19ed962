// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

// Package models defines the typed records that cross the catalog boundary.
//
// The catalog returns nodes as dynamic property maps. Every map is translated
// into one of these fixed-field structs at the boundary; missing properties
// default to zero values and store-native numeric types are normalized, so
// ranking logic never sees raw driver values.
package models

// Movie is a catalog entry. Title is the natural key used in queries and
// must be unique for pipeline correctness.
type Movie struct {
	Title   string `json:"title"`
	Plot    string `json:"plot,omitempty"`
	Tagline string `json:"tagline,omitempty"`

	// ImdbRating is nullable: movies without one are excluded from every
	// ranking tier (search is exempt).
	ImdbRating *float64 `json:"imdbRating,omitempty"`
}

// HasRating reports whether the movie carries an IMDB rating.
func (m Movie) HasRating() bool {
	return m.ImdbRating != nil
}

// ScoredMovie is a movie with the text-index relevance score attached,
// returned by search. The score is passed through unchanged.
type ScoredMovie struct {
	Movie
	Score float64 `json:"searchScore"`
}

// Genre is a label node relating to movies via IN_GENRE.
type Genre struct {
	Name string `json:"name"`
}

// MovieFromProps translates a catalog property map into a Movie.
// Unknown keys are ignored; missing keys default.
func MovieFromProps(props map[string]any) Movie {
	m := Movie{
		Title:   AsString(props["title"]),
		Plot:    AsString(props["plot"]),
		Tagline: AsString(props["tagline"]),
	}
	if v, ok := AsFloat(props["imdbRating"]); ok {
		m.ImdbRating = &v
	}
	return m
}

// AsString coerces a catalog value to a string, defaulting to "".
func AsString(v any) string {
	s, _ := v.(string)
	return s
}

// AsFloat coerces a catalog numeric value to float64. The driver returns
// integers as int64 and floats as float64; both are accepted.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// AsInt coerces a catalog numeric value to int.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
