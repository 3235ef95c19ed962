// CineGraph - Graph-Backed Movie Recommendations over Neo4j
// Copyright 2026 The CineGraph Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinegraph/cinegraph

package models

// User is an account node. UserID is server-generated and immutable.
// PasswordHash never crosses the service's output boundary: every outward
// user value goes through Public() exactly once before return.
type User struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`

	// PasswordHash is the bcrypt hash stored under the "password" property.
	PasswordHash string `json:"-"`
}

// PublicUser is the outward shape of a user record, with the password hash
// stripped.
type PublicUser struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Public returns the outward view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
	}
}

// UserFromProps translates a catalog property map into a User.
func UserFromProps(props map[string]any) User {
	return User{
		UserID:       AsString(props["userId"]),
		Name:         AsString(props["name"]),
		Email:        AsString(props["email"]),
		PasswordHash: AsString(props["password"]),
	}
}
