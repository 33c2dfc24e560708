// Copyright (c) 2026 Robin CRM. All rights reserved.

// Package auth implements authentication for the Robin dashboard: credential
// verification, session issuance and revocation, and the role hierarchy.
//
// # Architecture
//
// The service orchestrates domain entities and talks to storage through
// interfaces. It is technology-agnostic and does not know about HTTP or SQL;
// those live in http.go and store_postgres.go respectively.
package auth

import "time"

// Account status values. Accounts are never physically deleted; deactivation
// is a status transition.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User is a stored account record.
//
// # Password Material
//
// PasswordHash is a bcrypt hash. LegacyPassword holds a plaintext password
// for accounts imported from the old system that have never logged in here;
// it is cleared the first time the account authenticates successfully (see
// [Service.Login]). Neither field is ever serialized.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	PasswordHash   *string `json:"-"`
	LegacyPassword *string `json:"-"`

	Role   string  `json:"role"`
	Status string  `json:"status"`
	Team   *string `json:"team,omitempty"`

	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Profile is the sanitized user projection returned to clients. It carries
// no password material by construction, not just by JSON tag.
type Profile struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Role   string  `json:"role"`
	Status string  `json:"status"`
	Team   *string `json:"team,omitempty"`
}

// Profile returns the client-safe projection of the user.
func (u *User) Profile() Profile {
	return Profile{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Status: u.Status,
		Team:   u.Team,
	}
}
