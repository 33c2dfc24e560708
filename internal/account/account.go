// Copyright (c) 2026 Robin CRM. All rights reserved.

// Package account implements administrative user management: listing,
// provisioning, profile edits, and deactivation.
//
// Accounts are never physically deleted. "Deleting" a user is a status
// transition to inactive, which blocks future logins while keeping the
// grant audit trail intact.
package account

import (
	"context"

	"github.com/robin-crm/robin/internal/auth"
)

// CreateInput holds the data required to provision a new account.
type CreateInput struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	Role     string  `json:"role"`
	Team     *string `json:"team,omitempty"`
}

// UpdateInput holds a partial account update. Nil fields are left unchanged.
type UpdateInput struct {
	Name   *string `json:"name,omitempty"`
	Role   *string `json:"role,omitempty"`
	Team   *string `json:"team,omitempty"`
	Status *string `json:"status,omitempty"`
}

// Repository defines the persistence contract for account administration.
type Repository interface {
	// List returns one page of accounts ordered by creation time, plus the
	// total count for pagination metadata.
	List(ctx context.Context, limit, offset int) ([]auth.User, int, error)

	// Create persists a new account record.
	Create(ctx context.Context, user *auth.User) error

	// Update persists the mutable administrative fields of an account.
	Update(ctx context.Context, user *auth.User) error

	// FindByID retrieves an account by its ID.
	FindByID(ctx context.Context, id string) (*auth.User, error)
}
