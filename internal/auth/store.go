// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

import (
	"context"
	"time"
)

// UserRepository defines the persistence contract for account records.
//
// # Error Mapping
//
// Lookups return [apperr.NotFound] when no record matches; any other failure
// is a storage error the caller must treat as fail-closed.
type UserRepository interface {
	// FindByEmail retrieves the single account with this email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByID retrieves an account by its opaque ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// TouchLogin stamps last-login and last-active on a successful login.
	TouchLogin(ctx context.Context, id string) error

	// SetPasswordHash stores a new bcrypt hash and clears any legacy
	// plaintext password in the same statement.
	SetPasswordHash(ctx context.Context, id, hash string) error
}

// TokenDenylist tracks session token IDs revoked before their natural expiry.
//
// Entries only need to outlive the token itself, so implementations store
// them with a TTL and let them expire.
type TokenDenylist interface {
	// Revoke marks a token ID as dead for the given remaining lifetime.
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error

	// IsRevoked reports whether a token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
