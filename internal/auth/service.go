// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/robin-crm/robin/internal/platform/apperr"
	"github.com/robin-crm/robin/internal/platform/ctxutil"
	"github.com/robin-crm/robin/internal/platform/sec"
)

// errInvalidCredentials is the single answer for every failed credential
// check. "No such account" and "wrong password" are deliberately
// indistinguishable to prevent user enumeration.
func errInvalidCredentials() *apperr.AppError {
	return apperr.Unauthorized("INVALID_CREDENTIALS", "Invalid email or password")
}

// errAccountInactive rejects deactivated accounts with a distinct code; the
// account exists and the caller proved they own it, so there is nothing to
// enumerate.
func errAccountInactive() *apperr.AppError {
	return apperr.Forbidden("ACCOUNT_INACTIVE", "This account has been deactivated")
}

// TokenIssuer defines the contract for minting session tokens.
type TokenIssuer interface {
	// IssueToken creates a signed session token for the given identity and
	// returns it with its expiry time.
	IssueToken(userID, email, role string) (string, time.Time, error)
}

// Service implements the authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to credential
// verification or session issuance must be reviewed by the security team.
type Service struct {
	users    UserRepository
	denylist TokenDenylist
	tokens   TokenIssuer
}

// NewService constructs the authentication [Service].
func NewService(users UserRepository, denylist TokenDenylist, tokens TokenIssuer) *Service {
	return &Service{
		users:    users,
		denylist: denylist,
		tokens:   tokens,
	}
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult represents a successfully established session.
type LoginResult struct {
	User      Profile
	Token     string
	ExpiresAt time.Time
}

// Login validates credentials and issues a session token.
//
// # Flow
//  1. Look up the account by email. A missing account and a wrong password
//     produce the identical error.
//  2. Reject deactivated accounts.
//  3. Verify the password: bcrypt hash first; accounts imported from the
//     legacy system without a hash fall back to a constant-time plaintext
//     comparison, and on success are migrated to a hash on the spot.
//  4. Stamp login timestamps and issue the token.
//
// This is the only place in the system that touches password material; every
// other component only ever sees {id, email, role} claims.
func (service *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	// ── 1. Account Lookup ─────────────────────────────────────────────────

	user, err := service.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if appError := apperr.As(err); appError != nil && appError.HTTPStatus == http.StatusNotFound {
			return nil, errInvalidCredentials()
		}
		// Storage failures stay storage failures: fail closed, not 401.
		return nil, err
	}

	// ── 2. Status Check ───────────────────────────────────────────────────

	if !user.IsActive() {
		return nil, errAccountInactive()
	}

	// ── 3. Credential Verification ────────────────────────────────────────

	if !service.verifyPassword(ctx, user, input.Password) {
		return nil, errInvalidCredentials()
	}

	// ── 4. Session Issuance ───────────────────────────────────────────────

	if err := service.users.TouchLogin(ctx, user.ID); err != nil {
		return nil, err
	}

	token, expiresAt, err := service.tokens.IssueToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("auth_service_token_issuance_failed: %w", err)
	}

	return &LoginResult{
		User:      user.Profile(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// verifyPassword checks the supplied password against the stored material
// and runs the hash-on-first-login migration for legacy accounts.
func (service *Service) verifyPassword(ctx context.Context, user *User, password string) bool {
	if user.PasswordHash != nil {
		return sec.CheckPasswordHash(password, *user.PasswordHash)
	}

	if user.LegacyPassword == nil || !sec.CheckLegacyPassword(password, *user.LegacyPassword) {
		return false
	}

	// Legacy match: replace the plaintext with a bcrypt hash now, so the
	// fallback branch is taken at most once per account. A failed migration
	// must not block the login itself.
	hash, err := sec.HashPassword(password)
	if err == nil {
		err = service.users.SetPasswordHash(ctx, user.ID, hash)
	}
	if err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "legacy_password_migration_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	return true
}

// Logout revokes the current session token.
//
// The token ID goes onto the denylist for exactly its remaining lifetime;
// after natural expiry the entry is pointless and Redis drops it.
func (service *Service) Logout(ctx context.Context, claims *sec.AuthClaims) error {
	remaining := time.Until(claims.ExpiresAt.Time)
	if err := service.denylist.Revoke(ctx, claims.ID, remaining); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// Me returns the fresh profile for an authenticated identity.
//
// Token claims can be up to a week stale; this re-reads the account so role
// or status changes made by an administrator are visible immediately.
func (service *Service) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive() {
		return nil, errAccountInactive()
	}

	profile := user.Profile()
	return &profile, nil
}
