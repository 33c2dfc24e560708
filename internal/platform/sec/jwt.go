// Copyright (c) 2026 Robin CRM. All rights reserved.

// Package sec provides the cryptographic primitives of the access core:
// password hashing and session token management.
//
// # Architecture
//
// Security-sensitive code is isolated here, away from domain logic. The
// token service is injected into the auth service and the gatekeeper
// middleware through small interfaces, never reached through globals.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/robin-crm/robin/pkg/uuidv7"
)

// ErrInvalidToken is the single failure result for token verification.
//
// Expired, malformed, and badly-signed tokens are deliberately collapsed
// into one sentinel: callers treat every invalid token exactly like a
// missing one, so there is nothing useful to distinguish.
var ErrInvalidToken = errors.New("sec: invalid or expired token")

// AuthClaims is the payload embedded inside a session token.
//
// # Why custom claims?
//
// Embedding the user ID, email, and role lets the gatekeeper reconstruct
// the request identity WITHOUT a database read on every request. The
// grant matrix is the only per-request storage lookup, and only for
// module-gated routes.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the payload small.
	UserID string `json:"uid"`
	Email  string `json:"eml"`
	Role   string `json:"rol"`
}

// TokenService issues and verifies HS256 session tokens.
//
// The signing secret is injected once at construction. Nothing in this
// package reads the process environment; rotating the secret is a restart,
// which invalidates every outstanding token.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption configures optional [TokenService] behavior.
type TokenOption func(*TokenService)

// WithClock overrides the time source. Test use only.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewTokenService creates a TokenService signing with the given secret.
//
// # Parameters
//   - secret: the server-held HS256 signing key. Must not be empty.
//   - issuer: the 'iss' claim stamped on every token.
//   - ttl: session lifetime (7 days for the dashboard).
func NewTokenService(secret []byte, issuer string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, errors.New("sec: token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("sec: token ttl must be positive")
	}

	service := &TokenService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// IssueToken creates a signed session token for the given identity.
//
// The JTI (token ID) is a UUIDv7 so the logout denylist can key revoked
// tokens individually.
func (service *TokenService) IssueToken(userID, email, role string) (string, time.Time, error) {
	issuedAt := service.now()
	expiresAt := issuedAt.Add(service.ttl)

	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuidv7.New(),
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(service.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, expiresAt, nil
}

// VerifyToken checks the signature and validity window of a token string.
//
// # Failure Semantics
//
// This sits on every request path, so it never panics on user-supplied
// input and never reports WHY a token failed: any failure (expired, wrong
// signature, malformed, wrong algorithm) is [ErrInvalidToken].
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return service.secret, nil
		},
		jwt.WithIssuer(service.issuer),
		jwt.WithTimeFunc(service.now),
	)

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// TTL returns the configured session lifetime.
func (service *TokenService) TTL() time.Duration {
	return service.ttl
}
