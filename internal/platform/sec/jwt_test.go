// Copyright (c) 2026 Robin CRM. All rights reserved.

package sec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIssuer = "robin-test"

func newService(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	service, err := NewTokenService([]byte("unit-test-secret"), testIssuer, 7*24*time.Hour, opts...)
	require.NoError(t, err)
	return service
}

func TestNewTokenServiceRejectsBadConfig(t *testing.T) {
	_, err := NewTokenService(nil, testIssuer, time.Hour)
	assert.Error(t, err, "empty secret must be rejected")

	_, err = NewTokenService([]byte("secret"), testIssuer, 0)
	assert.Error(t, err, "non-positive ttl must be rejected")
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	service := newService(t)

	token, expiresAt, err := service.IssueToken("user-1", "sara@robin-crm.app", "sales_manager")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiresAt, 5*time.Second)

	claims, err := service.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sara@robin-crm.app", claims.Email)
	assert.Equal(t, "sales_manager", claims.Role)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.NotEmpty(t, claims.ID, "every token carries a unique ID for the denylist")
}

func TestVerifyTokenExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt

	service := newService(t, WithClock(func() time.Time { return clock }))

	token, expiresAt, err := service.IssueToken("user-1", "sara@robin-crm.app", "staff")
	require.NoError(t, err)

	// One second before expiry: still valid.
	clock = expiresAt.Add(-time.Second)
	_, err = service.VerifyToken(token)
	assert.NoError(t, err)

	// One second after expiry: invalid, with the single sentinel error.
	clock = expiresAt.Add(time.Second)
	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	service := newService(t)

	token, _, err := service.IssueToken("user-1", "sara@robin-crm.app", "staff")
	require.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := token[:len(token)-2] + "xx"
	_, err = service.VerifyToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsForeignSecret(t *testing.T) {
	service := newService(t)
	other, err := NewTokenService([]byte("a-different-secret"), testIssuer, time.Hour)
	require.NoError(t, err)

	token, _, err := other.IssueToken("user-1", "sara@robin-crm.app", "staff")
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsWrongIssuer(t *testing.T) {
	service := newService(t)
	other, err := NewTokenService([]byte("unit-test-secret"), "someone-else", time.Hour)
	require.NoError(t, err)

	token, _, err := other.IssueToken("user-1", "sara@robin-crm.app", "staff")
	require.NoError(t, err)

	_, err = service.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenGarbageInput(t *testing.T) {
	service := newService(t)

	for _, garbage := range []string{"", "x", "a.b.c", "not a token at all"} {
		_, err := service.VerifyToken(garbage)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", garbage)
	}
}

func TestIssuedTokenIDsAreUnique(t *testing.T) {
	service := newService(t)

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		token, _, err := service.IssueToken("user-1", "sara@robin-crm.app", "staff")
		require.NoError(t, err)

		claims, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.False(t, seen[claims.ID], "token IDs must never repeat")
		seen[claims.ID] = true
	}
}
