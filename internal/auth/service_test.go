// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robin-crm/robin/internal/platform/apperr"
	"github.com/robin-crm/robin/internal/platform/sec"
	"github.com/robin-crm/robin/pkg/pointer"
)

// # Test Fakes

type fakeUserRepo struct {
	users map[string]*User // keyed by both ID and email

	touched    []string
	setHashes  map[string]string
	findErr    error
	setHashErr error
}

func newFakeUserRepo(users ...*User) *fakeUserRepo {
	repo := &fakeUserRepo{
		users:     make(map[string]*User),
		setHashes: make(map[string]string),
	}
	for _, user := range users {
		repo.users[user.ID] = user
		repo.users[user.Email] = user
	}
	return repo
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	user, ok := f.users[email]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*User, error) {
	return f.FindByEmail(nil, id)
}

func (f *fakeUserRepo) TouchLogin(_ context.Context, id string) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeUserRepo) SetPasswordHash(_ context.Context, id, hash string) error {
	if f.setHashErr != nil {
		return f.setHashErr
	}
	f.setHashes[id] = hash
	if user, ok := f.users[id]; ok {
		user.PasswordHash = &hash
		user.LegacyPassword = nil
	}
	return nil
}

type fakeDenylist struct {
	entries map[string]time.Duration
	err     error
}

func newFakeDenylist() *fakeDenylist {
	return &fakeDenylist{entries: make(map[string]time.Duration)}
}

func (f *fakeDenylist) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.entries[tokenID] = ttl
	return nil
}

func (f *fakeDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := f.entries[tokenID]
	return ok, f.err
}

// # Helpers

func newTestService(t *testing.T, repo *fakeUserRepo) (*Service, *sec.TokenService, *fakeDenylist) {
	t.Helper()
	tokens, err := sec.NewTokenService([]byte("test-secret"), "robin-test", TokenTTL)
	require.NoError(t, err)
	denylist := newFakeDenylist()
	return NewService(repo, denylist, tokens), tokens, denylist
}

func activeUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := sec.HashPassword(password)
	require.NoError(t, err)
	return &User{
		ID:           "user-1",
		Name:         "Sara Ahmadi",
		Email:        "sara@robin-crm.app",
		PasswordHash: &hash,
		Role:         "sales_manager",
		Status:       StatusActive,
	}
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	assert.Equal(t, code, appError.Code)
}

// # Login

func TestLoginSuccessIssuesToken(t *testing.T) {
	repo := newFakeUserRepo(activeUser(t, "correct-horse"))
	service, tokens, _ := newTestService(t, repo)

	result, err := service.Login(context.Background(), LoginInput{
		Email:    "sara@robin-crm.app",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// Sanitized projection plus a verifiable token.
	assert.Equal(t, "user-1", result.User.ID)
	assert.Equal(t, "sales_manager", result.User.Role)

	claims, err := tokens.VerifyToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sara@robin-crm.app", claims.Email)
	assert.Equal(t, "sales_manager", claims.Role)

	// Login timestamps were stamped.
	assert.Equal(t, []string{"user-1"}, repo.touched)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo(activeUser(t, "correct-horse"))
	service, _, _ := newTestService(t, repo)

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "sara@robin-crm.app",
		Password: "wrong",
	})

	assertErrorCode(t, err, "INVALID_CREDENTIALS")
	assert.Empty(t, repo.touched, "failed login must not stamp timestamps")
}

func TestLoginUnknownEmailIndistinguishableFromWrongPassword(t *testing.T) {
	repo := newFakeUserRepo(activeUser(t, "correct-horse"))
	service, _, _ := newTestService(t, repo)

	_, errUnknown := service.Login(context.Background(), LoginInput{
		Email: "nobody@robin-crm.app", Password: "whatever",
	})
	_, errWrongPass := service.Login(context.Background(), LoginInput{
		Email: "sara@robin-crm.app", Password: "wrong",
	})

	// Identical code AND message: nothing for an enumeration attack to read.
	appUnknown, appWrong := apperr.As(errUnknown), apperr.As(errWrongPass)
	require.NotNil(t, appUnknown)
	require.NotNil(t, appWrong)
	assert.Equal(t, appWrong.Code, appUnknown.Code)
	assert.Equal(t, appWrong.Message, appUnknown.Message)
}

func TestLoginInactiveAccount(t *testing.T) {
	user := activeUser(t, "correct-horse")
	user.Status = StatusInactive
	service, _, _ := newTestService(t, newFakeUserRepo(user))

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "sara@robin-crm.app",
		Password: "correct-horse",
	})

	assertErrorCode(t, err, "ACCOUNT_INACTIVE")
}

func TestLoginStorageOutageIsNotUnauthorized(t *testing.T) {
	repo := newFakeUserRepo()
	repo.findErr = apperr.StorageUnavailable(errors.New("pg down"))
	service, _, _ := newTestService(t, repo)

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "sara@robin-crm.app",
		Password: "correct-horse",
	})

	assertErrorCode(t, err, "STORAGE_UNAVAILABLE")
}

// # Legacy Password Migration

func legacyUser(password string) *User {
	return &User{
		ID:             "legacy-1",
		Name:           "Old Importer",
		Email:          "legacy@robin-crm.app",
		LegacyPassword: pointer.To(password),
		Role:           "staff",
		Status:         StatusActive,
	}
}

func TestLoginLegacyPasswordMigratesToHash(t *testing.T) {
	repo := newFakeUserRepo(legacyUser("plain-secret"))
	service, _, _ := newTestService(t, repo)

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "legacy@robin-crm.app",
		Password: "plain-secret",
	})
	require.NoError(t, err)

	// The plaintext was replaced with a working bcrypt hash.
	hash, migrated := repo.setHashes["legacy-1"]
	require.True(t, migrated, "expected hash-on-first-login migration")
	assert.True(t, sec.CheckPasswordHash("plain-secret", hash))
	assert.Nil(t, repo.users["legacy-1"].LegacyPassword)

	// Second login takes the hash path and still works.
	_, err = service.Login(context.Background(), LoginInput{
		Email:    "legacy@robin-crm.app",
		Password: "plain-secret",
	})
	require.NoError(t, err)
}

func TestLoginLegacyPasswordWrong(t *testing.T) {
	repo := newFakeUserRepo(legacyUser("plain-secret"))
	service, _, _ := newTestService(t, repo)

	_, err := service.Login(context.Background(), LoginInput{
		Email:    "legacy@robin-crm.app",
		Password: "guess",
	})

	assertErrorCode(t, err, "INVALID_CREDENTIALS")
	assert.Empty(t, repo.setHashes, "failed login must not migrate anything")
}

func TestLoginLegacyMigrationFailureStillLogsIn(t *testing.T) {
	repo := newFakeUserRepo(legacyUser("plain-secret"))
	repo.setHashErr = errors.New("pg down")
	service, _, _ := newTestService(t, repo)

	result, err := service.Login(context.Background(), LoginInput{
		Email:    "legacy@robin-crm.app",
		Password: "plain-secret",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

// # Logout

func TestLogoutRevokesTokenForRemainingLifetime(t *testing.T) {
	repo := newFakeUserRepo(activeUser(t, "correct-horse"))
	service, tokens, denylist := newTestService(t, repo)

	result, err := service.Login(context.Background(), LoginInput{
		Email:    "sara@robin-crm.app",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	claims, err := tokens.VerifyToken(result.Token)
	require.NoError(t, err)

	require.NoError(t, service.Logout(context.Background(), claims))

	revoked, err := denylist.IsRevoked(context.Background(), claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl := denylist.entries[claims.ID]
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, TokenTTL)
}

// # Me

func TestMeReturnsFreshProfile(t *testing.T) {
	user := activeUser(t, "correct-horse")
	user.Team = pointer.To("enterprise-sales")
	service, _, _ := newTestService(t, newFakeUserRepo(user))

	profile, err := service.Me(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, "sara@robin-crm.app", profile.Email)
	assert.Equal(t, pointer.To("enterprise-sales"), profile.Team)
}

func TestMeDeactivatedAccountRejected(t *testing.T) {
	// Deactivation mid-session: claims are still valid but the account
	// is not.
	user := activeUser(t, "correct-horse")
	user.Status = StatusInactive
	service, _, _ := newTestService(t, newFakeUserRepo(user))

	_, err := service.Me(context.Background(), "user-1")
	assertErrorCode(t, err, "ACCOUNT_INACTIVE")
}
