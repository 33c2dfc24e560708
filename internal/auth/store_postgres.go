// Copyright (c) 2026 Robin CRM. All rights reserved.

package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robin-crm/robin/internal/platform/dberr"
)

// PostgresUserRepository implements [UserRepository] using pgx.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] values via [dberr.Wrap] so implementation details never
// leak to callers.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of [UserRepository].
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

const userColumns = `
	id, name, email, password_hash, legacy_password, role, status, team,
	last_login_at, last_active_at, created_at, updated_at`

// FindByEmail retrieves a user record by their unique email address.
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`

	return repository.scanOne(ctx, query, email)
}

// FindByID retrieves a user record by their unique ID.
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`

	return repository.scanOne(ctx, query, id)
}

// TouchLogin stamps the login timestamps on a successful authentication.
func (repository *PostgresUserRepository) TouchLogin(ctx context.Context, id string) error {
	const query = `
		UPDATE users
		SET last_login_at = NOW(), last_active_at = NOW(), updated_at = NOW()
		WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, id); err != nil {
		return dberr.Wrap(err, "User")
	}
	return nil
}

// SetPasswordHash stores a new bcrypt hash and clears any legacy plaintext
// password in the same statement, so an account can never carry both.
func (repository *PostgresUserRepository) SetPasswordHash(ctx context.Context, id, hash string) error {
	const query = `
		UPDATE users
		SET password_hash = $2, legacy_password = NULL, updated_at = NOW()
		WHERE id = $1`

	if _, err := repository.pool.Exec(ctx, query, id, hash); err != nil {
		return dberr.Wrap(err, "User")
	}
	return nil
}

// scanOne runs a single-row user query and maps the result.
func (repository *PostgresUserRepository) scanOne(ctx context.Context, query string, arg any) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.LegacyPassword,
		&user.Role,
		&user.Status,
		&user.Team,
		&user.LastLoginAt,
		&user.LastActiveAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}
