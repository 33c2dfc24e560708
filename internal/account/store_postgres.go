// Copyright (c) 2026 Robin CRM. All rights reserved.

package account

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robin-crm/robin/internal/auth"
	"github.com/robin-crm/robin/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of [Repository].
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List returns one page of accounts ordered newest-first.
func (repository *PostgresRepository) List(ctx context.Context, limit, offset int) ([]auth.User, int, error) {
	const countQuery = `SELECT COUNT(*) FROM users`

	var total int
	if err := repository.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	const query = `
		SELECT id, name, email, password_hash, legacy_password, role, status, team,
		       last_login_at, last_active_at, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		var user auth.User
		err := rows.Scan(
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
			return nil, 0, dberr.Wrap(err, "User")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	return users, total, nil
}

// Create persists a new account record.
func (repository *PostgresRepository) Create(ctx context.Context, user *auth.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, password_hash, role, status, team, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.Team,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

// Update persists the mutable administrative fields of an account.
func (repository *PostgresRepository) Update(ctx context.Context, user *auth.User) error {
	const query = `
		UPDATE users
		SET name = $2, role = $3, team = $4, status = $5, updated_at = NOW()
		WHERE id = $1`

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Role,
		user.Team,
		user.Status,
	)
	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

// FindByID retrieves an account by its ID.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	const query = `
		SELECT id, name, email, password_hash, legacy_password, role, status, team,
		       last_login_at, last_active_at, created_at, updated_at
		FROM users
		WHERE id = $1`

	user := &auth.User{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
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
