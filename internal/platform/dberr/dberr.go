// Copyright (c) 2026 Robin CRM. All rights reserved.

// Package dberr bridges low-level database errors and application errors.
//
// # Fail Closed
//
// Connectivity and query failures surface as STORAGE_UNAVAILABLE, never as
// a silent allow: an access decision that cannot read its data denies.
package dberr

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/robin-crm/robin/internal/platform/apperr"
)

// Wrap inspects a database error and maps it to a meaningful [apperr.AppError].
// Internal database details are hidden from the client.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return apperr.Conflict(resource + " already exists")
		case pgerrcode.ForeignKeyViolation:
			return apperr.ValidationError(resource + " references an unknown record")
		}
	}

	return apperr.StorageUnavailable(err)
}
