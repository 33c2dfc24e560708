// Copyright (c) 2026 Robin CRM. All rights reserved.

// Package uuidv7 wraps google/uuid to generate time-ordered UUIDv7 values.
//
// Used for every primary key in the access core (users, grant rows) and for
// request correlation IDs. Time-sortable values keep the PostgreSQL B-tree
// indexes append-friendly, unlike random UUIDv4.
package uuidv7

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only if the OS random source is unavailable, which is an
// unrecoverable system-level failure.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuidv7: failed to generate UUID: " + err.Error())
	}

	return id.String()
}
