// Copyright (c) 2026 Robin CRM. All rights reserved.

// Package pointer provides small helpers for working with pointer values,
// used mainly by partial-update payloads where nil means "leave unchanged".
package pointer

// To returns a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// Deref returns the value behind p, or fallback if p is nil.
func Deref[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
