// Copyright (c) 2026 Robin CRM. All rights reserved.

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// Per-request values (resolved identity, request ID, logger) are stored in
// the request context. Using a private, unexported key type prevents
// collisions with third-party packages that also use context storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
// Go's [context.Context] matches on value AND type, so even an identical
// string key from another package cannot collide.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyIdentity is the context key for the verified identity claims
	// injected by the gatekeeper ([sec.AuthClaims]).
	KeyIdentity key = "identity"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
