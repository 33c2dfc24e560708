// Copyright (c) 2026 Robin CRM. All rights reserved.

/*
Package constants provides centralized, immutable values for the access core.

It defines default timeouts, rate limits, and cross-cutting keys shared
between layers, keeping magic strings and numbers out of business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "robin-access"
	AppVersion = "0.3.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	// Access decisions are sub-millisecond; this bounds the storage calls.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in session tokens.
	AuthIssuer = "robin-crm.app"

	// SessionCookieName is the cookie the dashboard stores the session token in.
	// API clients send the same token as an Authorization bearer header.
	SessionCookieName = "auth_token"

	// LoginPath is where unauthenticated dashboard requests are redirected.
	LoginPath = "/login"

	// DashboardPath is the landing page used for access-denied redirects.
	DashboardPath = "/dashboard"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldCode  = "code"
	FieldError = "error"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	// RedisPrefixDenylist keys revoked session token IDs (JTI) until expiry.
	RedisPrefixDenylist = "auth:denylist:"
)
