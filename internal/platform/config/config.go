// Copyright (c) 2026 Robin CRM. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a
strongly-typed Go struct, providing early validation and default values.

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, token service) via
    constructors.
  - Zero Hidden State: No global variables store config. In particular the
    token signing secret lives here and is injected into the token service
    at startup, never read ad hoc from the environment by call sites.
*/
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DevTokenSecret is the documented fallback signing secret used when
// AUTH_TOKEN_SECRET is unset in a non-production environment. Startup logs
// a loud warning whenever it is in effect; production refuses to boot on it.
const DevTokenSecret = "robin-dev-only-insecure-secret"

// Config holds all runtime configuration for the Robin access-core server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) — backs the session token denylist.
	RedisURL string `env:"REDIS_URL,required"`

	// TokenSecret signs session tokens (HS256). Optional in development
	// (falls back to DevTokenSecret), mandatory in production.
	TokenSecret string `env:"AUTH_TOKEN_SECRET"`
}

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// Fails if any field marked 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.TokenSecret == "" && cfg.IsProduction() {
		return nil, errors.New("config: AUTH_TOKEN_SECRET is required in production")
	}

	return cfg, nil
}

// ResolveTokenSecret returns the signing secret and whether the insecure
// development fallback is in effect.
//
// Load already rejects an empty secret in production, so the fallback can
// only ever be handed out in development or test environments.
func (c *Config) ResolveTokenSecret() (secret []byte, isDevFallback bool) {
	if c.TokenSecret != "" {
		return []byte(c.TokenSecret), false
	}
	return []byte(DevTokenSecret), true
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
