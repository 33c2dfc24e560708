// Copyright (c) 2026 Robin CRM. All rights reserved.

package middleware

import "strings"

// RouteMap is the static route classification table the gatekeeper consults.
//
// # Design
//
// Every route falls into exactly one category:
//
//   - Public: reachable with no token at all (login, health checks).
//   - Exempt: requires authentication but no module grant (the dashboard
//     landing page, the auth/me and logout endpoints).
//   - Module-mapped: requires a "view" grant on the named module.
//   - Everything else: denied. A route nobody classified is a route nobody
//     reviewed, so the gate fails closed instead of silently allowing it.
//
// The table is configuration, not runtime state; it must be updated whenever
// a new gated surface is added to the application.
type RouteMap struct {
	public  []string
	exempt  map[string]bool
	modules []moduleRule
}

// moduleRule binds a path prefix to the module whose grant it requires.
type moduleRule struct {
	prefix string
	module string
}

// NewRouteMap builds an empty route map. Use the With* methods to populate it.
func NewRouteMap() *RouteMap {
	return &RouteMap{exempt: make(map[string]bool)}
}

// WithPublic marks path prefixes as reachable without any token.
func (m *RouteMap) WithPublic(prefixes ...string) *RouteMap {
	m.public = append(m.public, prefixes...)
	return m
}

// WithExempt marks exact paths as authenticated-only, skipping module checks.
// Exemptions are exact-match on purpose: a prefix exemption would quietly
// cover future child routes nobody decided to exempt.
func (m *RouteMap) WithExempt(paths ...string) *RouteMap {
	for _, path := range paths {
		m.exempt[path] = true
	}
	return m
}

// WithModule binds path prefixes to a module name.
func (m *RouteMap) WithModule(module string, prefixes ...string) *RouteMap {
	for _, prefix := range prefixes {
		m.modules = append(m.modules, moduleRule{prefix: prefix, module: module})
	}
	return m
}

// IsPublic reports whether the path is reachable without a token.
func (m *RouteMap) IsPublic(path string) bool {
	for _, prefix := range m.public {
		if matchesPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IsExempt reports whether the path skips the module grant check.
func (m *RouteMap) IsExempt(path string) bool {
	return m.exempt[path]
}

// ModuleFor returns the module a path is gated on, if any.
func (m *RouteMap) ModuleFor(path string) (string, bool) {
	for _, rule := range m.modules {
		if matchesPrefix(path, rule.prefix) {
			return rule.module, true
		}
	}
	return "", false
}

// matchesPrefix matches on path-segment boundaries, so "/dashboard/tasks"
// covers "/dashboard/tasks/42" but never "/dashboard/tasksarchive".
func matchesPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// IsAPIRoute classifies a path as programmatic (JSON errors) rather than a
// browser-facing page (redirects).
func IsAPIRoute(path string) bool {
	return strings.HasPrefix(path, "/api/")
}

// DefaultRouteMap returns the production route classification for the Robin
// dashboard and its JSON API.
func DefaultRouteMap() *RouteMap {
	m := NewRouteMap().
		WithPublic("/login", "/healthz", "/readyz", "/api/v1/auth/login").
		WithExempt(
			"/dashboard",
			"/api/v1/auth/me",
			"/api/v1/auth/logout",
			// Navigation data: every authenticated user needs their own
			// module list and the catalog it references.
			"/api/v1/permissions/user-modules",
			"/api/v1/permissions/modules",
		)

	// Each functional area is gated on its module's "view" grant, on both
	// the page surface and the JSON surface.
	for _, module := range []string{
		"tasks", "customers", "sales", "feedbacks",
		"projects", "reports", "settings", "users",
	} {
		m.WithModule(module, "/dashboard/"+module, "/api/v1/"+module)
	}

	// Editing another user's grants belongs to the users area.
	m.WithModule("users", "/api/v1/permissions/user")

	return m
}
