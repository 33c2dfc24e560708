// Copyright (c) 2026 Robin CRM. All rights reserved.

// Package permission implements the module-permission grant matrix: the
// catalog of functional areas ("modules") and named actions, and the
// per-user set of granted (module, permission) pairs.
//
// # Default Deny
//
// The absence of a grant row means "not granted". Every read path in this
// package preserves that invariant; nothing here ever infers access from
// anything but an explicit granted row (the top-role bypass lives in the
// service, not in storage).
package permission

import "time"

// Module is a named functional area of the dashboard.
//
// Modules form a forest via ParentID; only active modules are ever surfaced
// or enforced.
type Module struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	ParentID    *string `json:"parent_id,omitempty"`
	ParentName  *string `json:"parent_name,omitempty"`
	Route       string  `json:"route"`
	IsActive    bool    `json:"is_active"`
	SortOrder   int     `json:"sort_order"`
}

// Permission is a named action. Permissions are global in the catalog; their
// meaning becomes module-scoped only through a grant.
type Permission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// ModuleAccess is a module annotated with the permission names the user
// holds on it. For the top role the list is the implicit ["manage"].
type ModuleAccess struct {
	Module
	Permissions []string `json:"permissions"`
}

// PermissionState is one cell of the administrative permission matrix.
type PermissionState struct {
	PermissionID   string `json:"permission_id"`
	PermissionName string `json:"permission_name"`
	Granted        bool   `json:"granted"`
}

// MatrixEntry is one module row of the administrative permission matrix,
// always listing every permission in the catalog, granted or not.
type MatrixEntry struct {
	ModuleID    string            `json:"module_id"`
	ModuleName  string            `json:"module_name"`
	DisplayName string            `json:"display_name"`
	Permissions []PermissionState `json:"permissions"`
}

// GrantInput is one submitted cell of a grant replacement.
type GrantInput struct {
	ModuleID     string `json:"module_id"`
	PermissionID string `json:"permission_id"`
	Granted      bool   `json:"granted"`
}

// Grant is a stored (user, module, permission) tuple with its audit trail.
type Grant struct {
	UserID       string    `json:"user_id"`
	ModuleID     string    `json:"module_id"`
	PermissionID string    `json:"permission_id"`
	Granted      bool      `json:"granted"`
	GrantedBy    string    `json:"granted_by"`
	GrantedAt    time.Time `json:"granted_at"`
}

// PermissionView is the grant checked by the request gatekeeper for
// module-mapped routes.
const PermissionView = "view"

// PermissionManage is the implicit permission level of the top role.
const PermissionManage = "manage"
