// Copyright (c) 2026 Robin CRM. All rights reserved.

package permission

import "context"

// matrixRow is the flat storage shape of one matrix cell; the service groups
// rows into [MatrixEntry] values per module.
type matrixRow struct {
	ModuleID       string
	ModuleName     string
	ModuleDisplay  string
	PermissionID   string
	PermissionName string
	Granted        bool
}

// Store defines the persistence contract for the grant matrix.
//
// # Atomicity
//
// ReplaceUserGrants must be atomic: concurrent readers never observe a user
// mid-replacement with a mixed old/new grant set.
type Store interface {
	// ListModules returns all active modules ordered by (sort_order,
	// display_name), with parent display names resolved.
	ListModules(ctx context.Context) ([]Module, error)

	// ListPermissions returns the permission catalog ordered by name.
	ListPermissions(ctx context.Context) ([]Permission, error)

	// ListGrantedModules returns the active modules on which the user holds
	// at least one granted permission, each annotated with the granted
	// permission names.
	ListGrantedModules(ctx context.Context, userID string) ([]ModuleAccess, error)

	// PermissionMatrix returns the full cross join of active modules and all
	// permissions against the user's grants, defaulting to not granted.
	PermissionMatrix(ctx context.Context, userID string) ([]matrixRow, error)

	// ReplaceUserGrants atomically replaces the user's entire grant set.
	// Only entries with Granted=true produce rows; the rest are absence.
	ReplaceUserGrants(ctx context.Context, userID, grantedBy string, grants []GrantInput) error

	// HasGrant reports whether the user holds the named permission on the
	// named active module.
	HasGrant(ctx context.Context, userID, moduleName, permissionName string) (bool, error)
}
