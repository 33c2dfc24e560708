// Copyright (c) 2026 Robin CRM. All rights reserved.

package permission

import (
	"context"

	"github.com/robin-crm/robin/internal/auth"
	"github.com/robin-crm/robin/internal/platform/apperr"
)

// Service implements the grant matrix use cases on top of a [Store].
//
// # Enforcement Split
//
// Storage never knows about roles. The top-role bypass lives here, and the
// "only top-role callers may edit grants" rule is enforced by the gatekeeper
// in the router, keeping enforcement separate from storage.
type Service struct {
	store Store
}

// NewService constructs the permission [Service].
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Catalog is the module and permission reference data for the admin UI.
type Catalog struct {
	Modules     []Module     `json:"modules"`
	Permissions []Permission `json:"permissions"`
}

// ListCatalog returns the active modules and the permission catalog.
func (service *Service) ListCatalog(ctx context.Context) (*Catalog, error) {
	modules, err := service.store.ListModules(ctx)
	if err != nil {
		return nil, err
	}

	permissions, err := service.store.ListPermissions(ctx)
	if err != nil {
		return nil, err
	}

	return &Catalog{Modules: modules, Permissions: permissions}, nil
}

// ListAccessibleModules returns the modules the user may see in the
// dashboard navigation.
//
// The top role sees every active module with the implicit "manage" level,
// without consulting the grant matrix at all. This is an intentional
// privilege built into the hierarchy, not a fallback.
func (service *Service) ListAccessibleModules(ctx context.Context, userID, roleName string) ([]ModuleAccess, error) {
	if auth.ParseRole(roleName).IsTop() {
		modules, err := service.store.ListModules(ctx)
		if err != nil {
			return nil, err
		}

		accessible := make([]ModuleAccess, 0, len(modules))
		for _, module := range modules {
			accessible = append(accessible, ModuleAccess{
				Module:      module,
				Permissions: []string{PermissionManage},
			})
		}
		return accessible, nil
	}

	return service.store.ListGrantedModules(ctx, userID)
}

// UserPermissionMatrix returns the full administrative matrix for a user:
// every active module crossed with every permission, granted or not.
func (service *Service) UserPermissionMatrix(ctx context.Context, userID string) ([]MatrixEntry, error) {
	rows, err := service.store.PermissionMatrix(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Rows arrive ordered by module; fold consecutive rows into one entry
	// per module.
	var matrix []MatrixEntry
	for _, row := range rows {
		if len(matrix) == 0 || matrix[len(matrix)-1].ModuleID != row.ModuleID {
			matrix = append(matrix, MatrixEntry{
				ModuleID:    row.ModuleID,
				ModuleName:  row.ModuleName,
				DisplayName: row.ModuleDisplay,
			})
		}

		entry := &matrix[len(matrix)-1]
		entry.Permissions = append(entry.Permissions, PermissionState{
			PermissionID:   row.PermissionID,
			PermissionName: row.PermissionName,
			Granted:        row.Granted,
		})
	}

	return matrix, nil
}

// ReplaceUserGrants atomically replaces the user's entire grant set.
func (service *Service) ReplaceUserGrants(ctx context.Context, userID, grantedBy string, grants []GrantInput) error {
	if userID == "" {
		return apperr.ValidationError("A user ID is required")
	}

	for _, grant := range grants {
		if grant.ModuleID == "" || grant.PermissionID == "" {
			return apperr.ValidationError("Each grant needs a module and a permission")
		}
	}

	return service.store.ReplaceUserGrants(ctx, userID, grantedBy, grants)
}

// CanView reports whether the user holds the "view" grant on a module. This
// is the check the request gatekeeper runs for module-mapped routes; the
// top-role bypass has already happened by the time it is called.
func (service *Service) CanView(ctx context.Context, userID, module string) (bool, error) {
	return service.store.HasGrant(ctx, userID, module, PermissionView)
}
