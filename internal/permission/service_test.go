// Copyright (c) 2026 Robin CRM. All rights reserved.

package permission

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore implements [Store] with the same observable semantics as the
// PostgreSQL store: default-deny, wholesale replacement, active-only reads.
type memoryStore struct {
	modules     []Module
	permissions []Permission
	grants      map[string][]Grant
}

func newMemoryStore() *memoryStore {
	taskParent := "mod-tasks"
	return &memoryStore{
		modules: []Module{
			{ID: "mod-tasks", Name: "tasks", DisplayName: "Tasks", Route: "/dashboard/tasks", IsActive: true, SortOrder: 1},
			{ID: "mod-customers", Name: "customers", DisplayName: "Customers", Route: "/dashboard/customers", IsActive: true, SortOrder: 2},
			{ID: "mod-task-reports", Name: "task_reports", DisplayName: "Task Reports", ParentID: &taskParent, Route: "/dashboard/tasks/reports", IsActive: true, SortOrder: 3},
			{ID: "mod-archive", Name: "archive", DisplayName: "Archive", Route: "/dashboard/archive", IsActive: false, SortOrder: 4},
		},
		permissions: []Permission{
			{ID: "perm-edit", Name: "edit", DisplayName: "Edit"},
			{ID: "perm-manage", Name: "manage", DisplayName: "Manage"},
			{ID: "perm-view", Name: "view", DisplayName: "View"},
		},
		grants: make(map[string][]Grant),
	}
}

func (m *memoryStore) activeModules() []Module {
	var active []Module
	for _, module := range m.modules {
		if module.IsActive {
			active = append(active, module)
		}
	}
	return active
}

func (m *memoryStore) ListModules(context.Context) ([]Module, error) {
	return m.activeModules(), nil
}

func (m *memoryStore) ListPermissions(context.Context) ([]Permission, error) {
	return m.permissions, nil
}

func (m *memoryStore) isGranted(userID, moduleID, permissionID string) bool {
	for _, grant := range m.grants[userID] {
		if grant.ModuleID == moduleID && grant.PermissionID == permissionID && grant.Granted {
			return true
		}
	}
	return false
}

func (m *memoryStore) ListGrantedModules(_ context.Context, userID string) ([]ModuleAccess, error) {
	var accessible []ModuleAccess
	for _, module := range m.activeModules() {
		var names []string
		for _, permission := range m.permissions {
			if m.isGranted(userID, module.ID, permission.ID) {
				names = append(names, permission.Name)
			}
		}
		if len(names) > 0 {
			sort.Strings(names)
			accessible = append(accessible, ModuleAccess{Module: module, Permissions: names})
		}
	}
	return accessible, nil
}

func (m *memoryStore) PermissionMatrix(_ context.Context, userID string) ([]matrixRow, error) {
	var rows []matrixRow
	for _, module := range m.activeModules() {
		for _, permission := range m.permissions {
			rows = append(rows, matrixRow{
				ModuleID:       module.ID,
				ModuleName:     module.Name,
				ModuleDisplay:  module.DisplayName,
				PermissionID:   permission.ID,
				PermissionName: permission.Name,
				Granted:        m.isGranted(userID, module.ID, permission.ID),
			})
		}
	}
	return rows, nil
}

func (m *memoryStore) ReplaceUserGrants(_ context.Context, userID, grantedBy string, grants []GrantInput) error {
	var replacement []Grant
	for _, grant := range grants {
		if !grant.Granted {
			continue
		}
		replacement = append(replacement, Grant{
			UserID:       userID,
			ModuleID:     grant.ModuleID,
			PermissionID: grant.PermissionID,
			Granted:      true,
			GrantedBy:    grantedBy,
		})
	}
	m.grants[userID] = replacement
	return nil
}

func (m *memoryStore) HasGrant(_ context.Context, userID, moduleName, permissionName string) (bool, error) {
	for _, module := range m.activeModules() {
		if module.Name != moduleName {
			continue
		}
		for _, permission := range m.permissions {
			if permission.Name == permissionName {
				return m.isGranted(userID, module.ID, permission.ID), nil
			}
		}
	}
	return false, nil
}

// # Helpers

func flattenGranted(matrix []MatrixEntry) map[string]bool {
	granted := make(map[string]bool)
	for _, entry := range matrix {
		for _, state := range entry.Permissions {
			if state.Granted {
				granted[entry.ModuleName+"|"+state.PermissionName] = true
			}
		}
	}
	return granted
}

// # Matrix Reads

func TestMatrixDefaultDenyForFreshUser(t *testing.T) {
	service := NewService(newMemoryStore())

	matrix, err := service.UserPermissionMatrix(context.Background(), "fresh-user")
	require.NoError(t, err)

	// Every active module appears, the inactive one never does.
	require.Len(t, matrix, 3)
	for _, entry := range matrix {
		assert.NotEqual(t, "archive", entry.ModuleName)
		// Every permission appears per module, all denied.
		require.Len(t, entry.Permissions, 3)
		for _, state := range entry.Permissions {
			assert.False(t, state.Granted,
				"fresh user must have no grant on %s/%s", entry.ModuleName, state.PermissionName)
		}
	}
}

func TestMatrixGroupsRowsByModule(t *testing.T) {
	store := newMemoryStore()
	service := NewService(store)

	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", []GrantInput{
		{ModuleID: "mod-tasks", PermissionID: "perm-view", Granted: true},
	}))

	matrix, err := service.UserPermissionMatrix(context.Background(), "user-1")
	require.NoError(t, err)

	require.Len(t, matrix, 3)
	assert.Equal(t, "tasks", matrix[0].ModuleName)
	assert.Equal(t, "Tasks", matrix[0].DisplayName)
	assert.Equal(t, flattenGranted(matrix), map[string]bool{"tasks|view": true})
}

// # Grant Replacement

func TestReplaceGrantsExactlyReflected(t *testing.T) {
	// An administrator submits two grants; the matrix shows exactly those
	// two as granted and everything else as denied.
	service := NewService(newMemoryStore())

	submitted := []GrantInput{
		{ModuleID: "mod-tasks", PermissionID: "perm-view", Granted: true},
		{ModuleID: "mod-customers", PermissionID: "perm-edit", Granted: true},
	}
	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", submitted))

	matrix, err := service.UserPermissionMatrix(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{
		"tasks|view":     true,
		"customers|edit": true,
	}, flattenGranted(matrix))
}

func TestReplaceGrantsIsIdempotent(t *testing.T) {
	service := NewService(newMemoryStore())

	submitted := []GrantInput{
		{ModuleID: "mod-tasks", PermissionID: "perm-view", Granted: true},
		{ModuleID: "mod-tasks", PermissionID: "perm-edit", Granted: true},
	}

	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", submitted))
	first, err := service.UserPermissionMatrix(context.Background(), "user-1")
	require.NoError(t, err)

	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", submitted))
	second, err := service.UserPermissionMatrix(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReplaceGrantsDropsEverythingFromBefore(t *testing.T) {
	service := NewService(newMemoryStore())

	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", []GrantInput{
		{ModuleID: "mod-tasks", PermissionID: "perm-view", Granted: true},
	}))
	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", []GrantInput{
		{ModuleID: "mod-customers", PermissionID: "perm-view", Granted: true},
	}))

	matrix, err := service.UserPermissionMatrix(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, map[string]bool{"customers|view": true}, flattenGranted(matrix))
}

func TestReplaceGrantsFalseEntriesEqualAbsence(t *testing.T) {
	service := NewService(newMemoryStore())

	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", []GrantInput{
		{ModuleID: "mod-tasks", PermissionID: "perm-view", Granted: false},
	}))

	canView, err := service.CanView(context.Background(), "user-1", "tasks")
	require.NoError(t, err)
	assert.False(t, canView)
}

func TestReplaceGrantsValidation(t *testing.T) {
	service := NewService(newMemoryStore())

	err := service.ReplaceUserGrants(context.Background(), "", "admin-1", nil)
	assert.Error(t, err)

	err = service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", []GrantInput{
		{ModuleID: "mod-tasks", Granted: true},
	})
	assert.Error(t, err)
}

// # Accessible Modules

func TestTopRoleSeesAllModulesWithManage(t *testing.T) {
	// Empty grant matrix; the top role never consults it.
	service := NewService(newMemoryStore())

	for _, role := range []string{"chief_executive", "ceo", "مدیر"} {
		accessible, err := service.ListAccessibleModules(context.Background(), "boss", role)
		require.NoError(t, err)

		require.Len(t, accessible, 3, "role %q", role)
		for _, access := range accessible {
			assert.Equal(t, []string{"manage"}, access.Permissions)
		}
	}
}

func TestMidRoleSeesOnlyGrantedModules(t *testing.T) {
	service := NewService(newMemoryStore())

	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", []GrantInput{
		{ModuleID: "mod-tasks", PermissionID: "perm-view", Granted: true},
		{ModuleID: "mod-tasks", PermissionID: "perm-edit", Granted: true},
	}))

	accessible, err := service.ListAccessibleModules(context.Background(), "user-1", "sales_manager")
	require.NoError(t, err)

	require.Len(t, accessible, 1)
	assert.Equal(t, "tasks", accessible[0].Name)
	assert.Equal(t, []string{"edit", "view"}, accessible[0].Permissions)
}

func TestFreshUserSeesNoModules(t *testing.T) {
	service := NewService(newMemoryStore())

	accessible, err := service.ListAccessibleModules(context.Background(), "fresh-user", "staff")
	require.NoError(t, err)
	assert.Empty(t, accessible)
}

// # Gatekeeper Check

func TestCanView(t *testing.T) {
	service := NewService(newMemoryStore())

	require.NoError(t, service.ReplaceUserGrants(context.Background(), "user-1", "admin-1", []GrantInput{
		{ModuleID: "mod-tasks", PermissionID: "perm-view", Granted: true},
		{ModuleID: "mod-customers", PermissionID: "perm-edit", Granted: true},
	}))

	canView, err := service.CanView(context.Background(), "user-1", "tasks")
	require.NoError(t, err)
	assert.True(t, canView)

	// Holding "edit" without "view" does not pass the view gate.
	canView, err = service.CanView(context.Background(), "user-1", "customers")
	require.NoError(t, err)
	assert.False(t, canView)

	canView, err = service.CanView(context.Background(), "user-1", "reports")
	require.NoError(t, err)
	assert.False(t, canView)
}
