// Copyright (c) 2026 Robin CRM. All rights reserved.

package permission

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/robin-crm/robin/internal/platform/dberr"
)

// PostgresStore implements [Store] using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewStore creates a new PostgreSQL implementation of [Store].
func NewStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// ListModules returns all active modules with parent display names resolved.
func (store *PostgresStore) ListModules(ctx context.Context) ([]Module, error) {
	const query = `
		SELECT m.id, m.name, m.display_name, m.parent_id, parent.display_name,
		       m.route, m.is_active, m.sort_order
		FROM modules m
		LEFT JOIN modules parent ON parent.id = m.parent_id
		WHERE m.is_active = TRUE
		ORDER BY m.sort_order, m.display_name`

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Module")
	}
	defer rows.Close()

	var modules []Module
	for rows.Next() {
		var module Module
		err := rows.Scan(
			&module.ID,
			&module.Name,
			&module.DisplayName,
			&module.ParentID,
			&module.ParentName,
			&module.Route,
			&module.IsActive,
			&module.SortOrder,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Module")
		}
		modules = append(modules, module)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Module")
	}

	return modules, nil
}

// ListPermissions returns the permission catalog ordered by name.
func (store *PostgresStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	const query = `
		SELECT id, name, display_name
		FROM permissions
		ORDER BY name`

	rows, err := store.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "Permission")
	}
	defer rows.Close()

	var permissions []Permission
	for rows.Next() {
		var permission Permission
		if err := rows.Scan(&permission.ID, &permission.Name, &permission.DisplayName); err != nil {
			return nil, dberr.Wrap(err, "Permission")
		}
		permissions = append(permissions, permission)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Permission")
	}

	return permissions, nil
}

// ListGrantedModules returns the active modules on which the user holds at
// least one granted permission, with the granted permission names aggregated
// per module.
func (store *PostgresStore) ListGrantedModules(ctx context.Context, userID string) ([]ModuleAccess, error) {
	const query = `
		SELECT m.id, m.name, m.display_name, m.parent_id, parent.display_name,
		       m.route, m.is_active, m.sort_order,
		       ARRAY_AGG(p.name ORDER BY p.name)
		FROM modules m
		JOIN user_module_permissions g
		  ON g.module_id = m.id AND g.user_id = $1 AND g.granted = TRUE
		JOIN permissions p ON p.id = g.permission_id
		LEFT JOIN modules parent ON parent.id = m.parent_id
		WHERE m.is_active = TRUE
		GROUP BY m.id, m.name, m.display_name, m.parent_id, parent.display_name,
		         m.route, m.is_active, m.sort_order
		ORDER BY m.sort_order, m.display_name`

	rows, err := store.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Module")
	}
	defer rows.Close()

	var accessible []ModuleAccess
	for rows.Next() {
		var access ModuleAccess
		err := rows.Scan(
			&access.ID,
			&access.Name,
			&access.DisplayName,
			&access.ParentID,
			&access.ParentName,
			&access.Route,
			&access.IsActive,
			&access.SortOrder,
			&access.Permissions,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Module")
		}
		accessible = append(accessible, access)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Module")
	}

	return accessible, nil
}

// PermissionMatrix returns one row per (active module, permission) pair,
// left-joined against the user's grants so absent rows read as not granted.
func (store *PostgresStore) PermissionMatrix(ctx context.Context, userID string) ([]matrixRow, error) {
	const query = `
		SELECT m.id, m.name, m.display_name, p.id, p.name,
		       COALESCE(g.granted, FALSE)
		FROM modules m
		CROSS JOIN permissions p
		LEFT JOIN user_module_permissions g
		  ON g.module_id = m.id AND g.permission_id = p.id AND g.user_id = $1
		WHERE m.is_active = TRUE
		ORDER BY m.sort_order, m.display_name, p.name`

	rows, err := store.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, dberr.Wrap(err, "Permission matrix")
	}
	defer rows.Close()

	var matrix []matrixRow
	for rows.Next() {
		var row matrixRow
		err := rows.Scan(
			&row.ModuleID,
			&row.ModuleName,
			&row.ModuleDisplay,
			&row.PermissionID,
			&row.PermissionName,
			&row.Granted,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Permission matrix")
		}
		matrix = append(matrix, row)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Permission matrix")
	}

	return matrix, nil
}

// ReplaceUserGrants deletes every grant row for the user and inserts one row
// per granted entry, inside a single transaction.
//
// Entries with Granted=false are simply omitted: under default-deny an
// absent row and a false row mean the same thing.
func (store *PostgresStore) ReplaceUserGrants(ctx context.Context, userID, grantedBy string, grants []GrantInput) error {
	transaction, err := store.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "Grant")
	}
	defer func() { _ = transaction.Rollback(ctx) }()

	const deleteQuery = `DELETE FROM user_module_permissions WHERE user_id = $1`
	if _, err := transaction.Exec(ctx, deleteQuery, userID); err != nil {
		return dberr.Wrap(err, "Grant")
	}

	const insertQuery = `
		INSERT INTO user_module_permissions (
			user_id, module_id, permission_id, granted, granted_by, granted_at
		) VALUES ($1, $2, $3, TRUE, $4, NOW())`

	batch := &pgx.Batch{}
	for _, grant := range grants {
		if !grant.Granted {
			continue
		}
		batch.Queue(insertQuery, userID, grant.ModuleID, grant.PermissionID, grantedBy)
	}

	if batch.Len() > 0 {
		results := transaction.SendBatch(ctx, batch)
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return dberr.Wrap(err, "Grant")
			}
		}
		if err := results.Close(); err != nil {
			return dberr.Wrap(err, "Grant")
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "Grant")
	}

	return nil
}

// HasGrant reports whether the user holds the named permission on the named
// active module.
func (store *PostgresStore) HasGrant(ctx context.Context, userID, moduleName, permissionName string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM user_module_permissions g
			JOIN modules m ON m.id = g.module_id
			JOIN permissions p ON p.id = g.permission_id
			WHERE g.user_id = $1
			  AND m.name = $2
			  AND p.name = $3
			  AND g.granted = TRUE
			  AND m.is_active = TRUE
		)`

	var granted bool
	if err := store.pool.QueryRow(ctx, query, userID, moduleName, permissionName).Scan(&granted); err != nil {
		return false, dberr.Wrap(err, "Grant")
	}

	return granted, nil
}
