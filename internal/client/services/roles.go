package services

import (
	"context"
	"fmt"
	"time"

	"granja/internal/client/models"
	"granja/internal/client/store"
	"granja/internal/common"
	"granja/internal/logging"
)

// RolesService manages role/permission assignments. Roles and permissions
// themselves are pull-only reference data; only the assignments are edited
// locally.
type RolesService struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewRolesService(st *store.Store, log logging.Logger) *RolesService {
	return &RolesService{store: st, log: log.With("component", "roles"), now: time.Now}
}

// GrantPermission assigns a permission to a role. Granting an existing live
// assignment is a no-op.
func (s *RolesService) GrantPermission(ctx context.Context, roleID, permissionID string) error {
	now := s.now().UTC()
	return s.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		role, err := tx.Get(ctx, "roles", roleID)
		if err != nil {
			return err
		}
		if role == nil || !alive(role) {
			return fmt.Errorf("%w: role %s", common.ErrNotFound, roleID)
		}
		perm, err := tx.Get(ctx, "permissions", permissionID)
		if err != nil {
			return err
		}
		if perm == nil || !alive(perm) {
			return fmt.Errorf("%w: permission %s", common.ErrNotFound, permissionID)
		}

		existing, err := s.assignments(ctx, tx, roleID, permissionID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		fields, err := models.Fields(models.RolePermission{RoleID: roleID, PermissionID: permissionID})
		if err != nil {
			return err
		}
		return tx.Put(ctx, "role_permissions", newPending(fields, now))
	})
}

// RevokePermission soft-deletes a role's assignment. Revoking something not
// granted is a no-op.
func (s *RolesService) RevokePermission(ctx context.Context, roleID, permissionID string) error {
	now := s.now().UTC()
	return s.store.WithTx(ctx, func(ctx context.Context, tx *store.Tx) error {
		existing, err := s.assignments(ctx, tx, roleID, permissionID)
		if err != nil {
			return err
		}
		for _, rec := range existing {
			rec.DeletedAt = &now
			touchPending(rec, now)
			if err := tx.Put(ctx, "role_permissions", rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// PermissionsForRole lists a role's live assignment records.
func (s *RolesService) PermissionsForRole(ctx context.Context, roleID string) ([]*store.Record, error) {
	return s.store.Query(ctx, "role_permissions", func(r *store.Record) bool {
		return alive(r) && r.Field("role_id") == roleID
	})
}

func (s *RolesService) assignments(ctx context.Context, tx *store.Tx, roleID, permissionID string) ([]*store.Record, error) {
	return tx.Query(ctx, "role_permissions", func(r *store.Record) bool {
		return alive(r) &&
			r.Field("role_id") == roleID &&
			r.Field("permission_id") == permissionID
	})
}
