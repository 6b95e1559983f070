package role

import (
	"context"

	"customercare/internal/apperr"
)

type StoreAPI interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id int64) (*Role, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Insert(ctx context.Context, name string) (int64, error)
	UpdateName(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
	FindPermissionsByIDs(ctx context.Context, ids []int64) ([]Permission, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
}

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) GetAllRoles(ctx context.Context) ([]Role, error) {
	return s.store.List(ctx)
}

func (s *Service) GetRoleByID(ctx context.Context, id int64) (*Role, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.store.ListPermissions(ctx)
}

// SaveRole creates a role. Submitted permissions are resolved by id; ids that
// do not exist are dropped by the lookup, and an absent list means an empty
// permission set.
func (s *Service) SaveRole(ctx context.Context, r Role) (*Role, error) {
	perms, err := s.resolvePermissions(ctx, r.Permissions)
	if err != nil {
		return nil, err
	}

	id, err := s.store.Insert(ctx, r.Name)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplacePermissions(ctx, id, permissionIDs(perms)); err != nil {
		return nil, err
	}

	r.ID = id
	r.Permissions = perms
	return &r, nil
}

// UpdateRole renames the role and replaces its permission set.
func (s *Service) UpdateRole(ctx context.Context, r Role) (*Role, error) {
	existing, err := s.store.Get(ctx, r.ID)
	if err != nil {
		return nil, err
	}

	perms, err := s.resolvePermissions(ctx, r.Permissions)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateName(ctx, existing.ID, r.Name); err != nil {
		return nil, err
	}
	if err := s.store.ReplacePermissions(ctx, existing.ID, permissionIDs(perms)); err != nil {
		return nil, err
	}

	existing.Name = r.Name
	existing.Permissions = perms
	return existing, nil
}

func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	exists, err := s.store.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Role not found with id %d", id)
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) resolvePermissions(ctx context.Context, submitted []Permission) ([]Permission, error) {
	if len(submitted) == 0 {
		return []Permission{}, nil
	}
	return s.store.FindPermissionsByIDs(ctx, permissionIDs(submitted))
}

func permissionIDs(perms []Permission) []int64 {
	ids := make([]int64, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}
	return ids
}
