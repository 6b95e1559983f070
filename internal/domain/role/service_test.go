package role

import (
	"context"
	"errors"
	"testing"

	"customercare/internal/apperr"
)

type fakeStore struct {
	roles       map[int64]*Role
	permissions map[int64]Permission
	nextID      int64
	replaced    map[int64][]int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roles:       map[int64]*Role{},
		permissions: map[int64]Permission{},
		nextID:      1,
		replaced:    map[int64][]int64{},
	}
}

func (f *fakeStore) List(ctx context.Context) ([]Role, error) {
	out := []Role{}
	for _, r := range f.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (*Role, error) {
	r, ok := f.roles[id]
	if !ok {
		return nil, apperr.NotFound("Role not found with id %d", id)
	}
	copied := *r
	return &copied, nil
}

func (f *fakeStore) Exists(ctx context.Context, id int64) (bool, error) {
	_, ok := f.roles[id]
	return ok, nil
}

func (f *fakeStore) Insert(ctx context.Context, name string) (int64, error) {
	id := f.nextID
	f.nextID++
	f.roles[id] = &Role{ID: id, Name: name}
	return id, nil
}

func (f *fakeStore) UpdateName(ctx context.Context, id int64, name string) error {
	r, ok := f.roles[id]
	if !ok {
		return apperr.NotFound("Role not found with id %d", id)
	}
	r.Name = name
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id int64) error {
	delete(f.roles, id)
	return nil
}

func (f *fakeStore) FindPermissionsByIDs(ctx context.Context, ids []int64) ([]Permission, error) {
	out := []Permission{}
	for _, id := range ids {
		if p, ok := f.permissions[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPermissions(ctx context.Context) ([]Permission, error) {
	out := []Permission{}
	for _, p := range f.permissions {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeStore) ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	f.replaced[roleID] = permissionIDs
	return nil
}

func TestSaveRoleResolvesPermissionsByID(t *testing.T) {
	store := newFakeStore()
	store.permissions[1] = Permission{ID: 1, Name: "employees:read"}
	store.permissions[2] = Permission{ID: 2, Name: "employees:write"}
	svc := NewService(store)

	saved, err := svc.SaveRole(context.Background(), Role{
		Name:        "HR",
		Permissions: []Permission{{ID: 1}, {ID: 2}, {ID: 99}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if len(saved.Permissions) != 2 {
		t.Fatalf("expected unknown permission id dropped, got %+v", saved.Permissions)
	}
	if got := store.replaced[saved.ID]; len(got) != 2 {
		t.Fatalf("expected 2 permissions persisted, got %v", got)
	}
}

func TestSaveRoleWithoutPermissionsGetsEmptySet(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	saved, err := svc.SaveRole(context.Background(), Role{Name: "SUPPORT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Permissions == nil || len(saved.Permissions) != 0 {
		t.Fatalf("expected empty permission set, got %+v", saved.Permissions)
	}
}

func TestUpdateRoleReplacesPermissionSet(t *testing.T) {
	store := newFakeStore()
	store.roles[5] = &Role{ID: 5, Name: "OLD", Permissions: []Permission{{ID: 1, Name: "a"}}}
	store.permissions[2] = Permission{ID: 2, Name: "tickets:read"}
	svc := NewService(store)

	updated, err := svc.UpdateRole(context.Background(), Role{ID: 5, Name: "NEW", Permissions: []Permission{{ID: 2}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "NEW" {
		t.Fatalf("expected renamed role, got %q", updated.Name)
	}
	if len(updated.Permissions) != 1 || updated.Permissions[0].ID != 2 {
		t.Fatalf("expected replaced permissions, got %+v", updated.Permissions)
	}
}

func TestUpdateMissingRoleFailsNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	_, err := svc.UpdateRole(context.Background(), Role{ID: 9, Name: "X"})
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestDeleteMissingRoleFailsNotFound(t *testing.T) {
	svc := NewService(newFakeStore())

	err := svc.DeleteRole(context.Background(), 3)
	var notFound *apperr.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
