package role

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customercare/internal/apperr"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context) ([]Role, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM role ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	for i := range out {
		perms, err := s.permissionsForRole(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Permissions = perms
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (*Role, error) {
	var r Role
	err := s.DB.QueryRow(ctx, "SELECT id, name FROM role WHERE id = $1", id).Scan(&r.ID, &r.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Role not found with id %d", id)
	}
	if err != nil {
		return nil, err
	}

	perms, err := s.permissionsForRole(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Permissions = perms
	return &r, nil
}

func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM role WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Insert(ctx context.Context, name string) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, "INSERT INTO role (name) VALUES ($1) RETURNING id", name).Scan(&id)
	return id, err
}

func (s *Store) UpdateName(ctx context.Context, id int64, name string) error {
	cmd, err := s.DB.Exec(ctx, "UPDATE role SET name = $1 WHERE id = $2", name, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperr.NotFound("Role not found with id %d", id)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM role WHERE id = $1", id)
	return err
}

// FindPermissionsByIDs returns the permissions matching the given ids.
// Unknown ids are simply absent from the result.
func (s *Store) FindPermissionsByIDs(ctx context.Context, ids []int64) ([]Permission, error) {
	if len(ids) == 0 {
		return []Permission{}, nil
	}
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM permission WHERE id = ANY($1) ORDER BY id", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

func (s *Store) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := s.DB.Query(ctx, "SELECT id, name FROM permission ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

// ReplacePermissions swaps the role's permission set for the given ids.
func (s *Store) ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM role_permissions WHERE role_id = $1", roleID); err != nil {
		return err
	}
	for _, permID := range permissionIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO role_permissions (role_id, permission_id)
      VALUES ($1, $2)
      ON CONFLICT DO NOTHING
    `, roleID, permID); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) permissionsForRole(ctx context.Context, roleID int64) ([]Permission, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT p.id, p.name
    FROM role_permissions rp
    JOIN permission p ON p.id = rp.permission_id
    WHERE rp.role_id = $1
    ORDER BY p.name
  `, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPermissions(rows)
}

func scanPermissions(rows pgx.Rows) ([]Permission, error) {
	out := []Permission{}
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
