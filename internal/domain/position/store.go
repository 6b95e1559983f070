package position

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"customercare/internal/apperr"
	"customercare/internal/domain/role"
)

// Querier is the subset of pgx shared by pools and transactions, so the
// resolver can run inside whatever transaction the caller holds.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]PositionSalary, error) {
	rows, err := s.DB.Query(ctx, selectPositionSQL+`
    ORDER BY ps.position
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []PositionSalary{}
	for rows.Next() {
		ps, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM position_salary").Scan(&count)
	return count, err
}

func (s *Store) Get(ctx context.Context, id int64) (*PositionSalary, error) {
	return GetTx(ctx, s.DB, id)
}

func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM position_salary WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM position_salary WHERE id = $1", id)
	return err
}

func (s *Store) Begin(ctx context.Context) (pgx.Tx, error) {
	return s.DB.Begin(ctx)
}

const selectPositionSQL = `
    SELECT ps.id, ps.position, ps.salary, ps.commission,
           r.id, r.name
    FROM position_salary ps
    LEFT JOIN role r ON r.id = ps.role_id`

// GetTx looks a position salary up by id on the given querier.
func GetTx(ctx context.Context, q Querier, id int64) (*PositionSalary, error) {
	row := q.QueryRow(ctx, selectPositionSQL+" WHERE ps.id = $1", id)
	ps, err := scanPosition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("PositionSalary not found")
	}
	if err != nil {
		return nil, err
	}
	return &ps, nil
}

// InsertTx persists a new position salary row and returns it with the
// assigned identifier. The role, when present, must already carry its id.
func InsertTx(ctx context.Context, q Querier, ps PositionSalary) (*PositionSalary, error) {
	var roleID *int64
	if ps.Role != nil && ps.Role.ID != 0 {
		roleID = &ps.Role.ID
	}

	var id int64
	err := q.QueryRow(ctx, `
    INSERT INTO position_salary (position, salary, commission, role_id)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, ps.Position, ps.Salary, ps.Commission, roleID).Scan(&id)
	if err != nil {
		return nil, err
	}
	ps.ID = &id
	return &ps, nil
}

// UpdateTx overwrites an existing position salary row.
func UpdateTx(ctx context.Context, q Querier, ps PositionSalary) error {
	var roleID *int64
	if ps.Role != nil && ps.Role.ID != 0 {
		roleID = &ps.Role.ID
	}
	tag, err := q.Exec(ctx, `
    UPDATE position_salary
    SET position = $1, salary = $2, commission = $3, role_id = $4
    WHERE id = $5
  `, ps.Position, ps.Salary, ps.Commission, roleID, *ps.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Position not found with id %d", *ps.ID)
	}
	return nil
}

// ResolveRoleTx applies the merge-or-create contract for a role reference.
func ResolveRoleTx(ctx context.Context, q Querier, ref RoleRef) (*role.Role, error) {
	if id, ok := ref.Existing(); ok {
		var r role.Role
		err := q.QueryRow(ctx, "SELECT id, name FROM role WHERE id = $1", id).Scan(&r.ID, &r.Name)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Role not found")
		}
		if err != nil {
			return nil, err
		}
		return &r, nil
	}

	payload, _ := ref.Payload()
	err := q.QueryRow(ctx, "INSERT INTO role (name) VALUES ($1) RETURNING id", payload.Name).Scan(&payload.ID)
	if err != nil {
		return nil, err
	}
	return &payload, nil
}

// ResolveTx applies the merge-or-create contract for a position salary
// reference: no identifier persists the payload (resolving its role first),
// an identifier attaches to the stored row and discards the payload fields.
func ResolveTx(ctx context.Context, q Querier, ref Ref) (*PositionSalary, error) {
	if id, ok := ref.Existing(); ok {
		return GetTx(ctx, q, id)
	}

	payload, _ := ref.Payload()
	if payload.Role != nil {
		resolved, err := ResolveRoleTx(ctx, q, NewRoleRef(*payload.Role))
		if err != nil {
			return nil, err
		}
		payload.Role = resolved
	}
	return InsertTx(ctx, q, payload)
}

func scanPosition(row pgx.Row) (PositionSalary, error) {
	var ps PositionSalary
	var id int64
	var roleID *int64
	var roleName *string
	if err := row.Scan(&id, &ps.Position, &ps.Salary, &ps.Commission, &roleID, &roleName); err != nil {
		return PositionSalary{}, err
	}
	ps.ID = &id
	if roleID != nil {
		name := ""
		if roleName != nil {
			name = *roleName
		}
		ps.Role = &role.Role{ID: *roleID, Name: name}
	}
	return ps, nil
}
