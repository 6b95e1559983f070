package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customercare/internal/apperr"
	"customercare/internal/domain/position"
	"customercare/internal/domain/role"
)

// Store persists employee aggregates with plain SQL. Shared position_salary
// and role rows are read-then-used without locking; concurrent updates to a
// shared row are left to the transaction isolation level.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const selectEmployeeSQL = `
    SELECT e.id, e.name,
           COALESCE(e.private_email, ''), COALESCE(e.cpf, ''), COALESCE(e.phone, ''),
           e.birth_date, COALESCE(e.gender, ''), COALESCE(e.other_information, ''),
           COALESCE(e.photo_name, ''), COALESCE(e.photo_address, ''),
           e.hire_date, COALESCE(e.company_email, ''),
           e.created_at, e.updated_at,
           ps.id, ps.position, ps.salary, ps.commission,
           r.id, r.name
    FROM employee e
    JOIN position_salary ps ON ps.id = e.position_salary_id
    LEFT JOIN role r ON r.id = ps.role_id`

func (s *Store) Get(ctx context.Context, id int64) (*Employee, error) {
	row := s.DB.QueryRow(ctx, selectEmployeeSQL+" WHERE e.id = $1", id)
	emp, err := scanEmployee(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Employee not found with id %d", id)
	}
	if err != nil {
		return nil, err
	}

	deps, err := s.dependentsFor(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	emp.Dependents = deps
	return &emp, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, selectEmployeeSQL+`
    ORDER BY e.name
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	out, err := scanEmployees(rows)
	if err != nil {
		return nil, err
	}
	return s.fillDependents(ctx, out)
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employee").Scan(&count)
	return count, err
}

func (s *Store) ListByPosition(ctx context.Context, positionTitle string) ([]Employee, error) {
	rows, err := s.DB.Query(ctx, selectEmployeeSQL+`
    WHERE ps.position = $1
    ORDER BY e.name
  `, positionTitle)
	if err != nil {
		return nil, err
	}
	out, err := scanEmployees(rows)
	if err != nil {
		return nil, err
	}
	return s.fillDependents(ctx, out)
}

func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var count int
	if err := s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM employee WHERE id = $1", id).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes the employee row; dependents cascade with it.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM employee WHERE id = $1", id)
	return err
}

func (s *Store) BeginSave(ctx context.Context) (SaveTx, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &saveTx{tx: tx}, nil
}

type saveTx struct {
	tx pgx.Tx
}

func (t *saveTx) ResolvePositionSalary(ctx context.Context, ref position.Ref) (*position.PositionSalary, error) {
	return position.ResolveTx(ctx, t.tx, ref)
}

func (t *saveTx) InsertAggregate(ctx context.Context, emp *Employee) (*Employee, error) {
	err := t.tx.QueryRow(ctx, `
    INSERT INTO employee (name, private_email, cpf, phone, birth_date, gender, other_information,
      photo_name, photo_address, hire_date, company_email, position_salary_id)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
    RETURNING id, created_at, updated_at
  `,
		emp.Name, nullIfEmpty(emp.PrivateEmail), nullIfEmpty(emp.CPF), nullIfEmpty(emp.Phone),
		emp.BirthDate, nullIfEmpty(emp.Gender), nullIfEmpty(emp.OtherInformation),
		nullIfEmpty(emp.PhotoName), nullIfEmpty(emp.PhotoAddress),
		emp.HireDate, nullIfEmpty(emp.CompanyEmail), emp.PositionSalary.ID,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for i := range emp.Dependents {
		dep := &emp.Dependents[i]
		dep.EmployeeID = emp.ID
		if err := t.insertDependent(ctx, dep); err != nil {
			return nil, err
		}
	}
	return emp, nil
}

// UpdateAggregate overwrites the employee row and reconciles the dependent
// list: submitted dependents with ids are updated, ones without ids are
// inserted, stored dependents missing from the submission are removed
// (orphan removal).
func (t *saveTx) UpdateAggregate(ctx context.Context, emp *Employee) (*Employee, error) {
	cmd, err := t.tx.Exec(ctx, `
    UPDATE employee
    SET name = $1, private_email = $2, cpf = $3, phone = $4, birth_date = $5,
        gender = $6, other_information = $7, photo_name = COALESCE($8, photo_name),
        photo_address = COALESCE($9, photo_address), hire_date = $10,
        company_email = $11, position_salary_id = $12, updated_at = now()
    WHERE id = $13
  `,
		emp.Name, nullIfEmpty(emp.PrivateEmail), nullIfEmpty(emp.CPF), nullIfEmpty(emp.Phone),
		emp.BirthDate, nullIfEmpty(emp.Gender), nullIfEmpty(emp.OtherInformation),
		nullIfEmpty(emp.PhotoName), nullIfEmpty(emp.PhotoAddress),
		emp.HireDate, nullIfEmpty(emp.CompanyEmail), emp.PositionSalary.ID, emp.ID,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, apperr.NotFound("Employee not found with id %d", emp.ID)
	}

	keep := make([]int64, 0, len(emp.Dependents))
	for i := range emp.Dependents {
		if emp.Dependents[i].ID != 0 {
			keep = append(keep, emp.Dependents[i].ID)
		}
	}
	if _, err := t.tx.Exec(ctx,
		"DELETE FROM dependent WHERE employee_id = $1 AND NOT (id = ANY($2))",
		emp.ID, keep,
	); err != nil {
		return nil, err
	}

	for i := range emp.Dependents {
		dep := &emp.Dependents[i]
		dep.EmployeeID = emp.ID
		if dep.ID == 0 {
			if err := t.insertDependent(ctx, dep); err != nil {
				return nil, err
			}
			continue
		}
		if err := t.updateDependent(ctx, dep); err != nil {
			return nil, err
		}
	}
	return emp, nil
}

func (t *saveTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *saveTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *saveTx) insertDependent(ctx context.Context, dep *Dependent) error {
	return t.tx.QueryRow(ctx, `
    INSERT INTO dependent (employee_id, name, private_email, cpf, phone, birth_date, gender,
      other_information, relationship, photo_name, photo_address)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id
  `,
		dep.EmployeeID, dep.Name, nullIfEmpty(dep.PrivateEmail), nullIfEmpty(dep.CPF),
		nullIfEmpty(dep.Phone), dep.BirthDate, nullIfEmpty(dep.Gender),
		nullIfEmpty(dep.OtherInformation), string(*dep.Relationship),
		nullIfEmpty(dep.PhotoName), nullIfEmpty(dep.PhotoAddress),
	).Scan(&dep.ID)
}

func (t *saveTx) updateDependent(ctx context.Context, dep *Dependent) error {
	_, err := t.tx.Exec(ctx, `
    UPDATE dependent
    SET name = $1, private_email = $2, cpf = $3, phone = $4, birth_date = $5, gender = $6,
        other_information = $7, relationship = $8,
        photo_name = COALESCE($9, photo_name), photo_address = COALESCE($10, photo_address)
    WHERE id = $11 AND employee_id = $12
  `,
		dep.Name, nullIfEmpty(dep.PrivateEmail), nullIfEmpty(dep.CPF), nullIfEmpty(dep.Phone),
		dep.BirthDate, nullIfEmpty(dep.Gender), nullIfEmpty(dep.OtherInformation),
		string(*dep.Relationship), nullIfEmpty(dep.PhotoName), nullIfEmpty(dep.PhotoAddress),
		dep.ID, dep.EmployeeID,
	)
	return err
}

func (s *Store) fillDependents(ctx context.Context, employees []Employee) ([]Employee, error) {
	for i := range employees {
		deps, err := s.dependentsFor(ctx, s.DB, employees[i].ID)
		if err != nil {
			return nil, err
		}
		employees[i].Dependents = deps
	}
	return employees, nil
}

func (s *Store) dependentsFor(ctx context.Context, q position.Querier, employeeID int64) ([]Dependent, error) {
	rows, err := q.Query(ctx, `
    SELECT id, employee_id, name,
           COALESCE(private_email, ''), COALESCE(cpf, ''), COALESCE(phone, ''),
           birth_date, COALESCE(gender, ''), COALESCE(other_information, ''),
           relationship, COALESCE(photo_name, ''), COALESCE(photo_address, '')
    FROM dependent
    WHERE employee_id = $1
    ORDER BY id
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Dependent{}
	for rows.Next() {
		var dep Dependent
		var rel string
		if err := rows.Scan(
			&dep.ID, &dep.EmployeeID, &dep.Name,
			&dep.PrivateEmail, &dep.CPF, &dep.Phone,
			&dep.BirthDate, &dep.Gender, &dep.OtherInformation,
			&rel, &dep.PhotoName, &dep.PhotoAddress,
		); err != nil {
			return nil, err
		}
		relType := RelationshipType(rel)
		dep.Relationship = &relType
		out = append(out, dep)
	}
	return out, rows.Err()
}

func scanEmployees(rows pgx.Rows) ([]Employee, error) {
	defer rows.Close()
	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	var psID int64
	var ps position.PositionSalary
	var roleID *int64
	var roleName *string
	err := row.Scan(
		&emp.ID, &emp.Name,
		&emp.PrivateEmail, &emp.CPF, &emp.Phone,
		&emp.BirthDate, &emp.Gender, &emp.OtherInformation,
		&emp.PhotoName, &emp.PhotoAddress,
		&emp.HireDate, &emp.CompanyEmail,
		&emp.CreatedAt, &emp.UpdatedAt,
		&psID, &ps.Position, &ps.Salary, &ps.Commission,
		&roleID, &roleName,
	)
	if err != nil {
		return Employee{}, err
	}
	ps.ID = &psID
	if roleID != nil {
		name := ""
		if roleName != nil {
			name = *roleName
		}
		ps.Role = &role.Role{ID: *roleID, Name: name}
	}
	emp.PositionSalary = &ps
	return emp, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
