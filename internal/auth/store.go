package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	EmployeeID   *int64 `json:"employeeId,omitempty"`
	RoleID       *int64 `json:"roleId,omitempty"`
	RoleName     string `json:"roleName,omitempty"`
}

var ErrUserNotFound = errors.New("user not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT u.id, u.email, u.password_hash, u.employee_id, u.role_id, COALESCE(r.name, '')
    FROM users u
    LEFT JOIN role r ON r.id = u.role_id
    WHERE u.email = $1
  `, email)

	var user User
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.EmployeeID, &user.RoleID, &user.RoleName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Create(ctx context.Context, email, passwordHash string, employeeID, roleID *int64) (int64, error) {
	var id int64
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, employee_id, role_id)
    VALUES ($1, $2, $3, $4)
    RETURNING id
  `, email, passwordHash, employeeID, roleID).Scan(&id)
	return id, err
}
