package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"customercare/internal/auth"
	"customercare/internal/platform/config"
)

var defaultPermissions = []string{
	"employees:read",
	"employees:write",
	"customers:read",
	"customers:write",
	"tickets:read",
	"tickets:write",
	"roles:manage",
}

// Seed is idempotent; it only fills in what is missing.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePermissions(ctx, pool); err != nil {
		return err
	}

	adminRoleID, err := ensureAdminRole(ctx, pool)
	if err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPass != "" {
		if err := ensureAdminUser(ctx, pool, adminRoleID, cfg.SeedAdminEmail, cfg.SeedAdminPass); err != nil {
			return err
		}
	}
	return nil
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, name := range defaultPermissions {
		if _, err := pool.Exec(ctx, "INSERT INTO permission (name) VALUES ($1) ON CONFLICT (name) DO NOTHING", name); err != nil {
			return err
		}
	}
	return nil
}

func ensureAdminRole(ctx context.Context, pool *pgxpool.Pool) (int64, error) {
	var id int64
	err := pool.QueryRow(ctx, "SELECT id FROM role WHERE name = 'ADMIN'").Scan(&id)
	if err == pgx.ErrNoRows {
		err = pool.QueryRow(ctx, "INSERT INTO role (name) VALUES ('ADMIN') RETURNING id").Scan(&id)
	}
	if err != nil {
		return 0, err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO role_permissions (role_id, permission_id)
    SELECT $1, id FROM permission
    ON CONFLICT DO NOTHING
  `, id)
	return id, err
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, roleID int64, email, password string) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, "INSERT INTO users (email, password_hash, role_id) VALUES ($1, $2, $3)", email, hash, roleID)
	return err
}
