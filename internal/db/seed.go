package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"permits/internal/domain/auth"
	"permits/internal/platform/config"
)

// Seed provisions the admin account used to bootstrap a fresh install.
// Existing users keep their password; only the name is refreshed.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedAdminCode == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	var existing int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE code = $1", cfg.SeedAdminCode).Scan(&existing); err != nil {
		return err
	}
	if existing > 0 {
		_, err := pool.Exec(ctx, "UPDATE users SET name = $1, role = $2 WHERE code = $3", cfg.SeedAdminName, auth.RoleAdmin, cfg.SeedAdminCode)
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (code, name, role, password_hash)
    VALUES ($1,$2,$3,$4)
  `, cfg.SeedAdminCode, cfg.SeedAdminName, auth.RoleAdmin, hash)
	return err
}
