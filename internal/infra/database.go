package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dualspace/launcher/internal/profile"
)

// NewPostgresPool connects to PostgreSQL and verifies the connection.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	if url == "" {
		return nil, fmt.Errorf("database url is required")
	}

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return pool, nil
}

// NewPostgresProfiles connects and prepares the profiles table.
func NewPostgresProfiles(ctx context.Context, url string) (*pgxpool.Pool, *profile.PostgresRepository, error) {
	pool, err := NewPostgresPool(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	repo := profile.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ensure profiles schema: %w", err)
	}
	return pool, repo, nil
}

// NewSQLiteProfiles opens the on-device profile database.
func NewSQLiteProfiles(path string) (*profile.SQLiteRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	repo, err := profile.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite profiles: %w", err)
	}
	return repo, nil
}
