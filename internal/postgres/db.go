package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB defines the database operations the store needs.
// It is implemented by *pgxpool.Pool and can be mocked for testing.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Connect opens a pool and verifies connectivity.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return pool, nil
}

// AutoMigrate creates the schema if it does not exist yet.
func AutoMigrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS projects (
          id               TEXT PRIMARY KEY,
          owner_id         TEXT NOT NULL,
          title            VARCHAR(32) NOT NULL,
          genre            VARCHAR(16) NOT NULL DEFAULT '',
          status           TEXT NOT NULL DEFAULT 'idle' CHECK (status IN ('idle', 'processing', 'processed')),
          number_of_tracks INT NOT NULL DEFAULT 0,
          duration_minutes INT NOT NULL DEFAULT 0 CHECK (duration_minutes >= 0),
          is_done          BOOLEAN NOT NULL DEFAULT FALSE,
          created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		return fmt.Errorf("migrate projects: %w", err)
	}

	if _, err := db.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS layout_slots (
          id          TEXT PRIMARY KEY,
          project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
          kind        TEXT NOT NULL CHECK (kind IN ('track', 'part', 'scene')),
          slot_index  INT NOT NULL CHECK (slot_index >= 1),
          label       VARCHAR(32) NOT NULL DEFAULT '',
          UNIQUE (project_id, kind, slot_index)
      )
    `); err != nil {
		return fmt.Errorf("migrate layout_slots: %w", err)
	}

	if _, err := db.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_owner_projects ON projects(owner_id)`); err != nil {
		return fmt.Errorf("migrate indexes: %w", err)
	}
	return nil
}
