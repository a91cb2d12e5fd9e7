package database

import (
	"context"
	"fmt"

	"github.com/pranjalekhande/paddock-ai/internal/config"
)

// Initialize creates a database connection pool and ensures the snapshot
// schema exists.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ensureSchema creates the snapshot table if it is missing. The table holds
// one JSONB payload per (operation, season, round), upserted on refresh.
func ensureSchema(ctx context.Context, db *DB) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS data_snapshots (
			id          UUID PRIMARY KEY,
			operation   TEXT NOT NULL,
			season      INT NOT NULL,
			round       INT NOT NULL DEFAULT 0,
			source      TEXT NOT NULL,
			payload     JSONB NOT NULL,
			fetched_at  TIMESTAMPTZ NOT NULL,
			UNIQUE (operation, season, round)
		)
	`
	if _, err := db.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure snapshot schema: %w", err)
	}
	return nil
}
