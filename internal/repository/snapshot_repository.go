// Package repository persists upstream payload snapshots in PostgreSQL.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pranjalekhande/paddock-ai/internal/database"
	"github.com/pranjalekhande/paddock-ai/internal/models"
)

// Snapshot is one persisted upstream payload. Round is zero for
// season-level operations like standings.
type Snapshot struct {
	ID        uuid.UUID
	Operation string
	Season    int
	Round     int
	Source    string
	Payload   []byte
	FetchedAt time.Time
}

// SnapshotRepository defines operations for persisted data snapshots
type SnapshotRepository interface {
	// Save upserts the snapshot for (operation, season, round)
	Save(ctx context.Context, operation string, season, round int, source string, payload interface{}) error

	// Load retrieves the snapshot for (operation, season, round)
	Load(ctx context.Context, operation string, season, round int) (*Snapshot, error)

	// DeleteOlderThan removes snapshots fetched before the cutoff
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Save upserts the snapshot for (operation, season, round)
func (r *PostgresSnapshotRepository) Save(ctx context.Context, operation string, season, round int, source string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot payload: %w", err)
	}

	query := `
		INSERT INTO data_snapshots (id, operation, season, round, source, payload, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (operation, season, round)
		DO UPDATE SET source = EXCLUDED.source, payload = EXCLUDED.payload, fetched_at = EXCLUDED.fetched_at
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		uuid.New(), operation, season, round, source, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Load retrieves the snapshot for (operation, season, round)
func (r *PostgresSnapshotRepository) Load(ctx context.Context, operation string, season, round int) (*Snapshot, error) {
	query := `
		SELECT id, operation, season, round, source, payload, fetched_at
		FROM data_snapshots
		WHERE operation = $1 AND season = $2 AND round = $3
	`

	snapshot := &Snapshot{}
	err := r.db.GetPool().QueryRow(ctx, query, operation, season, round).Scan(
		&snapshot.ID, &snapshot.Operation, &snapshot.Season, &snapshot.Round,
		&snapshot.Source, &snapshot.Payload, &snapshot.FetchedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	return snapshot, nil
}

// DeleteOlderThan removes snapshots fetched before the cutoff
func (r *PostgresSnapshotRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.GetPool().Exec(ctx, `DELETE FROM data_snapshots WHERE fetched_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}
