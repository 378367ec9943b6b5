package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"storefront/catalog/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

const latestSnapshotID = "latest"

type SnapshotRepository interface {
	EnsureSchema(ctx context.Context) error
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error
}

type snapshotRepository struct {
	db *pgxpool.Pool
}

func NewSnapshotRepository(db *pgxpool.Pool) SnapshotRepository {
	return &snapshotRepository{
		db: db,
	}
}

func (r *snapshotRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS catalog_snapshots (
		id             TEXT PRIMARY KEY,
		total_products INTEGER NOT NULL,
		data           JSONB NOT NULL,
		generated_at   TIMESTAMPTZ NOT NULL
	)`
	if _, err := r.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure catalog_snapshots table: %w", err)
	}
	return nil
}

// SaveSnapshot replaces the stored snapshot; only the latest run is kept.
func (r *snapshotRepository) SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query := `
	INSERT INTO catalog_snapshots (id, total_products, data, generated_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id)
	DO UPDATE SET total_products = $2, data = $3, generated_at = $4`
	_, err = r.db.Exec(ctx, query, latestSnapshotID, snap.Catalog.TotalProducts, data, snap.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}
