package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// SnapshotStore implements domain.SnapshotStore using PostgreSQL. Snapshot
// payloads are stored as JSONB; rows are never updated after insert except to
// clear the active flag, and never deleted.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

// NewSnapshotStore creates a SnapshotStore backed by the given pool.
func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Save commits a new snapshot in one transaction: deactivate the current
// active row, then insert the new row as active with version max+1. Readers
// outside the transaction always see exactly one active snapshot.
func (s *SnapshotStore) Save(ctx context.Context, data domain.PricingData, syncedBy domain.SyncedBy) (domain.PricingSnapshot, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return domain.PricingSnapshot{}, fmt.Errorf("postgres: marshal snapshot: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.PricingSnapshot{}, fmt.Errorf("postgres: begin snapshot tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE pricing_snapshots SET active = FALSE WHERE active`,
	); err != nil {
		return domain.PricingSnapshot{}, fmt.Errorf("postgres: deactivate snapshot: %w", err)
	}

	var snap domain.PricingSnapshot
	err = tx.QueryRow(ctx, `
		INSERT INTO pricing_snapshots (version, data, synced_by, active)
		VALUES ((SELECT COALESCE(MAX(version), 0) + 1 FROM pricing_snapshots), $1, $2, TRUE)
		RETURNING version, synced_at`,
		payload, string(syncedBy),
	).Scan(&snap.Version, &snap.SyncedAt)
	if err != nil {
		return domain.PricingSnapshot{}, fmt.Errorf("postgres: insert snapshot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.PricingSnapshot{}, fmt.Errorf("postgres: commit snapshot: %w", err)
	}

	snap.Data = data
	snap.SyncedBy = syncedBy
	snap.Active = true
	return snap, nil
}

// GetActive returns the single active snapshot, or ErrNoActiveSnapshot when
// no sync has ever committed.
func (s *SnapshotStore) GetActive(ctx context.Context) (domain.PricingSnapshot, error) {
	const query = `
		SELECT version, data, synced_at, synced_by, active
		FROM pricing_snapshots WHERE active`
	return s.scanOne(ctx, query)
}

// GetByVersion returns a historical snapshot, or ErrNotFound.
func (s *SnapshotStore) GetByVersion(ctx context.Context, version int) (domain.PricingSnapshot, error) {
	const query = `
		SELECT version, data, synced_at, synced_by, active
		FROM pricing_snapshots WHERE version = $1`
	snap, err := s.scanOne(ctx, query, version)
	if errors.Is(err, domain.ErrNoActiveSnapshot) {
		return domain.PricingSnapshot{}, domain.ErrNotFound
	}
	return snap, err
}

func (s *SnapshotStore) scanOne(ctx context.Context, query string, args ...any) (domain.PricingSnapshot, error) {
	var snap domain.PricingSnapshot
	var payload []byte
	var syncedBy string

	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&snap.Version, &payload, &snap.SyncedAt, &syncedBy, &snap.Active)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PricingSnapshot{}, domain.ErrNoActiveSnapshot
	}
	if err != nil {
		return domain.PricingSnapshot{}, fmt.Errorf("postgres: query snapshot: %w", err)
	}

	if err := json.Unmarshal(payload, &snap.Data); err != nil {
		return domain.PricingSnapshot{}, fmt.Errorf("postgres: unmarshal snapshot v%d: %w", snap.Version, err)
	}
	snap.SyncedBy = domain.SyncedBy(syncedBy)
	return snap, nil
}

// ListInfo returns snapshot metadata newest-first, without payloads.
func (s *SnapshotStore) ListInfo(ctx context.Context, limit int) ([]domain.SnapshotInfo, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT version, synced_at, synced_by, active
		FROM pricing_snapshots
		ORDER BY version DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []domain.SnapshotInfo
	for rows.Next() {
		var info domain.SnapshotInfo
		var syncedBy string
		if err := rows.Scan(&info.Version, &info.SyncedAt, &syncedBy, &info.Active); err != nil {
			return nil, fmt.Errorf("postgres: scan snapshot info: %w", err)
		}
		info.SyncedBy = domain.SyncedBy(syncedBy)
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list snapshots rows: %w", err)
	}
	return infos, nil
}
