package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// SyncLogStore implements domain.SyncLogStore using PostgreSQL. The log is
// append-only; failed runs are recorded alongside successful ones.
type SyncLogStore struct {
	pool *pgxpool.Pool
}

// NewSyncLogStore creates a SyncLogStore backed by the given pool.
func NewSyncLogStore(pool *pgxpool.Pool) *SyncLogStore {
	return &SyncLogStore{pool: pool}
}

// Record appends one sync run.
func (s *SyncLogStore) Record(ctx context.Context, run domain.SyncRun) error {
	const query = `
		INSERT INTO sync_log (synced_by, status, version, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.pool.Exec(ctx, query,
		string(run.SyncedBy), string(run.Status), run.Version,
		run.Error, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("postgres: record sync run: %w", err)
	}
	return nil
}

// ListRecent returns sync runs newest-first.
func (s *SyncLogStore) ListRecent(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, synced_by, status, version, error, started_at, finished_at
		FROM sync_log
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		var run domain.SyncRun
		var syncedBy, status string
		if err := rows.Scan(&run.ID, &syncedBy, &status, &run.Version,
			&run.Error, &run.StartedAt, &run.FinishedAt); err != nil {
			return nil, fmt.Errorf("postgres: scan sync run: %w", err)
		}
		run.SyncedBy = domain.SyncedBy(syncedBy)
		run.Status = domain.SyncStatus(status)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list sync runs rows: %w", err)
	}
	return runs, nil
}
