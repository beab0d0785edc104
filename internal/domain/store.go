package domain

import "context"

// SnapshotStore persists versioned pricing snapshots. Save must atomically
// deactivate the prior active snapshot and insert the new one as active, so
// readers never observe zero or two active snapshots.
type SnapshotStore interface {
	Save(ctx context.Context, data PricingData, syncedBy SyncedBy) (PricingSnapshot, error)
	GetActive(ctx context.Context) (PricingSnapshot, error)
	GetByVersion(ctx context.Context, version int) (PricingSnapshot, error)
	ListInfo(ctx context.Context, limit int) ([]SnapshotInfo, error)
}

// SyncLogStore persists an append-only log of sync runs.
type SyncLogStore interface {
	Record(ctx context.Context, run SyncRun) error
	ListRecent(ctx context.Context, limit int) ([]SyncRun, error)
}
