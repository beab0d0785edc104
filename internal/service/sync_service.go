package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/pricing"
)

// SnapshotChannel is the pub/sub channel carrying snapshot commit signals.
const SnapshotChannel = "pricing.snapshot"

// syncLockKey serializes sync runs across all instances.
const syncLockKey = "pricing-sync"

// GridArchiver uploads a raw grid for audit and replay. Archival is
// best-effort; a failed upload never fails the sync.
type GridArchiver interface {
	Archive(ctx context.Context, grid domain.Grid, version int, fetchedAt time.Time) error
}

// Notifier is the slice of the notification system the sync pipeline uses.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// SyncService runs the fetch-parse-commit pipeline. Runs are serialized by a
// distributed lock; a failed run leaves the previously active snapshot
// untouched.
type SyncService struct {
	fetcher  domain.GridFetcher
	parser   *pricing.Parser
	store    domain.SnapshotStore
	syncLog  domain.SyncLogStore
	cache    domain.SnapshotCache
	locks    domain.LockManager
	bus      domain.SignalBus
	archiver GridArchiver
	notifier Notifier
	lockTTL  time.Duration
	logger   *slog.Logger
}

// SyncServiceOpts bundles the optional collaborators. Archiver and Notifier
// may be nil; the pipeline then skips those steps.
type SyncServiceOpts struct {
	Archiver GridArchiver
	Notifier Notifier
	LockTTL  time.Duration
}

// NewSyncService creates a SyncService with all required dependencies.
func NewSyncService(
	fetcher domain.GridFetcher,
	store domain.SnapshotStore,
	syncLog domain.SyncLogStore,
	cache domain.SnapshotCache,
	locks domain.LockManager,
	bus domain.SignalBus,
	opts SyncServiceOpts,
	logger *slog.Logger,
) *SyncService {
	lockTTL := opts.LockTTL
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	return &SyncService{
		fetcher:  fetcher,
		parser:   pricing.NewParser(),
		store:    store,
		syncLog:  syncLog,
		cache:    cache,
		locks:    locks,
		bus:      bus,
		archiver: opts.Archiver,
		notifier: opts.Notifier,
		lockTTL:  lockTTL,
		logger:   logger,
	}
}

// Sync runs one full pipeline pass and returns the committed snapshot. It
// returns ErrSyncInFlight when another run holds the lock. Every run, failed
// or not, is recorded in the sync log.
func (s *SyncService) Sync(ctx context.Context, syncedBy domain.SyncedBy) (domain.PricingSnapshot, error) {
	unlock, err := s.locks.Acquire(ctx, syncLockKey, s.lockTTL)
	if err != nil {
		if errors.Is(err, domain.ErrLockHeld) {
			return domain.PricingSnapshot{}, domain.ErrSyncInFlight
		}
		return domain.PricingSnapshot{}, fmt.Errorf("sync_service: acquire lock: %w", err)
	}
	defer unlock()

	started := time.Now().UTC()
	snap, grid, err := s.run(ctx, syncedBy)
	finished := time.Now().UTC()

	run := domain.SyncRun{
		SyncedBy:   syncedBy,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if err != nil {
		run.Status = domain.SyncFailed
		run.Error = err.Error()
	} else {
		run.Status = domain.SyncSucceeded
		run.Version = snap.Version
	}
	if logErr := s.syncLog.Record(ctx, run); logErr != nil {
		s.logger.ErrorContext(ctx, "sync_service: record sync run failed",
			slog.String("error", logErr.Error()),
		)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "sync_service: sync failed",
			slog.String("synced_by", string(syncedBy)),
			slog.String("error", err.Error()),
		)
		s.notify(ctx, "sync.failed", "Pricing sync failed",
			fmt.Sprintf("Trigger: %s\nError: %v", syncedBy, err))
		return domain.PricingSnapshot{}, err
	}

	s.logger.InfoContext(ctx, "sync_service: snapshot committed",
		slog.Int("version", snap.Version),
		slog.String("synced_by", string(syncedBy)),
		slog.Duration("took", finished.Sub(started)),
	)
	s.notify(ctx, "sync.succeeded", "Pricing sync succeeded",
		fmt.Sprintf("Version %d committed (trigger: %s)", snap.Version, syncedBy))

	s.postCommit(ctx, snap, grid, started)
	return snap, nil
}

// run executes fetch, parse, and commit. Anything that fails here aborts the
// sync before the store is touched, except the commit itself.
func (s *SyncService) run(ctx context.Context, syncedBy domain.SyncedBy) (domain.PricingSnapshot, domain.Grid, error) {
	grid, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return domain.PricingSnapshot{}, nil, err
	}

	data, err := s.parser.Parse(grid)
	if err != nil {
		return domain.PricingSnapshot{}, nil, err
	}

	snap, err := s.store.Save(ctx, data, syncedBy)
	if err != nil {
		return domain.PricingSnapshot{}, nil, fmt.Errorf("sync_service: save snapshot: %w", err)
	}
	return snap, grid, nil
}

// postCommit performs the best-effort steps after a successful commit: grid
// archival, cache refresh, and the invalidation signal. None of them can fail
// the sync; the committed snapshot is already the source of truth.
func (s *SyncService) postCommit(ctx context.Context, snap domain.PricingSnapshot, grid domain.Grid, fetchedAt time.Time) {
	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, grid, snap.Version, fetchedAt); err != nil {
			s.logger.WarnContext(ctx, "sync_service: grid archive failed",
				slog.Int("version", snap.Version),
				slog.String("error", err.Error()),
			)
		}
	}

	if err := s.cache.Set(ctx, snap); err != nil {
		s.logger.WarnContext(ctx, "sync_service: cache refresh failed",
			slog.Int("version", snap.Version),
			slog.String("error", err.Error()),
		)
		// Stale cache is worse than a cold one.
		_ = s.cache.Invalidate(ctx)
	}

	evt, _ := json.Marshal(map[string]any{
		"event":   "snapshot_committed",
		"version": snap.Version,
	})
	if err := s.bus.Publish(ctx, SnapshotChannel, evt); err != nil {
		s.logger.WarnContext(ctx, "sync_service: publish snapshot signal failed",
			slog.Int("version", snap.Version),
			slog.String("error", err.Error()),
		)
	}
}

// ListRecentRuns returns the sync audit trail newest-first.
func (s *SyncService) ListRecentRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	runs, err := s.syncLog.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("sync_service: list sync runs: %w", err)
	}
	return runs, nil
}

func (s *SyncService) notify(ctx context.Context, event, title, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, title, message); err != nil {
		s.logger.WarnContext(ctx, "sync_service: notify failed",
			slog.String("event", event),
			slog.String("error", err.Error()),
		)
	}
}
