// Package pipeline runs the background sync loops: the periodic sheet sync
// and the pub/sub listener that keeps per-instance caches fresh.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/service"
)

// Scheduler drives periodic pricing syncs and listens for snapshot commit
// signals from other instances.
type Scheduler struct {
	sync     *service.SyncService
	cache    domain.SnapshotCache
	bus      domain.SignalBus
	interval time.Duration
	trigger  chan domain.SyncedBy
	logger   *slog.Logger
}

// NewScheduler creates a Scheduler. interval <= 0 disables the periodic loop;
// manual triggers still work.
func NewScheduler(
	sync *service.SyncService,
	cache domain.SnapshotCache,
	bus domain.SignalBus,
	interval time.Duration,
	logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		sync:     sync,
		cache:    cache,
		bus:      bus,
		interval: interval,
		trigger:  make(chan domain.SyncedBy, 1),
		logger:   logger,
	}
}

// Trigger requests an immediate sync run outside the periodic schedule. It
// never blocks; when a trigger is already pending the two collapse into one
// run.
func (s *Scheduler) Trigger(syncedBy domain.SyncedBy) {
	select {
	case s.trigger <- syncedBy:
	default:
	}
}

// Run starts the sync loop and the invalidation listener and blocks until ctx
// is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("pricing scheduler starting",
		slog.Duration("interval", s.interval),
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := s.runSyncLoop(ctx)
		if ctx.Err() != nil {
			return nil // clean shutdown
		}
		return fmt.Errorf("sync loop: %w", err)
	})

	g.Go(func() error {
		err := s.runInvalidationListener(ctx)
		if ctx.Err() != nil {
			return nil // clean shutdown
		}
		return fmt.Errorf("invalidation listener: %w", err)
	})

	err := g.Wait()
	if err != nil {
		s.logger.Error("pricing scheduler stopped with error", slog.String("error", err.Error()))
		return err
	}

	s.logger.Info("pricing scheduler stopped cleanly")
	return nil
}

// runSyncLoop syncs once at startup, then on every tick and every manual
// trigger. Individual sync failures are logged and the loop keeps going; the
// active snapshot stays live throughout.
func (s *Scheduler) runSyncLoop(ctx context.Context) error {
	s.runOnce(ctx, domain.SyncedByCron)

	var tick <-chan time.Time
	if s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			s.runOnce(ctx, domain.SyncedByCron)
		case syncedBy := <-s.trigger:
			s.runOnce(ctx, syncedBy)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, syncedBy domain.SyncedBy) {
	snap, err := s.sync.Sync(ctx, syncedBy)
	switch {
	case errors.Is(err, domain.ErrSyncInFlight):
		s.logger.Info("sync skipped, another run in flight",
			slog.String("synced_by", string(syncedBy)),
		)
	case err != nil:
		// Already logged with detail by the sync service.
	default:
		s.logger.Info("scheduled sync done", slog.Int("version", snap.Version))
	}
}

// runInvalidationListener subscribes to snapshot commit signals and drops the
// local cache entry so the next read picks up the new version immediately
// instead of waiting out the TTL.
func (s *Scheduler) runInvalidationListener(ctx context.Context) error {
	messages, err := s.bus.Subscribe(ctx, service.SnapshotChannel)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", service.SnapshotChannel, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return ctx.Err()
			}
			if err := s.cache.Invalidate(ctx); err != nil {
				s.logger.Warn("cache invalidation on signal failed",
					slog.String("error", err.Error()),
				)
				continue
			}
			s.logger.Debug("cache invalidated on snapshot signal",
				slog.String("payload", string(msg)),
			)
		}
	}
}
