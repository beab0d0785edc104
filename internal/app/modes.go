package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/pipeline"
	"github.com/stenkjan/nest-haus-sub005/internal/server"
	"github.com/stenkjan/nest-haus-sub005/internal/server/handler"
	"github.com/stenkjan/nest-haus-sub005/internal/service"
)

// ServerMode starts the HTTP API without the periodic sync loop. Snapshots
// still refresh through the manual trigger route and through invalidation
// signals published by other instances.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)

	quoteSvc, syncSvc := a.buildServices(deps)

	// Invalidation listener: drop the local cache entry whenever any instance
	// commits a new snapshot.
	g.Go(func() error {
		ch, err := deps.SignalBus.Subscribe(ctx, service.SnapshotChannel)
		if err != nil {
			return fmt.Errorf("server mode: subscribe %s: %w", service.SnapshotChannel, err)
		}
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-ch:
				if !ok {
					return nil
				}
				if err := deps.SnapshotCache.Invalidate(ctx); err != nil {
					a.logger.WarnContext(ctx, "cache invalidation failed",
						slog.String("error", err.Error()),
					)
				}
			}
		}
	})

	a.startHTTPServer(ctx, g, deps, quoteSvc, syncSvc)

	return g.Wait()
}

// SyncMode runs a single sync pass and exits. Intended for cron-style
// deployments where the schedule lives outside the process.
func (a *App) SyncMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting sync mode")

	_, syncSvc := a.buildServices(deps)

	snap, err := syncSvc.Sync(ctx, domain.SyncedByManual)
	if err != nil {
		return fmt.Errorf("sync mode: %w", err)
	}

	a.logger.InfoContext(ctx, "sync committed",
		slog.Int("version", snap.Version),
		slog.Time("synced_at", snap.SyncedAt),
	)
	return nil
}

// FullMode starts the HTTP API plus the periodic sync scheduler.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)

	quoteSvc, syncSvc := a.buildServices(deps)

	sched := pipeline.NewScheduler(
		syncSvc,
		deps.SnapshotCache,
		deps.SignalBus,
		a.cfg.Sync.Interval.Duration,
		a.logger,
	)
	g.Go(func() error {
		return sched.Run(ctx)
	})

	if a.cfg.Server.Enabled {
		a.startHTTPServer(ctx, g, deps, quoteSvc, syncSvc)
	}

	return g.Wait()
}

// buildServices constructs the quote and sync services from wired
// dependencies.
func (a *App) buildServices(deps *Dependencies) (*service.QuoteService, *service.SyncService) {
	quoteSvc := service.NewQuoteService(deps.SnapshotStore, deps.SnapshotCache, a.logger)

	opts := service.SyncServiceOpts{
		Notifier: deps.Notifier,
		LockTTL:  a.cfg.Sync.LockTTL.Duration,
	}
	// Typed nil must not reach the interface field.
	if deps.Archiver != nil {
		opts.Archiver = deps.Archiver
	}
	syncSvc := service.NewSyncService(
		deps.GridFetcher,
		deps.SnapshotStore,
		deps.SyncLogStore,
		deps.SnapshotCache,
		deps.LockManager,
		deps.SignalBus,
		opts,
		a.logger,
	)
	return quoteSvc, syncSvc
}

// startHTTPServer adds the HTTP server plus its graceful-shutdown watcher to
// the given errgroup.
func (a *App) startHTTPServer(
	ctx context.Context,
	g *errgroup.Group,
	deps *Dependencies,
	quoteSvc *service.QuoteService,
	syncSvc *service.SyncService,
) {
	srv := server.NewServer(
		server.Config{
			Port:            a.cfg.Server.Port,
			CORSOrigins:     a.cfg.Server.CORSOrigins,
			APIKey:          a.cfg.Server.APIKey,
			RateLimit:       a.cfg.Server.RateLimit,
			RateLimitWindow: a.cfg.Server.RateLimitWindow.Duration,
		},
		server.Handlers{
			Health:  handler.NewHealthHandler(quoteSvc, a.logger),
			Pricing: handler.NewPricingHandler(quoteSvc, a.logger),
			Quote:   handler.NewQuoteHandler(quoteSvc, a.logger),
			Sync:    handler.NewSyncHandler(syncSvc, a.logger),
		},
		deps.RateLimiter,
		a.logger,
	)

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}
