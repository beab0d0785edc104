// Package service contains the application services: quote computation over
// the active snapshot and the sheet-to-snapshot sync pipeline.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/pricing"
)

// QuoteService answers all pricing reads from the active snapshot. Reads go
// cache first, store second; they never touch the spreadsheet and never block
// on a running sync.
type QuoteService struct {
	store  domain.SnapshotStore
	cache  domain.SnapshotCache
	logger *slog.Logger
}

// NewQuoteService creates a QuoteService with all required dependencies.
func NewQuoteService(store domain.SnapshotStore, cache domain.SnapshotCache, logger *slog.Logger) *QuoteService {
	return &QuoteService{store: store, cache: cache, logger: logger}
}

// ActiveSnapshot returns the active snapshot, read-through cached. Cache
// errors degrade to store reads; only a store miss surfaces as
// ErrNoActiveSnapshot.
func (s *QuoteService) ActiveSnapshot(ctx context.Context) (domain.PricingSnapshot, error) {
	snap, err := s.cache.Get(ctx)
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		s.logger.WarnContext(ctx, "quote_service: snapshot cache read failed",
			slog.String("error", err.Error()),
		)
	}

	snap, err = s.store.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSnapshot) {
			return domain.PricingSnapshot{}, domain.ErrNoActiveSnapshot
		}
		return domain.PricingSnapshot{}, fmt.Errorf("quote_service: get active snapshot: %w", err)
	}

	if cacheErr := s.cache.Set(ctx, snap); cacheErr != nil {
		s.logger.WarnContext(ctx, "quote_service: snapshot cache write failed",
			slog.Int("version", snap.Version),
			slog.String("error", cacheErr.Error()),
		)
	}
	return snap, nil
}

// GetPricingData returns the active snapshot's full pricing payload.
func (s *QuoteService) GetPricingData(ctx context.Context) (domain.PricingData, error) {
	snap, err := s.ActiveSnapshot(ctx)
	if err != nil {
		return domain.PricingData{}, err
	}
	return snap.Data, nil
}

// GetPricingDataInfo returns the active snapshot's metadata without the
// payload.
func (s *QuoteService) GetPricingDataInfo(ctx context.Context) (domain.SnapshotInfo, error) {
	snap, err := s.ActiveSnapshot(ctx)
	if err != nil {
		return domain.SnapshotInfo{}, err
	}
	return snap.Info(), nil
}

// ListVersions returns snapshot metadata newest-first.
func (s *QuoteService) ListVersions(ctx context.Context, limit int) ([]domain.SnapshotInfo, error) {
	infos, err := s.store.ListInfo(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("quote_service: list versions: %w", err)
	}
	return infos, nil
}

// CalculateTotalPrice prices a configuration against the active snapshot.
func (s *QuoteService) CalculateTotalPrice(ctx context.Context, cfg domain.Configuration) (domain.PriceQuoteResult, error) {
	snap, err := s.ActiveSnapshot(ctx)
	if err != nil {
		return domain.PriceQuoteResult{}, err
	}
	return pricing.NewCalculator(snap.Data).Quote(cfg)
}

// GetFensterPricePerSqm returns the per-m² display price of one window
// combination against the active snapshot.
func (s *QuoteService) GetFensterPricePerSqm(ctx context.Context, material domain.FensterMaterial, size domain.NestSize, tier domain.LightingTier) (float64, error) {
	if !material.Valid() || !size.Valid() || !tier.Valid() {
		return 0, fmt.Errorf("quote_service: fenster %s/%s/%s: %w", material, size, tier, domain.ErrUnknownOption)
	}
	snap, err := s.ActiveSnapshot(ctx)
	if err != nil {
		return 0, err
	}
	return pricing.NewCalculator(snap.Data).FensterPricePerSqm(material, size, tier), nil
}

// OptionDelta returns the switching cost between two options of one category
// against the active snapshot.
func (s *QuoteService) OptionDelta(ctx context.Context, category domain.Category, size domain.NestSize, from, to domain.OptionKey) (float64, bool, error) {
	snap, err := s.ActiveSnapshot(ctx)
	if err != nil {
		return 0, false, err
	}
	return pricing.NewCalculator(snap.Data).OptionDelta(category, size, from, to)
}
