package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

func seededQuoteService(t *testing.T) (*QuoteService, *fakeSnapshotStore, *fakeCache) {
	t.Helper()
	store := &fakeSnapshotStore{}
	cache := &fakeCache{}
	sync := newSyncService(&fakeFetcher{grid: validGrid()}, store, &fakeSyncLog{}, cache, &fakeLock{}, &fakeBus{}, nil)
	if _, err := sync.Sync(context.Background(), domain.SyncedByCron); err != nil {
		t.Fatalf("seed sync: %v", err)
	}
	return NewQuoteService(store, cache, discardLogger()), store, cache
}

func TestQuoteServiceNoActiveSnapshot(t *testing.T) {
	svc := NewQuoteService(&fakeSnapshotStore{}, &fakeCache{}, discardLogger())

	_, err := svc.GetPricingData(context.Background())
	if !errors.Is(err, domain.ErrNoActiveSnapshot) {
		t.Errorf("err = %v, want ErrNoActiveSnapshot", err)
	}
}

func TestQuoteServiceReadThrough(t *testing.T) {
	svc, store, cache := seededQuoteService(t)

	if err := cache.Invalidate(context.Background()); err != nil {
		t.Fatal(err)
	}
	storeReads := store.getCalls

	// Miss populates the cache from the store.
	if _, err := svc.GetPricingData(context.Background()); err != nil {
		t.Fatalf("GetPricingData: %v", err)
	}
	if store.getCalls != storeReads+1 {
		t.Errorf("store reads = %d, want %d", store.getCalls, storeReads+1)
	}

	// Hit skips the store entirely.
	if _, err := svc.GetPricingData(context.Background()); err != nil {
		t.Fatalf("GetPricingData: %v", err)
	}
	if store.getCalls != storeReads+1 {
		t.Errorf("store reads = %d after cache hit, want %d", store.getCalls, storeReads+1)
	}
}

func TestQuoteServiceCalculateTotalPrice(t *testing.T) {
	svc, _, _ := seededQuoteService(t)

	res, err := svc.CalculateTotalPrice(context.Background(), domain.Configuration{Nest: domain.Nest80})
	if err != nil {
		t.Fatalf("CalculateTotalPrice: %v", err)
	}
	if res.Total != 213032 {
		t.Errorf("total = %v, want 213032", res.Total)
	}

	_, err = svc.CalculateTotalPrice(context.Background(), domain.Configuration{Nest: "nest999"})
	if !errors.Is(err, domain.ErrUnknownOption) {
		t.Errorf("err = %v, want ErrUnknownOption", err)
	}
}

func TestQuoteServiceInfoAndVersions(t *testing.T) {
	svc, _, _ := seededQuoteService(t)

	info, err := svc.GetPricingDataInfo(context.Background())
	if err != nil {
		t.Fatalf("GetPricingDataInfo: %v", err)
	}
	if info.Version != 1 || !info.Active || info.SyncedBy != domain.SyncedByCron {
		t.Errorf("info = %+v", info)
	}

	versions, err := svc.ListVersions(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListVersions: %v", err)
	}
	if len(versions) != 1 {
		t.Errorf("versions = %d, want 1", len(versions))
	}
}

func TestQuoteServiceFensterPricePerSqmValidation(t *testing.T) {
	svc, _, _ := seededQuoteService(t)

	_, err := svc.GetFensterPricePerSqm(context.Background(), "stahl", domain.Nest80, domain.TierLight)
	if !errors.Is(err, domain.ErrUnknownOption) {
		t.Errorf("err = %v, want ErrUnknownOption", err)
	}

	// Known combination against a grid without a fenster block yields 0.
	got, err := svc.GetFensterPricePerSqm(context.Background(), domain.FensterPVC, domain.Nest80, domain.TierLight)
	if err != nil {
		t.Fatalf("GetFensterPricePerSqm: %v", err)
	}
	if got != 0 {
		t.Errorf("per-m² = %v, want 0 for missing combination", got)
	}
}
