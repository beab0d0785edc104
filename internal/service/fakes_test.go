package service

import (
	"context"
	"sync"
	"time"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// fakeSnapshotStore is an in-memory SnapshotStore with the same
// exactly-one-active behavior as the Postgres implementation.
type fakeSnapshotStore struct {
	mu        sync.Mutex
	snapshots []domain.PricingSnapshot
	saveErr   error
	getCalls  int
}

func (f *fakeSnapshotStore) Save(_ context.Context, data domain.PricingData, syncedBy domain.SyncedBy) (domain.PricingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return domain.PricingSnapshot{}, f.saveErr
	}
	for i := range f.snapshots {
		f.snapshots[i].Active = false
	}
	snap := domain.PricingSnapshot{
		Version:  len(f.snapshots) + 1,
		Data:     data,
		SyncedAt: time.Now().UTC(),
		SyncedBy: syncedBy,
		Active:   true,
	}
	f.snapshots = append(f.snapshots, snap)
	return snap, nil
}

func (f *fakeSnapshotStore) GetActive(context.Context) (domain.PricingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		if f.snapshots[i].Active {
			return f.snapshots[i], nil
		}
	}
	return domain.PricingSnapshot{}, domain.ErrNoActiveSnapshot
}

func (f *fakeSnapshotStore) GetByVersion(_ context.Context, version int) (domain.PricingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.snapshots {
		if s.Version == version {
			return s, nil
		}
	}
	return domain.PricingSnapshot{}, domain.ErrNotFound
}

func (f *fakeSnapshotStore) ListInfo(_ context.Context, limit int) ([]domain.SnapshotInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var infos []domain.SnapshotInfo
	for i := len(f.snapshots) - 1; i >= 0 && len(infos) < limit; i-- {
		infos = append(infos, f.snapshots[i].Info())
	}
	return infos, nil
}

type fakeSyncLog struct {
	mu   sync.Mutex
	runs []domain.SyncRun
}

func (f *fakeSyncLog) Record(_ context.Context, run domain.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run.ID = int64(len(f.runs) + 1)
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeSyncLog) ListRecent(_ context.Context, limit int) ([]domain.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.SyncRun
	for i := len(f.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.runs[i])
	}
	return out, nil
}

type fakeCache struct {
	mu          sync.Mutex
	snap        *domain.PricingSnapshot
	sets        int
	invalidates int
}

func (f *fakeCache) Set(_ context.Context, snap domain.PricingSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = &snap
	f.sets++
	return nil
}

func (f *fakeCache) Get(context.Context) (domain.PricingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap == nil {
		return domain.PricingSnapshot{}, domain.ErrNotFound
	}
	return *f.snap, nil
}

func (f *fakeCache) Invalidate(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = nil
	f.invalidates++
	return nil
}

// fakeLock hands out the lock to one holder at a time, like the Redis SETNX
// implementation.
type fakeLock struct {
	mu   sync.Mutex
	held bool
}

func (f *fakeLock) Acquire(_ context.Context, _ string, _ time.Duration) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.held {
		return nil, domain.ErrLockHeld
	}
	f.held = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.held = false
	}, nil
}

type fakeBus struct {
	mu       sync.Mutex
	messages map[string][][]byte
}

func (f *fakeBus) Publish(_ context.Context, channel string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = make(map[string][][]byte)
	}
	f.messages[channel] = append(f.messages[channel], payload)
	return nil
}

func (f *fakeBus) Subscribe(context.Context, string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

type fakeFetcher struct {
	grid domain.Grid
	err  error
}

func (f *fakeFetcher) Fetch(context.Context) (domain.Grid, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.grid, nil
}

type fakeArchiver struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeArchiver) Archive(_ context.Context, _ domain.Grid, _ int, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}
