package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
	"github.com/stenkjan/nest-haus-sub005/internal/service"
)

type memStore struct {
	mu    sync.Mutex
	snaps []domain.PricingSnapshot
}

func (m *memStore) Save(_ context.Context, data domain.PricingData, syncedBy domain.SyncedBy) (domain.PricingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.snaps {
		m.snaps[i].Active = false
	}
	snap := domain.PricingSnapshot{
		Version: len(m.snaps) + 1, Data: data,
		SyncedAt: time.Now().UTC(), SyncedBy: syncedBy, Active: true,
	}
	m.snaps = append(m.snaps, snap)
	return snap, nil
}

func (m *memStore) GetActive(context.Context) (domain.PricingSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.snaps) - 1; i >= 0; i-- {
		if m.snaps[i].Active {
			return m.snaps[i], nil
		}
	}
	return domain.PricingSnapshot{}, domain.ErrNoActiveSnapshot
}

func (m *memStore) GetByVersion(context.Context, int) (domain.PricingSnapshot, error) {
	return domain.PricingSnapshot{}, domain.ErrNotFound
}

func (m *memStore) ListInfo(context.Context, int) ([]domain.SnapshotInfo, error) {
	return nil, nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.snaps)
}

type memSyncLog struct{}

func (memSyncLog) Record(context.Context, domain.SyncRun) error { return nil }
func (memSyncLog) ListRecent(context.Context, int) ([]domain.SyncRun, error) {
	return nil, nil
}

type memCache struct {
	mu          sync.Mutex
	invalidates int
}

func (m *memCache) Set(context.Context, domain.PricingSnapshot) error { return nil }
func (m *memCache) Get(context.Context) (domain.PricingSnapshot, error) {
	return domain.PricingSnapshot{}, domain.ErrNotFound
}
func (m *memCache) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidates++
	return nil
}

type memLock struct{}

func (memLock) Acquire(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}

// memBus feeds subscribers from an injectable channel.
type memBus struct {
	incoming chan []byte
}

func (b *memBus) Publish(context.Context, string, []byte) error { return nil }
func (b *memBus) Subscribe(ctx context.Context, _ string) (<-chan []byte, error) {
	out := make(chan []byte)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-b.incoming:
				out <- msg
			}
		}
	}()
	return out, nil
}

type memFetcher struct{}

func (memFetcher) Fetch(context.Context) (domain.Grid, error) {
	grid := make(domain.Grid, 12)
	for i := range grid {
		grid[i] = make([]any, 14)
	}
	grid[6][3] = 9.5
	for i, col := range []int{5, 7, 9, 11, 13} {
		grid[6][col] = float64(3 + i)
		grid[10][col] = 200000.0 + float64(i)*30000.0
		grid[11][col] = 75.0 + float64(i)*20.0
	}
	return grid, nil
}

func testScheduler(store *memStore, cache *memCache, bus *memBus) *Scheduler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sync := service.NewSyncService(memFetcher{}, store, memSyncLog{}, cache, memLock{}, bus,
		service.SyncServiceOpts{}, logger)
	return NewScheduler(sync, cache, bus, 0, logger)
}

func TestSchedulerSyncsOnStartupAndTrigger(t *testing.T) {
	store := &memStore{}
	bus := &memBus{incoming: make(chan []byte)}
	sched := testScheduler(store, &memCache{}, bus)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sched.Run(ctx) }()

	waitFor(t, func() bool { return store.count() == 1 }, "startup sync")

	sched.Trigger(domain.SyncedByManual)
	waitFor(t, func() bool { return store.count() == 2 }, "triggered sync")

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run returned %v on cancellation, want nil", err)
	}
}

func TestSchedulerInvalidatesOnSignal(t *testing.T) {
	store := &memStore{}
	cache := &memCache{}
	bus := &memBus{incoming: make(chan []byte, 1)}
	sched := testScheduler(store, cache, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = sched.Run(ctx) }()

	waitFor(t, func() bool { return store.count() == 1 }, "startup sync")

	bus.incoming <- []byte(`{"event":"snapshot_committed","version":9}`)
	waitFor(t, func() bool {
		cache.mu.Lock()
		defer cache.mu.Unlock()
		return cache.invalidates > 0
	}, "cache invalidation")
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
