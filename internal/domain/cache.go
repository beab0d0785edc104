package domain

import (
	"context"
	"time"
)

// SnapshotCache is a short-lived read-through cache for the active snapshot.
// It returns ErrNotFound on a miss; callers fall back to the store.
type SnapshotCache interface {
	Set(ctx context.Context, snap PricingSnapshot) error
	Get(ctx context.Context) (PricingSnapshot, error)
	Invalidate(ctx context.Context) error
}

// LockManager provides distributed locking. Sync runs are serialized through
// it because the deactivate-then-insert pair in the snapshot store is unsafe
// under concurrent writers.
type LockManager interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// RateLimiter bounds request rates per key. The quote API is public, so
// per-client limits sit in front of every route.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// SignalBus provides pub/sub for push-based cache invalidation. A snapshot
// commit publishes on the pricing channel; every instance invalidates its
// cache on receipt.
type SignalBus interface {
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
}
