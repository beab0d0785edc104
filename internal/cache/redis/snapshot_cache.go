package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stenkjan/nest-haus-sub005/internal/domain"
)

// snapshotKey holds the single active snapshot as JSON. There is exactly one
// active snapshot at a time, so one key suffices.
const snapshotKey = "pricing:snapshot:active"

// SnapshotCache implements domain.SnapshotCache with a single TTL'd JSON key.
// The TTL bounds staleness for instances that miss an invalidation signal.
type SnapshotCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSnapshotCache creates a SnapshotCache backed by the given Client.
func NewSnapshotCache(c *Client, ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SnapshotCache{rdb: c.Underlying(), ttl: ttl}
}

// Set stores the snapshot with the cache TTL.
func (sc *SnapshotCache) Set(ctx context.Context, snap domain.PricingSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis: marshal snapshot: %w", err)
	}
	if err := sc.rdb.Set(ctx, snapshotKey, payload, sc.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set snapshot: %w", err)
	}
	return nil
}

// Get returns the cached snapshot, or domain.ErrNotFound on a miss.
func (sc *SnapshotCache) Get(ctx context.Context) (domain.PricingSnapshot, error) {
	payload, err := sc.rdb.Get(ctx, snapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.PricingSnapshot{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.PricingSnapshot{}, fmt.Errorf("redis: get snapshot: %w", err)
	}

	var snap domain.PricingSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		// A corrupt cache entry must not take reads down; treat it as a miss.
		_ = sc.rdb.Del(ctx, snapshotKey).Err()
		return domain.PricingSnapshot{}, domain.ErrNotFound
	}
	return snap, nil
}

// Invalidate drops the cached snapshot.
func (sc *SnapshotCache) Invalidate(ctx context.Context) error {
	if err := sc.rdb.Del(ctx, snapshotKey).Err(); err != nil {
		return fmt.Errorf("redis: invalidate snapshot: %w", err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.SnapshotCache = (*SnapshotCache)(nil)
