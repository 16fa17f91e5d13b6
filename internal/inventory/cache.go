package inventory

// This file implements the Redis projection cache for seat
// availability reads.  Caching is best-effort: every cache failure is
// treated as a miss and the caller falls through to the database, so
// a missing or unreachable Redis only costs latency, never
// correctness.  Each inventory mutation invalidates the trip's keys.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client for the per-trip read projections.  A
// nil client disables caching entirely.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache constructs a Cache.  Pass a nil client to degrade to a
// no-op cache.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func availableKey(tripID uint64) string { return fmt.Sprintf("trip:%d:seats:available", tripID) }
func bookedKey(tripID uint64) string    { return fmt.Sprintf("trip:%d:seats:booked", tripID) }

// GetAvailable returns the cached available-seat count for a trip.
func (c *Cache) GetAvailable(ctx context.Context, tripID uint64) (int, bool) {
	if c == nil || c.rdb == nil {
		return 0, false
	}
	n, err := c.rdb.Get(ctx, availableKey(tripID)).Int()
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetAvailable stores the available-seat count for a trip.
func (c *Cache) SetAvailable(ctx context.Context, tripID uint64, n int) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Set(ctx, availableKey(tripID), n, c.ttl).Err()
}

// GetBooked returns the cached occupied seat positions for a trip.
func (c *Cache) GetBooked(ctx context.Context, tripID uint64) ([]uint32, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, bookedKey(tripID)).Bytes()
	if err != nil {
		return nil, false
	}
	var nums []uint32
	if err := json.Unmarshal(raw, &nums); err != nil {
		return nil, false
	}
	return nums, true
}

// SetBooked stores the occupied seat positions for a trip.
func (c *Cache) SetBooked(ctx context.Context, tripID uint64, nums []uint32) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(nums)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, bookedKey(tripID), raw, c.ttl).Err()
}

// Invalidate drops both projection keys for a trip.  Called after
// every hold, release and book mutation.
func (c *Cache) Invalidate(ctx context.Context, tripID uint64) {
	if c == nil || c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, availableKey(tripID), bookedKey(tripID)).Err()
}
