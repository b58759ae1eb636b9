// Package cache provides the Redis-backed schedule-view cache. Generated
// schedules change only on explicit regeneration or enrollment, so GET
// responses are cached per semester and invalidated by those two writes.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ScheduleCache stores marshalled schedule views keyed by semester. A nil
// Redis client disables the cache: Get always misses and Set/Invalidate are
// no-ops, so the service runs fine without Redis.
type ScheduleCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewScheduleCache returns a cache with the given TTL. rdb may be nil.
func NewScheduleCache(rdb *redis.Client, ttl time.Duration) *ScheduleCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ScheduleCache{rdb: rdb, ttl: ttl}
}

func key(semesterID int64) string {
	return fmt.Sprintf("schedule:semester:%d", semesterID)
}

// Get returns the cached view payload for a semester and whether it was
// present.
func (c *ScheduleCache) Get(ctx context.Context, semesterID int64) ([]byte, bool) {
	if c.rdb == nil {
		return nil, false
	}
	payload, err := c.rdb.Get(ctx, key(semesterID)).Bytes()
	if err != nil {
		return nil, false
	}
	return payload, true
}

// Set stores the view payload for a semester. Failures are ignored; the
// cache is best-effort.
func (c *ScheduleCache) Set(ctx context.Context, semesterID int64, payload []byte) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.SetEx(ctx, key(semesterID), payload, c.ttl).Err()
}

// Invalidate drops the cached view after a regeneration or enrollment
// touches the semester.
func (c *ScheduleCache) Invalidate(ctx context.Context, semesterID int64) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, key(semesterID)).Err()
}
