// Package cache is a JSON read-through cache over Redis. A Cache built
// without a client is a no-op, so the service runs without Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"movie-discovery-social-service/internal/metrics"
)

type Cache struct {
	rdb *redis.Client
}

// New wraps rdb; rdb may be nil.
func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GetJSON decodes the value at key into dest and reports whether it was
// found. name labels the lookup in the hit/miss metrics.
func (c *Cache) GetJSON(ctx context.Context, name, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}

	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(name, false)
		return false, nil
	}
	if err != nil {
		metrics.RecordCacheLookup(name, false)
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dest); err != nil {
		metrics.RecordCacheLookup(name, false)
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	metrics.RecordCacheLookup(name, true)
	slog.Debug("cache hit", "key", key)
	return true, nil
}

// SetJSON stores value under key. Failures are logged, not returned.
func (c *Cache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) {
	if !c.Enabled() {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		slog.Error("failed to encode cache value", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		slog.Error("failed to set cache", "key", key, "error", err)
	}
}

// Generation returns the counter stored at key, 0 when it was never bumped.
// Readers embed it in derived cache keys so entries computed before a Bump
// are never read again.
func (c *Cache) Generation(ctx context.Context, key string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}

	gen, err := c.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read generation %s: %w", key, err)
	}
	return gen, nil
}

// Bump increments the counter at key. Failures are logged, not returned.
func (c *Cache) Bump(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}

	if err := c.rdb.Incr(ctx, key).Err(); err != nil {
		slog.Error("failed to bump generation", "key", key, "error", err)
	}
}

// Invalidate deletes every key matching pattern.
func (c *Cache) Invalidate(ctx context.Context, pattern string) {
	if !c.Enabled() {
		return
	}

	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		c.rdb.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Error("failed to invalidate cache", "pattern", pattern, "error", err)
		return
	}
	slog.Debug("cache invalidated", "pattern", pattern)
}
