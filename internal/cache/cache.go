package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "ah:"

// Cache is a small read-through cache for auction snapshots and bid
// statistics. Postgres stays the system of record; entries carry a short
// TTL and are invalidated whenever a bid is accepted, so a stale read is
// bounded by the TTL even if an invalidation is lost.
//
// A nil *Cache is valid and disables caching, which keeps the services
// usable without Redis (tests, local runs).
type Cache struct {
	rdc *redis.Client
	ttl time.Duration
}

func New(rdc *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdc: rdc, ttl: ttl}
}

func AuctionKey(auctionID int64) string {
	return fmt.Sprintf("%sauction:%d", keyPrefix, auctionID)
}

func StatsKey(auctionID int64) string {
	return fmt.Sprintf("%sstats:%d", keyPrefix, auctionID)
}

// Get unmarshals the cached entry into dest and reports whether it was a
// hit. Decode failures count as misses.
func (c *Cache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || c.rdc == nil {
		return false
	}
	raw, err := c.rdc.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			zap.L().Debug("cache_get", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		zap.L().Warn("cache_decode", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores v under key for the configured TTL. Failures are logged and
// swallowed; the caller already has the authoritative value.
func (c *Cache) Set(ctx context.Context, key string, v any) {
	if c == nil || c.rdc == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		zap.L().Warn("cache_encode", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdc.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		zap.L().Debug("cache_set", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops the given keys, typically right after a committed write.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.rdc == nil || len(keys) == 0 {
		return
	}
	if err := c.rdc.Del(ctx, keys...).Err(); err != nil {
		zap.L().Debug("cache_invalidate", zap.Strings("keys", keys), zap.Error(err))
	}
}
