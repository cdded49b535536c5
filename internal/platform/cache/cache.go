// Package cache provides Redis caching decorators for vendor repositories.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// readThrough returns the cached value for key, or loads it and stores it for ttl.
// Errors from load are returned as is and never cached.
// If rdb is nil the cache is bypassed.
func readThrough[T any](ctx context.Context, rdb *redis.Client, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if rdb == nil {
		return load(ctx)
	}

	// 1) Check cache
	if b, err := rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out T
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the vendor
	out, err := load(ctx)
	if err != nil {
		return out, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		if err := rdb.Set(ctx, key, b, ttl).Err(); err != nil {
			slog.Warn("cache store failed", "key", key, "error", err)
		}
	}
	return out, nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
