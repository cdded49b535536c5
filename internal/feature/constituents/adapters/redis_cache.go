package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vmihailenco/msgpack/v5"

	"marketcolor/internal/feature/constituents/domain/entity"
	"marketcolor/internal/feature/constituents/usecase"
)

// DefaultRedisKey is the key holding the msgpack-encoded snapshot.
const DefaultRedisKey = "constituents:sp500"

// RedisCache stores the snapshot in Redis so that every replica shares one list.
// The key expires together with the snapshot.
type RedisCache struct {
	rdb *redis.Client
	key string
	ttl time.Duration
}

var _ usecase.Cache = (*RedisCache)(nil)

// NewRedisCache creates a RedisCache. An empty key uses DefaultRedisKey.
func NewRedisCache(rdb *redis.Client, key string) *RedisCache {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisCache{rdb: rdb, key: key, ttl: usecase.CacheTTL}
}

// Get reads and decodes the snapshot. A corrupted entry is deleted and reported as a miss.
func (c *RedisCache) Get(ctx context.Context) (entity.Snapshot, bool, error) {
	b, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Snapshot{}, false, nil
	}
	if err != nil {
		return entity.Snapshot{}, false, fmt.Errorf("redis get %s: %w", c.key, err)
	}

	var snap entity.Snapshot
	if err := msgpack.Unmarshal(b, &snap); err != nil {
		slog.Warn("corrupted constituent snapshot, deleting", "key", c.key, "error", err)
		_ = c.rdb.Del(ctx, c.key).Err()
		return entity.Snapshot{}, false, nil
	}
	return snap, true, nil
}

// Set encodes and stores the snapshot.
func (c *RedisCache) Set(ctx context.Context, snap entity.Snapshot) error {
	b, err := msgpack.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key, b, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key, err)
	}
	return nil
}
