package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketcolor/internal/feature/calendar/domain/entity"
	"marketcolor/internal/feature/calendar/usecase"
)

// DefaultEarningsTTL is how long an earnings window stays cached.
const DefaultEarningsTTL = 15 * time.Minute

// CachingEarningsRepository decorates an EarningsRepository with Redis caching.
type CachingEarningsRepository struct {
	inner     usecase.EarningsRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.EarningsRepository = (*CachingEarningsRepository)(nil)

// NewCachingEarningsRepository decorates inner. If ttl is 0, it defaults to DefaultEarningsTTL.
func NewCachingEarningsRepository(rdb *redis.Client, ttl time.Duration, inner usecase.EarningsRepository) *CachingEarningsRepository {
	if ttl <= 0 {
		ttl = DefaultEarningsTTL
	}
	return &CachingEarningsRepository{inner: inner, rdb: rdb, ttl: ttl, namespace: "earnings"}
}

// GetEarnings returns the events in [from, to], checking the cache first.
func (c *CachingEarningsRepository) GetEarnings(ctx context.Context, from, to string) ([]entity.EarningsEvent, error) {
	key := fmt.Sprintf("%s:%s:%s", c.namespace, safe(from), safe(to))
	return readThrough(ctx, c.rdb, key, c.ttl, func(ctx context.Context) ([]entity.EarningsEvent, error) {
		return c.inner.GetEarnings(ctx, from, to)
	})
}
