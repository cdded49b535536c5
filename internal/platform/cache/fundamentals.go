package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"marketcolor/internal/domain/entity"
	"marketcolor/internal/feature/stock/usecase"
)

// CachingFundamentalsRepository decorates a FundamentalsRepository with Redis caching.
// Entries expire at the next US market open, when the vendor data can change again.
type CachingFundamentalsRepository struct {
	inner     usecase.FundamentalsRepository
	rdb       *redis.Client
	namespace string
	now       func() time.Time
}

var _ usecase.FundamentalsRepository = (*CachingFundamentalsRepository)(nil)

// NewCachingFundamentalsRepository decorates inner. If namespace is empty, it uses "fundamentals".
func NewCachingFundamentalsRepository(rdb *redis.Client, inner usecase.FundamentalsRepository, namespace string) *CachingFundamentalsRepository {
	if namespace == "" {
		namespace = "fundamentals"
	}
	return &CachingFundamentalsRepository{inner: inner, rdb: rdb, namespace: namespace, now: time.Now}
}

// GetAnalystData はキャッシュを優先してアナリストデータを返します。
func (c *CachingFundamentalsRepository) GetAnalystData(ctx context.Context, symbol string) (entity.AnalystData, error) {
	return readThrough(ctx, c.rdb, c.key("analysts", symbol), c.ttl(), func(ctx context.Context) (entity.AnalystData, error) {
		return c.inner.GetAnalystData(ctx, symbol)
	})
}

// GetOwnership はキャッシュを優先して保有状況を返します。
func (c *CachingFundamentalsRepository) GetOwnership(ctx context.Context, symbol string) (entity.OwnershipData, error) {
	return readThrough(ctx, c.rdb, c.key("ownership", symbol), c.ttl(), func(ctx context.Context) (entity.OwnershipData, error) {
		return c.inner.GetOwnership(ctx, symbol)
	})
}

// GetFinancials はキャッシュを優先して財務諸表を返します。
func (c *CachingFundamentalsRepository) GetFinancials(ctx context.Context, symbol string) (entity.FinancialStatements, error) {
	return readThrough(ctx, c.rdb, c.key("financials", symbol), c.ttl(), func(ctx context.Context) (entity.FinancialStatements, error) {
		return c.inner.GetFinancials(ctx, symbol)
	})
}

// GetOptions はキャッシュを優先してオプションチェーンを返します。満期ごとに別のキーを使用します。
func (c *CachingFundamentalsRepository) GetOptions(ctx context.Context, symbol string, expiration time.Time) (entity.OptionsChain, error) {
	exp := "nearest"
	if !expiration.IsZero() {
		exp = expiration.UTC().Format("2006-01-02")
	}
	return readThrough(ctx, c.rdb, c.key("options", symbol)+":"+exp, c.ttl(), func(ctx context.Context) (entity.OptionsChain, error) {
		return c.inner.GetOptions(ctx, symbol, expiration)
	})
}

func (c *CachingFundamentalsRepository) key(tab, symbol string) string {
	return fmt.Sprintf("%s:%s:%s", c.namespace, tab, safe(symbol))
}

func (c *CachingFundamentalsRepository) ttl() time.Duration {
	return TimeUntilNextMarketOpen(c.now())
}
