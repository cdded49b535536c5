package di

import (
	"log/slog"

	"github.com/redis/go-redis/v9"

	"marketcolor/internal/feature/calendar/usecase"
	"marketcolor/internal/platform/cache"
	"marketcolor/internal/platform/externalapi/finnhub"
	infrahttp "marketcolor/internal/platform/http"
)

// NewEarningsRepository creates the Finnhub repository wrapped with Redis caching.
// It returns nil when FINNHUB_API_KEY is not set.
func NewEarningsRepository(rdb *redis.Client) usecase.EarningsRepository {
	cfg := finnhub.LoadConfig()
	if !cfg.Enabled() {
		slog.Warn("FINNHUB_API_KEY is not set. Earnings calendar is disabled.")
		return nil
	}
	repo := finnhub.NewEarningsRepository(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	return cache.NewCachingEarningsRepository(rdb, cache.DefaultEarningsTTL, repo)
}
