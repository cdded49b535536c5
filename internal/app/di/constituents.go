package di

import (
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"marketcolor/internal/feature/constituents/adapters"
	"marketcolor/internal/feature/constituents/adapters/static"
	"marketcolor/internal/feature/constituents/adapters/wikipedia"
	"marketcolor/internal/feature/constituents/usecase"
	infrahttp "marketcolor/internal/platform/http"
)

// NewConstituentResolver creates the resolver backed by the Wikipedia source and the bundled fallback list.
func NewConstituentResolver(cache usecase.Cache) (*usecase.Resolver, error) {
	fallback, err := static.Load()
	if err != nil {
		return nil, fmt.Errorf("load bundled constituents: %w", err)
	}

	cfg := wikipedia.LoadConfig()
	src := wikipedia.NewSource(cfg, infrahttp.NewHTTPClient(cfg.Timeout))
	return usecase.NewResolver(cache, src, fallback), nil
}

// NewConstituentCache selects the snapshot cache. kind is "memory", "redis" or "db".
// An empty kind uses Redis if available and memory otherwise.
// An unavailable backend falls back to memory.
func NewConstituentCache(kind string, rdb *redis.Client, db *gorm.DB) usecase.Cache {
	switch kind {
	case "redis":
		if rdb != nil {
			return adapters.NewRedisCache(rdb, adapters.DefaultRedisKey)
		}
	case "db":
		if db != nil {
			return adapters.NewSnapshotStore(db)
		}
	case "", "memory":
		if kind == "" && rdb != nil {
			return adapters.NewRedisCache(rdb, adapters.DefaultRedisKey)
		}
		return adapters.NewMemoryCache()
	default:
		slog.Warn("unknown CONSTITUENT_CACHE, using memory", "value", kind)
		return adapters.NewMemoryCache()
	}
	slog.Warn("constituent cache backend unavailable, using memory", "backend", kind)
	return adapters.NewMemoryCache()
}
