package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"marketcolor/internal/app/di"
	"marketcolor/internal/feature/constituents/adapters"
	infradb "marketcolor/internal/platform/db"
	"marketcolor/internal/platform/logger"
)

// ingest はライブソースから構成銘柄を取得し、DBのスナップショットを置き換えます。
func main() {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logger.Setup(logger.LoadConfig())

	cfg := infradb.LoadConfigFromEnv()
	cfg.Migrate = true
	db, err := infradb.OpenDB(cfg, &adapters.ConstituentModel{})
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	resolver, err := di.NewConstituentResolver(adapters.NewMemoryCache())
	if err != nil {
		slog.Error("failed to create resolver", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	snap, err := resolver.Refresh(ctx)
	if err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
	// Resolverのキャッシュ書き込みはベストエフォートのため、DBへは明示的に保存する
	if err := adapters.NewSnapshotStore(db).Set(ctx, snap); err != nil {
		slog.Error("failed to store snapshot", "error", err)
		os.Exit(1)
	}
	slog.Info("ingest ok", "constituents", len(snap.Constituents), "fetched_at", snap.FetchedAt)
}
