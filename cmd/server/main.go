package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"marketcolor/internal/app/di"
	"marketcolor/internal/app/router"
	"marketcolor/internal/feature/constituents/adapters"
	constituentsusecase "marketcolor/internal/feature/constituents/usecase"
	infradb "marketcolor/internal/platform/db"
	"marketcolor/internal/platform/logger"
	infraredis "marketcolor/internal/platform/redis"
	"marketcolor/internal/platform/scheduler"
)

const defaultWarmSchedule = "@every 12h"

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}
	logger.Setup(logger.LoadConfig())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis（任意）
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig()); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// DB（任意）
	var db *gorm.DB
	if tmp, err := infradb.OpenDB(infradb.LoadConfigFromEnv(), &adapters.ConstituentModel{}); err != nil {
		if !errors.Is(err, infradb.ErrNotConfigured) {
			slog.Error("database unavailable", "error", err)
		}
	} else {
		db = tmp
	}

	app, err := di.NewApp(ctx, rdb, db)
	if err != nil {
		slog.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	// 構成銘柄キャッシュの定期更新
	sched := scheduler.New(2 * time.Minute)
	warm := constituentsusecase.NewWarmJob(app.Resolver)
	schedule := os.Getenv("CONSTITUENT_WARM_SCHEDULE")
	if schedule == "" {
		schedule = defaultWarmSchedule
	}
	if schedule != "off" {
		if err := sched.AddJob(schedule, warm); err != nil {
			slog.Error("invalid CONSTITUENT_WARM_SCHEDULE", "schedule", schedule, "error", err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
		go func() { _ = sched.RunNow(warm) }()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router.NewRouter(app.Handlers),
		ReadHeaderTimeout: 10 * time.Second,
		// AI分析のストリーミングがあるため WriteTimeout は設定しない
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	slog.Info("server stopped")
}
