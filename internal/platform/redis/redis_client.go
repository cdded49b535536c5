package redis

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotConfigured はRedisの接続先が環境変数で指定されていないことを表します。
// Redisは任意依存のため、呼び出し側はこのエラーを受けてキャッシュなしで起動します。
var ErrNotConfigured = errors.New("redis is not configured")

// Config はRedis接続設定です。URLが指定されている場合はHost/Portより優先されます。
type Config struct {
	URL      string
	Host     string
	Port     string
	Password string
}

// LoadConfig は環境変数からRedis接続設定を読み込みます。
func LoadConfig() Config {
	return Config{
		URL:      os.Getenv("REDIS_URL"),
		Host:     os.Getenv("REDIS_HOST"),
		Port:     os.Getenv("REDIS_PORT"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

// Options はConfigからredis.Optionsを組み立てます。
func (c Config) Options() (*redis.Options, error) {
	if c.URL != "" {
		return redis.ParseURL(c.URL)
	}
	if c.Host == "" {
		return nil, ErrNotConfigured
	}
	port := c.Port
	if port == "" {
		port = "6379"
	}
	return &redis.Options{
		Addr:     c.Host + ":" + port,
		Password: c.Password,
		DB:       0,
	}, nil
}

// NewRedisClient は接続確認済みのRedisクライアントを返します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// 接続確認
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", opts.Addr, "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", opts.Addr)
	return rdb, nil
}
