package db

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConfigured はDB接続先が環境変数で指定されていないことを表します。
var ErrNotConfigured = errors.New("database is not configured")

const retryInterval = 3 * time.Second

// Config はPostgreSQL接続設定です。URLが指定されている場合は個別項目より優先されます。
type Config struct {
	URL      string
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
	// Migrate が true の場合、接続後に AutoMigrate を実行します。
	Migrate bool
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	return Config{
		URL:      os.Getenv("DATABASE_URL"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
		Migrate:  os.Getenv("RUN_MIGRATIONS") == "true",
	}
}

// Configured は接続先が指定されているかを返します。
func (c Config) Configured() bool {
	return c.URL != "" || c.Host != ""
}

// BuildDSN はpgx（gorm postgresドライバ）が受け付けるキー/値形式のDSNを生成します。
func BuildDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, port, sslmode)
}

// Opener はDSNからgorm.DBを開く関数です。テストでは差し替えます。
type Opener func(dsn string) (*gorm.DB, error)

// PostgresOpener はgorm postgresドライバで接続します。
func PostgresOpener(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// ConnectWithRetry はtimeoutに達するまで一定間隔で接続を再試行します。
// コンテナ起動直後はDBの準備が整っていないことがあるため、起動時のみ使用します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err)
		time.Sleep(retryInterval)
	}
}

// OpenDB は設定に従ってPostgreSQLへ接続し、必要であればmodelsをマイグレーションします。
func OpenDB(cfg Config, models ...any) (*gorm.DB, error) {
	if !cfg.Configured() {
		return nil, ErrNotConfigured
	}

	db, err := ConnectWithRetry(BuildDSN(cfg), 60*time.Second, PostgresOpener)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate && len(models) > 0 {
		if err := db.AutoMigrate(models...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
		slog.Info("database migrated", "models", len(models))
	}
	return db, nil
}
