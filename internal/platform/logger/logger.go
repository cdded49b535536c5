// Package logger はslogのデフォルトロガーを環境変数から構成します。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config はログ出力の設定です。
type Config struct {
	Level  string // debug, info, warn, error（既定: info）
	Format string // json または text（既定: text）
}

// LoadConfig は LOG_LEVEL と LOG_FORMAT を読み込みます。
func LoadConfig() Config {
	return Config{Level: os.Getenv("LOG_LEVEL"), Format: os.Getenv("LOG_FORMAT")}
}

// New はwへ出力するロガーを生成します。
func New(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Setup は標準エラー出力へのロガーを生成し、slogのデフォルトに設定します。
func Setup(cfg Config) *slog.Logger {
	l := New(cfg, os.Stderr)
	slog.SetDefault(l)
	return l
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
