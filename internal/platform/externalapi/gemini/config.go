// Package gemini はGoogle Gemini APIを使用したテキスト生成クライアントを提供します。
package gemini

import (
	"os"
	"strconv"
	"time"
)

const (
	// DefaultModel はGemini APIのデフォルトモデルです。
	DefaultModel = "gemini-2.5-flash"
	// DefaultStreamTimeout はストリーミング生成1回あたりの上限時間です。
	DefaultStreamTimeout = 3 * time.Minute
)

// Config holds configuration for the Gemini client.
type Config struct {
	APIKey  string        // Gemini API key; empty disables AI analysis
	Model   string        // Model name (default "gemini-2.5-flash")
	BaseURL string        // Overrides the API endpoint (used by tests)
	Timeout time.Duration // Upper bound for a single non-streaming call

	StreamTimeout time.Duration // Upper bound for a whole streaming response
}

// LoadConfig loads Gemini configuration from environment variables.
func LoadConfig() Config {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = DefaultModel
	}
	streamTimeout := DefaultStreamTimeout
	if n, err := strconv.Atoi(os.Getenv("GEMINI_STREAM_TIMEOUT_SEC")); err == nil && n > 0 {
		streamTimeout = time.Duration(n) * time.Second
	}
	return Config{
		APIKey:        os.Getenv("GEMINI_API_KEY"),
		Model:         model,
		BaseURL:       os.Getenv("GEMINI_BASE_URL"),
		Timeout:       60 * time.Second,
		StreamTimeout: streamTimeout,
	}
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
