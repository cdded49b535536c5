// Package finnhub adapts the Finnhub API client to the earnings calendar feature.
package finnhub

import (
	"os"
	"time"
)

// Config holds configuration for the Finnhub API client.
type Config struct {
	APIKey  string        // API key sent as X-Finnhub-Token; empty disables the feature
	BaseURL string        // Overrides the generated client's server (e.g., "https://finnhub.io/api/v1")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads Finnhub configuration from environment variables.
func LoadConfig() Config {
	return Config{
		APIKey:  os.Getenv("FINNHUB_API_KEY"),
		BaseURL: os.Getenv("FINNHUB_BASE_URL"),
		Timeout: 10 * time.Second,
	}
}

// Enabled reports whether an API key is configured.
func (c Config) Enabled() bool {
	return c.APIKey != ""
}
