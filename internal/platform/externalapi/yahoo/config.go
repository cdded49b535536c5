// Package yahoo provides a client for the Yahoo Finance JSON endpoints.
package yahoo

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultCookieURL = "https://fc.yahoo.com"
)

// Config holds configuration for the Yahoo Finance client.
type Config struct {
	BaseURL            string        // Base URL for the JSON API (e.g., "https://query1.finance.yahoo.com")
	CookieURL          string        // Page that issues the session cookie required for a crumb
	UseCrumb           bool          // Attach a crumb to every request (required by the live API)
	RateLimitPerMinute int           // Outbound call budget; 0 disables limiting
	Timeout            time.Duration // HTTP request timeout
}

// LoadConfig loads Yahoo Finance configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		BaseURL:            os.Getenv("YAHOO_BASE_URL"),
		CookieURL:          os.Getenv("YAHOO_COOKIE_URL"),
		UseCrumb:           os.Getenv("YAHOO_USE_CRUMB") != "false",
		RateLimitPerMinute: 0,
		Timeout:            10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CookieURL == "" {
		cfg.CookieURL = defaultCookieURL
	}
	if n, err := strconv.Atoi(os.Getenv("YAHOO_RATE_LIMIT_PER_MIN")); err == nil && n > 0 {
		cfg.RateLimitPerMinute = n
	}
	return cfg
}
