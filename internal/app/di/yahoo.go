// Package di provides dependency injection factories for creating application components.
package di

import (
	"time"

	"marketcolor/internal/platform/externalapi/yahoo"
	infrahttp "marketcolor/internal/platform/http"
	"marketcolor/internal/shared/ratelimiter"
)

// NewYahoo creates a Yahoo Finance client with a cookie jar for the crumb handshake
// and, when YAHOO_RATE_LIMIT_PER_MIN is set, a shared outbound rate limiter.
func NewYahoo() *yahoo.Client {
	cfg := yahoo.LoadConfig()
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout,
		infrahttp.WithUserAgent(infrahttp.BrowserUserAgent),
		infrahttp.WithCookieJar(),
	)

	var limiter ratelimiter.RateLimiterInterface
	if cfg.RateLimitPerMinute > 0 {
		limiter = ratelimiter.NewRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}
	return yahoo.NewClient(cfg, httpClient, limiter)
}
