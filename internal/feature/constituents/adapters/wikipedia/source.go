// Package wikipedia scrapes the S&P 500 constituents table from Wikipedia.
package wikipedia

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"

	"marketcolor/internal/feature/constituents/domain/entity"
	"marketcolor/internal/feature/constituents/usecase"
	"marketcolor/internal/platform/metrics"
)

const (
	// DefaultURL is the constituents article.
	DefaultURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	// UserAgent identifies the scraper per Wikipedia's bot policy.
	UserAgent = "MarketColor/1.0 (Financial Data App)"
)

// Config holds configuration for the Wikipedia source.
type Config struct {
	URL     string        // Article URL (default DefaultURL)
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads the source configuration from environment variables.
func LoadConfig() Config {
	u := os.Getenv("CONSTITUENT_SOURCE_URL")
	if u == "" {
		u = DefaultURL
	}
	return Config{URL: u, Timeout: 15 * time.Second}
}

// Source fetches and parses the constituents table.
type Source struct {
	url    string
	client *http.Client
}

var _ usecase.Source = (*Source)(nil)

// NewSource creates a Source.
func NewSource(cfg Config, client *http.Client) *Source {
	u := cfg.URL
	if u == "" {
		u = DefaultURL
	}
	return &Source{url: u, client: client}
}

// Fetch downloads and parses the table in a single attempt.
// Network errors, 5xx and 429 are returned as is so the caller may retry.
// Everything else is wrapped with backoff.Permanent.
func (s *Source) Fetch(ctx context.Context) (_ []entity.Constituent, err error) {
	start := time.Now()
	defer func() { metrics.ObserveVendor("wikipedia", "constituents", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html")

	res, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil {
			slog.Warn("failed to close response body", "error", cerr)
		}
	}()

	if res.StatusCode >= 500 || res.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("wikipedia http %d", res.StatusCode)
	}
	if res.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(fmt.Errorf("wikipedia http %d", res.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("parse html: %w", err))
	}
	list := Parse(doc)
	if len(list) < usecase.MinConstituents {
		return nil, backoff.Permanent(fmt.Errorf("%w: got %d rows", usecase.ErrParseFailure, len(list)))
	}
	return list, nil
}

// Parse extracts {symbol, name, sector} from the first wikitable.
// Rows with fewer than four cells (headers, footnotes) are skipped, as are
// rows missing a symbol, name or sector. A sector outside the GICS set is
// kept but counted.
func Parse(doc *goquery.Document) []entity.Constituent {
	var out []entity.Constituent
	doc.Find("table.wikitable").First().Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		if tds.Length() < 4 {
			return
		}
		symbol := strings.TrimSpace(tds.Eq(0).Text())
		if symbol == "" {
			metrics.VendorAnomalies.WithLabelValues("wikipedia", "empty_symbol").Inc()
			return
		}
		name := strings.TrimSpace(tds.Eq(1).Text())
		sector := strings.TrimSpace(tds.Eq(2).Text())
		if name == "" || sector == "" {
			metrics.VendorAnomalies.WithLabelValues("wikipedia", "incomplete_row").Inc()
			slog.Debug("skipping incomplete constituent row", "symbol", symbol, "name", name, "sector", sector)
			return
		}
		if !entity.IsSector(sector) {
			metrics.VendorAnomalies.WithLabelValues("wikipedia", "unknown_sector").Inc()
			slog.Warn("unknown constituent sector", "symbol", symbol, "sector", sector)
		}
		out = append(out, entity.Constituent{
			Symbol: strings.ReplaceAll(symbol, ".", "-"),
			Name:   name,
			Sector: sector,
		})
	})
	return out
}
