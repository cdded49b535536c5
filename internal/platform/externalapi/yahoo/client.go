package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"marketcolor/internal/domain"
	"marketcolor/internal/platform/externalapi/yahoo/dto"
	"marketcolor/internal/platform/metrics"
	"marketcolor/internal/shared/ratelimiter"
)

const vendor = "yahoo"

var errUnauthorized = errors.New("yahoo: unauthorized")

// Client はYahoo Finance のクライアントです。
// 見積り・チャート・企業概要・レーティング・保有状況・オプション・スクリーナー・検索は go-yfinance で取得し、
// ライブラリにない複数銘柄の一括見積り・格付け変更履歴・年次財務諸表はJSON APIを直接呼び出します。
// 各featureのusecaseが定義するリポジトリインターフェースを満たします。
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
	lib     librarySource

	mu    sync.Mutex
	crumb string
}

// NewClient は指定された設定とHTTPクライアントでClientの新しいインスタンスを生成します。
// crumbを使う場合、httpClientにはクッキーjarが設定されている必要があります。limiterはnilでも構いません。
func NewClient(cfg Config, httpClient *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	return &Client{cfg: cfg, client: httpClient, limiter: limiter, lib: newYFLibrary(cfg.Timeout)}
}

// getJSON はpathへGETし、JSONをoutへデコードします。crumbが失効していた場合は一度だけ取り直します。
func (c *Client) getJSON(ctx context.Context, op, path string, q url.Values, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveVendor(vendor, op, start, err) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if q == nil {
		q = url.Values{}
	}

	refresh := false
	for {
		if c.cfg.UseCrumb {
			crumb, err := c.crumbValue(ctx, refresh)
			if err != nil {
				return fmt.Errorf("yahoo crumb: %w", err)
			}
			q.Set("crumb", crumb)
		}
		err := c.do(ctx, path, q, out)
		if errors.Is(err, errUnauthorized) && c.cfg.UseCrumb && !refresh {
			refresh = true
			continue
		}
		return err
	}
}

func (c *Client) do(ctx context.Context, path string, q url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", c.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return errUnauthorized
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("yahoo %s: %w", path, domain.ErrNotFound)
	case res.StatusCode >= 400:
		return fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("yahoo decode %s: %w", path, err)
	}
	return nil
}

// crumbValue はキャッシュ済みのcrumbを返します。未取得またはrefresh指定時は取り直します。
func (c *Client) crumbValue(ctx context.Context, refresh bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.crumb != "" && !refresh {
		return c.crumb, nil
	}

	// セッションクッキーの発行のみが目的のため、ステータスは問わない
	if err := c.touch(ctx, c.cfg.CookieURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/v1/test/getcrumb", nil)
	if err != nil {
		return "", err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode >= 400 {
		return "", fmt.Errorf("getcrumb http %d", res.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, 1024))
	if err != nil {
		return "", err
	}
	crumb := strings.TrimSpace(string(b))
	if crumb == "" {
		return "", errors.New("empty crumb")
	}
	c.crumb = crumb
	return crumb, nil
}

func (c *Client) touch(ctx context.Context, u string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 64<<10))
	return res.Body.Close()
}

// apiError はレスポンスに埋め込まれたエラーオブジェクトをGoのエラーに変換します。
func apiError(op string, e *dto.APIError) error {
	if strings.EqualFold(e.Code, "Not Found") {
		return fmt.Errorf("yahoo %s: %s: %w", op, e.Description, domain.ErrNotFound)
	}
	return fmt.Errorf("yahoo %s: %s: %s", op, e.Code, e.Description)
}

func anomaly(kind string) {
	metrics.VendorAnomalies.WithLabelValues(vendor, kind).Inc()
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func toInt64(p *float64) *int64 {
	if p == nil {
		return nil
	}
	v := int64(*p)
	return &v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func formatDate(unix int64) string {
	if unix <= 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format("2006-01-02")
}
