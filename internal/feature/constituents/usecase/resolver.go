// Package usecase resolves the S&P 500 constituent list with caching and a static fallback.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/singleflight"

	"marketcolor/internal/feature/constituents/domain/entity"
	"marketcolor/internal/platform/metrics"
)

const (
	// CacheTTL はキャッシュされたリストの有効期間です。
	CacheTTL = 24 * time.Hour
	// MinConstituents を下回る件数しか取得できなかった場合、パース失敗とみなします。
	MinConstituents = 400
	// ResolveTimeout はリクエスト経路での1回のライブ取得に許す時間です。
	ResolveTimeout = 5 * time.Second
	// FailureCooldown の間は直近の失敗を覚えておき、ライブソースを叩かずに静的リストを返します。
	FailureCooldown = time.Minute
	// refreshRetries はRefresh（ウォームジョブ）での再試行回数です。
	refreshRetries = 3
)

// ErrParseFailure はライブソースから十分な件数を取得できなかった場合に返されます。
var ErrParseFailure = errors.New("constituent list parse failure")

// Cache は最後に取得したスナップショットを保持します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Cache interface {
	// Get はスナップショットを返します。存在しない場合は ok=false です。
	Get(ctx context.Context) (snap entity.Snapshot, ok bool, err error)
	Set(ctx context.Context, snap entity.Snapshot) error
}

// Source はライブのリスト取得元です。Fetch は1回だけ試行し、
// 再試行しても無駄なエラーは backoff.Permanent で包んで返します。
type Source interface {
	Fetch(ctx context.Context) ([]entity.Constituent, error)
}

// Resolver はキャッシュ、ライブソース、静的リストの順に構成銘柄を解決します。
// 期限切れ時の同時リクエストは1回のライブ取得を共有します。
type Resolver struct {
	cache          Cache
	source         Source
	fallback       []entity.Constituent
	now            func() time.Time
	newBackOff     func() backoff.BackOff
	resolveTimeout time.Duration
	cooldown       time.Duration

	group      singleflight.Group
	mu         sync.Mutex
	retryAfter time.Time
}

// Option はResolverの設定を変更します。
type Option func(*Resolver)

// WithClock は現在時刻の取得関数を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

// WithBackOff はRefreshの再試行間隔を差し替えます。
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(r *Resolver) { r.newBackOff = newBackOff }
}

// WithResolveTimeout はリクエスト経路でのライブ取得の上限時間を変更します。
func WithResolveTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.resolveTimeout = d }
}

// WithFailureCooldown は失敗を覚えておく期間を変更します。0 で無効になります。
func WithFailureCooldown(d time.Duration) Option {
	return func(r *Resolver) { r.cooldown = d }
}

// NewResolver はResolverを生成します。fallbackは正規化された上で保持されます。
func NewResolver(cache Cache, source Source, fallback []entity.Constituent, opts ...Option) *Resolver {
	r := &Resolver{
		cache:          cache,
		source:         source,
		fallback:       Normalize(fallback),
		now:            time.Now,
		newBackOff:     func() backoff.BackOff { return backoff.NewExponentialBackOff() },
		resolveTimeout: ResolveTimeout,
		cooldown:       FailureCooldown,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve は構成銘柄リストを返します。失敗時は静的リストにフォールバックするため、エラーは返しません。
// ライブ取得は1回だけ、resolveTimeout 以内で行います。再試行はウォームジョブに任せます。
func (r *Resolver) Resolve(ctx context.Context) []entity.Constituent {
	if snap, ok := r.cached(ctx); ok {
		metrics.ConstituentResolutions.WithLabelValues("cache").Inc()
		return snap.Constituents
	}
	if r.coolingDown() {
		metrics.ConstituentResolutions.WithLabelValues("fallback").Inc()
		return r.fallback
	}

	v, err, _ := r.group.Do("resolve", func() (any, error) {
		// 呼び出し元のキャンセルが共有中の他の呼び出しに波及しないよう切り離す
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.resolveTimeout)
		defer cancel()
		snap, err := r.refresh(fctx, 0)
		if err != nil {
			r.markFailed()
		}
		return snap, err
	})
	if err != nil {
		slog.Warn("constituent fetch failed, using static list", "error", err, "count", len(r.fallback))
		metrics.ConstituentResolutions.WithLabelValues("fallback").Inc()
		return r.fallback
	}
	metrics.ConstituentResolutions.WithLabelValues("live").Inc()
	return v.(entity.Snapshot).Constituents
}

// Refresh はライブソースから強制的に再取得し、成功した場合のみキャッシュを更新します。
// 一時的な失敗は指数バックオフで refreshRetries 回まで再試行します。
func (r *Resolver) Refresh(ctx context.Context) (entity.Snapshot, error) {
	return r.refresh(ctx, refreshRetries)
}

func (r *Resolver) refresh(ctx context.Context, retries uint64) (entity.Snapshot, error) {
	op := func() ([]entity.Constituent, error) {
		list, err := r.source.Fetch(ctx)
		if err != nil {
			slog.Debug("constituent fetch attempt failed", "error", err)
			return nil, err
		}
		list = Normalize(list)
		if len(list) < MinConstituents {
			return nil, backoff.Permanent(fmt.Errorf("%w: got %d rows, want at least %d", ErrParseFailure, len(list), MinConstituents))
		}
		return list, nil
	}
	// WithMaxRetries(b, 0) は無制限になるため、1回だけの場合は StopBackOff を使う
	var b backoff.BackOff = &backoff.StopBackOff{}
	if retries > 0 {
		b = backoff.WithMaxRetries(r.newBackOff(), retries)
	}
	list, err := backoff.RetryWithData(op, backoff.WithContext(b, ctx))
	if err != nil {
		return entity.Snapshot{}, fmt.Errorf("fetch constituents: %w", err)
	}

	snap := entity.Snapshot{Constituents: list, FetchedAt: r.now()}
	if err := r.cache.Set(ctx, snap); err != nil {
		slog.Warn("failed to store constituent snapshot", "error", err)
	}
	r.mu.Lock()
	r.retryAfter = time.Time{}
	r.mu.Unlock()
	return snap, nil
}

func (r *Resolver) coolingDown() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.now().Before(r.retryAfter)
}

func (r *Resolver) markFailed() {
	if r.cooldown <= 0 {
		return
	}
	r.mu.Lock()
	r.retryAfter = r.now().Add(r.cooldown)
	r.mu.Unlock()
}

func (r *Resolver) cached(ctx context.Context) (entity.Snapshot, bool) {
	snap, ok, err := r.cache.Get(ctx)
	if err != nil {
		slog.Warn("constituent cache read failed", "error", err)
		return entity.Snapshot{}, false
	}
	if !ok || len(snap.Constituents) == 0 {
		return entity.Snapshot{}, false
	}
	if r.now().Sub(snap.FetchedAt) > CacheTTL {
		return entity.Snapshot{}, false
	}
	return snap, true
}

// Normalize は "BRK.B" のようなシンボルを "BRK-B" に変換し、空シンボルと重複を取り除きます。
func Normalize(in []entity.Constituent) []entity.Constituent {
	out := make([]entity.Constituent, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		c.Symbol = strings.ReplaceAll(strings.TrimSpace(c.Symbol), ".", "-")
		c.Name = strings.TrimSpace(c.Name)
		c.Sector = strings.TrimSpace(c.Sector)
		if c.Symbol == "" {
			continue
		}
		if _, dup := seen[c.Symbol]; dup {
			continue
		}
		seen[c.Symbol] = struct{}{}
		out = append(out, c)
	}
	return out
}
