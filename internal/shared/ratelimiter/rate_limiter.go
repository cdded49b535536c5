package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、外部API呼び出しの頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiter は固定ウィンドウ方式で外部API呼び出しの頻度を制限します。
// ヒートマップのバッチ取得など複数のgoroutineから同時に呼ばれるため、内部状態はmutexで保護します。
type RateLimiter struct {
	mu        sync.Mutex
	limit     int           // ウィンドウあたりの上限
	interval  time.Duration // ウィンドウの長さ
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiter は新しいRateLimiterのインスタンスを生成します。limit が0以下の場合は制限しません。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// Wait は上限に達している場合、次のウィンドウまで待機します。
// 待機中にctxがキャンセルされた場合はctx.Err()を返し、枠を消費しません。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil || rl.limit <= 0 {
		return nil
	}
	for {
		sleep := rl.reserve()
		if sleep <= 0 {
			return nil
		}
		slog.Debug("rate limit reached, waiting", "limit", rl.limit, "sleep", sleep)
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// reserve は枠が空いていれば消費して0を、空いていなければ次のウィンドウまでの待ち時間を返します。
func (rl *RateLimiter) reserve() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
	if rl.count < rl.limit {
		rl.count++
		return 0
	}
	return rl.interval - now.Sub(rl.lastReset)
}
