package usecase

import (
	"context"
	"log/slog"
)

// WarmJob はスケジューラーから定期的に呼ばれ、構成銘柄キャッシュを更新します。
type WarmJob struct {
	r *Resolver
}

// NewWarmJob はWarmJobを生成します。
func NewWarmJob(r *Resolver) *WarmJob {
	return &WarmJob{r: r}
}

// Name はジョブ名です。
func (j *WarmJob) Name() string { return "constituents-warm" }

// Run はライブソースから再取得します。
func (j *WarmJob) Run(ctx context.Context) error {
	snap, err := j.r.Refresh(ctx)
	if err != nil {
		return err
	}
	slog.Info("constituent cache refreshed", "count", len(snap.Constituents))
	return nil
}
