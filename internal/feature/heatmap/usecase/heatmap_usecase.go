// Package usecase builds the S&P 500 sector heatmap.
package usecase

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"

	marketentity "marketcolor/internal/domain/entity"
	centity "marketcolor/internal/feature/constituents/domain/entity"
	"marketcolor/internal/feature/heatmap/domain/entity"
	"marketcolor/internal/platform/metrics"
	"marketcolor/internal/shared/fanout"
)

const (
	// BatchSize は1回のクォート取得に含める最大シンボル数です。
	BatchSize = 100
	// batchTimeout は1バッチあたりの上限時間です。超過したバッチは失敗として扱います。
	batchTimeout = 15 * time.Second
	// batchConcurrency は同時に実行するバッチ数の上限です。
	batchConcurrency = 5
)

// QuoteRepository は複数銘柄のクォートを一括取得します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteRepository interface {
	GetQuotes(ctx context.Context, symbols []string) ([]marketentity.Quote, error)
}

// ConstituentResolver は構成銘柄リストを返します。失敗しても静的リストを返すため、エラーはありません。
type ConstituentResolver interface {
	Resolve(ctx context.Context) []centity.Constituent
}

// HeatmapUsecase はヒートマップ集計のユースケースです。
type HeatmapUsecase struct {
	quotes   QuoteRepository
	resolver ConstituentResolver
	opts     fanout.Options
}

// NewHeatmapUsecase はHeatmapUsecaseを生成します。
func NewHeatmapUsecase(quotes QuoteRepository, resolver ConstituentResolver) *HeatmapUsecase {
	return &HeatmapUsecase{
		quotes:   quotes,
		resolver: resolver,
		opts:     fanout.Options{Limit: batchConcurrency, Timeout: batchTimeout},
	}
}

// Heatmap は構成銘柄を解決してからBuildを実行します。
func (u *HeatmapUsecase) Heatmap(ctx context.Context) []entity.Sector {
	return u.Build(ctx, u.resolver.Resolve(ctx))
}

// Build は構成銘柄をセクターごとにまとめ、時価総額の降順に並べます。
//
// クォートは BatchSize 件ずつ並行に取得し、失敗したバッチはログに記録して除外します。
// 一部のバッチが失敗した場合は空のセクターも残し、全バッチが失敗した場合は空のスライスを返します。
func (u *HeatmapUsecase) Build(ctx context.Context, constituents []centity.Constituent) []entity.Sector {
	info := make(map[string]centity.Constituent, len(constituents))
	symbols := make([]string, 0, len(constituents))
	var sectorOrder []string
	buckets := make(map[string][]entity.HeatmapStock)
	for _, c := range constituents {
		if _, dup := info[c.Symbol]; dup {
			continue
		}
		info[c.Symbol] = c
		symbols = append(symbols, c.Symbol)
		if _, ok := buckets[c.Sector]; !ok {
			buckets[c.Sector] = []entity.HeatmapStock{}
			sectorOrder = append(sectorOrder, c.Sector)
		}
	}

	results := fanout.Map(ctx, u.opts, fanout.Chunk(symbols, BatchSize), u.quotes.GetQuotes)

	placed := make(map[string]struct{}, len(symbols))
	failed := 0
	for i, r := range results {
		if r.Err != nil {
			slog.Warn("heatmap batch failed", "batch", i, "error", r.Err)
			metrics.HeatmapBatchFailures.Inc()
			failed++
			continue
		}
		for _, q := range r.Value {
			c, ok := info[q.Symbol]
			if !ok {
				continue
			}
			if q.MarketCap == nil || *q.MarketCap <= 0 {
				continue
			}
			if _, dup := placed[q.Symbol]; dup {
				continue
			}
			placed[q.Symbol] = struct{}{}
			buckets[c.Sector] = append(buckets[c.Sector], entity.HeatmapStock{
				Symbol:        q.Symbol,
				Name:          c.Name,
				Sector:        c.Sector,
				Price:         q.Price,
				Change:        q.Change,
				ChangePercent: q.ChangePercent,
				MarketCap:     *q.MarketCap,
			})
		}
	}

	if failed == len(results) {
		if failed > 0 {
			slog.Error("all heatmap batches failed", "batches", failed)
		}
		return []entity.Sector{}
	}

	sectors := make([]entity.Sector, 0, len(sectorOrder))
	for _, name := range sectorOrder {
		children := buckets[name]
		slices.SortStableFunc(children, func(a, b entity.HeatmapStock) int {
			return cmpDesc(a.MarketCap, b.MarketCap)
		})
		sectors = append(sectors, entity.Sector{Name: name, Children: children})
	}
	slices.SortStableFunc(sectors, func(a, b entity.Sector) int {
		return cmpDesc(a.TotalMarketCap(), b.TotalMarketCap())
	})
	return sectors
}

// WeightedChangePercent は時価総額で加重した騰落率の平均です。時価総額の合計が0の場合は0を返します。
func WeightedChangePercent(s entity.Sector) float64 {
	if len(s.Children) == 0 {
		return 0
	}
	x := make([]float64, len(s.Children))
	w := make([]float64, len(s.Children))
	for i, c := range s.Children {
		x[i] = c.ChangePercent
		w[i] = c.MarketCap
	}
	m := stat.Mean(x, w)
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0
	}
	return m
}

func cmpDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}
