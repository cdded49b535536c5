// Package usecase implements the market overview: movers, sparklines and fixed instrument lists.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	marketentity "marketcolor/internal/domain/entity"
	"marketcolor/internal/feature/market/domain/entity"
	"marketcolor/internal/shared/fanout"
)

const (
	// DefaultMoversSlack is how many extra rows are requested to absorb rows the vendor trims.
	DefaultMoversSlack = 10
	// MaxMoversRows is the deepest screener row that can be paged to; the vendor caps count at this value.
	MaxMoversRows = 250
	// SparklinePoints is the maximum number of closes returned per symbol.
	SparklinePoints = 5
	// sparklineWindow covers at least five sessions across weekends and holidays.
	sparklineWindow = 7 * 24 * time.Hour
	// StatusClosed is reported when the market state cannot be determined.
	StatusClosed = "CLOSED"
)

// ErrUnknownMoverKind is returned for a kind other than gainers, losers or active.
var ErrUnknownMoverKind = errors.New("unknown mover type")

// QuoteRepository is the market data source.
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteRepository interface {
	GetQuotes(ctx context.Context, symbols []string) ([]marketentity.Quote, error)
	GetScreener(ctx context.Context, screenerID string, count int) ([]marketentity.Quote, error)
	GetChart(ctx context.Context, symbol string, from, to time.Time, interval string) ([]marketentity.Bar, error)
}

// MarketUsecase serves the market overview endpoints.
type MarketUsecase struct {
	repo  QuoteRepository
	slack int
	now   func() time.Time
	opts  fanout.Options
}

// NewMarketUsecase creates a MarketUsecase. A negative slack uses DefaultMoversSlack.
func NewMarketUsecase(repo QuoteRepository, slack int) *MarketUsecase {
	if slack < 0 {
		slack = DefaultMoversSlack
	}
	slack = min(slack, MaxMoversRows)
	return &MarketUsecase{
		repo:  repo,
		slack: slack,
		now:   time.Now,
		opts:  fanout.Options{Limit: 8, Timeout: 10 * time.Second},
	}
}

// SlackFromEnv reads MOVERS_SLACK, falling back to DefaultMoversSlack.
func SlackFromEnv() int {
	v, err := strconv.Atoi(os.Getenv("MOVERS_SLACK"))
	if err != nil || v < 0 {
		return DefaultMoversSlack
	}
	return v
}

// GetMovers returns rows [offset, offset+limit) of the ranked screener.
// The vendor has no offset parameter, so offset+limit+slack rows are requested and sliced.
// A vendor failure or an offset at or past MaxMoversRows yields an empty list.
func (u *MarketUsecase) GetMovers(ctx context.Context, kind entity.MoverKind, offset, limit int) ([]entity.MarketMover, error) {
	scrID, ok := kind.ScreenerID()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMoverKind, kind)
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || offset >= MaxMoversRows {
		return []entity.MarketMover{}, nil
	}
	limit = min(limit, MaxMoversRows-offset)

	quotes, err := u.repo.GetScreener(ctx, scrID, min(offset+limit+u.slack, MaxMoversRows))
	if err != nil {
		slog.Warn("movers screener failed", "kind", kind, "error", err)
		return []entity.MarketMover{}, nil
	}

	start := min(offset, len(quotes))
	end := min(offset+limit, len(quotes))
	out := make([]entity.MarketMover, 0, end-start)
	for _, q := range quotes[start:end] {
		out = append(out, entity.MarketMover{
			Symbol:        q.Symbol,
			Name:          q.Name,
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
			Volume:        q.Volume,
		})
	}
	return out, nil
}

// GetSparklines returns up to SparklinePoints daily closes per symbol, oldest first.
// Symbols that fail or have fewer than two closes are omitted.
func (u *MarketUsecase) GetSparklines(ctx context.Context, symbols []string) map[string][]float64 {
	to := u.now()
	from := to.Add(-sparklineWindow)

	results := fanout.Map(ctx, u.opts, symbols, func(ctx context.Context, symbol string) ([]marketentity.Bar, error) {
		return u.repo.GetChart(ctx, symbol, from, to, "1d")
	})

	out := make(map[string][]float64, len(symbols))
	for i, r := range results {
		if r.Err != nil {
			slog.Debug("sparkline fetch failed", "symbol", symbols[i], "error", r.Err)
			continue
		}
		closes := make([]float64, 0, len(r.Value))
		for _, b := range r.Value {
			closes = append(closes, b.Close)
		}
		if len(closes) > SparklinePoints {
			closes = closes[len(closes)-SparklinePoints:]
		}
		if len(closes) < 2 {
			continue
		}
		out[symbols[i]] = closes
	}
	return out
}

// Indices returns the major US indices. Unlike the other lists, a vendor failure is returned.
func (u *MarketUsecase) Indices(ctx context.Context) ([]entity.MarketIndex, error) {
	return u.snapshot(ctx, entity.Indices, false)
}

// Futures returns the index futures, or an empty list on failure.
func (u *MarketUsecase) Futures(ctx context.Context) []entity.MarketIndex {
	return u.tolerant(ctx, "futures", entity.Futures, false)
}

// Sectors returns the sector ETFs. The extended list adds categories and sparklines.
func (u *MarketUsecase) Sectors(ctx context.Context, extended bool) []entity.MarketIndex {
	if extended {
		return u.tolerant(ctx, "sectors", entity.ExtendedSectorETFs, true)
	}
	return u.tolerant(ctx, "sectors", entity.SectorETFs, false)
}

// Commodities returns commodity futures.
func (u *MarketUsecase) Commodities(ctx context.Context, extended bool) []entity.MarketIndex {
	if extended {
		return u.tolerant(ctx, "commodities", entity.ExtendedCommodities, true)
	}
	return u.tolerant(ctx, "commodities", entity.Commodities, false)
}

// Currencies returns FX pairs.
func (u *MarketUsecase) Currencies(ctx context.Context, extended bool) []entity.MarketIndex {
	if extended {
		return u.tolerant(ctx, "currencies", entity.ExtendedCurrencies, true)
	}
	return u.tolerant(ctx, "currencies", entity.Currencies, false)
}

// Status returns the market state reported for the S&P 500 index, or StatusClosed.
func (u *MarketUsecase) Status(ctx context.Context) string {
	quotes, err := u.repo.GetQuotes(ctx, []string{"^GSPC"})
	if err != nil {
		slog.Warn("market status unavailable", "error", err)
		return StatusClosed
	}
	for _, q := range quotes {
		if q.Symbol == "^GSPC" && q.MarketState != "" {
			return q.MarketState
		}
	}
	return StatusClosed
}

func (u *MarketUsecase) tolerant(ctx context.Context, list string, instruments []entity.Instrument, extended bool) []entity.MarketIndex {
	out, err := u.snapshot(ctx, instruments, extended)
	if err != nil {
		slog.Warn("market list unavailable", "list", list, "error", err)
		return []entity.MarketIndex{}
	}
	return out
}

// snapshot quotes every instrument and, for extended lists, attaches sparklines fetched concurrently.
// Quotes are matched by symbol; an instrument the vendor omits is left out.
func (u *MarketUsecase) snapshot(ctx context.Context, instruments []entity.Instrument, extended bool) ([]entity.MarketIndex, error) {
	symbols := make([]string, len(instruments))
	for i, in := range instruments {
		symbols[i] = in.Symbol
	}

	var (
		quotes     []marketentity.Quote
		sparklines map[string][]float64
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		quotes, err = u.repo.GetQuotes(ctx, symbols)
		return err
	})
	if extended {
		g.Go(func() error {
			sparklines = u.GetSparklines(ctx, symbols)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	bySymbol := make(map[string]marketentity.Quote, len(quotes))
	for _, q := range quotes {
		bySymbol[q.Symbol] = q
	}
	out := make([]entity.MarketIndex, 0, len(instruments))
	for _, in := range instruments {
		q, ok := bySymbol[in.Symbol]
		if !ok {
			continue
		}
		idx := entity.MarketIndex{
			Symbol:        in.Symbol,
			Name:          in.Name,
			Price:         q.Price,
			Change:        q.Change,
			ChangePercent: q.ChangePercent,
		}
		if extended {
			idx.Category = in.Category
			idx.Sparkline = sparklines[in.Symbol]
		}
		out = append(out, idx)
	}
	return out, nil
}
