// Package usecase implements the stock detail, symbol search and fundamentals tabs.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	market "marketcolor/internal/domain/entity"
	"marketcolor/internal/feature/stock/domain/entity"
	"marketcolor/internal/shared/fanout"
)

const (
	// DefaultRange is used for an empty or unknown range.
	DefaultRange = "1M"
	// MaxSearchHits is the maximum number of suggestions returned.
	MaxSearchHits = 8

	searchQuotesCount = 10
	newsCount         = 10
)

// ErrInvalidSymbol is returned for a blank symbol.
var ErrInvalidSymbol = errors.New("symbol is required")

// QuoteRepository は株価・チャート・プロフィール・検索を提供します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type QuoteRepository interface {
	GetQuote(ctx context.Context, symbol string) (market.Quote, error)
	GetChart(ctx context.Context, symbol string, from, to time.Time, interval string) ([]market.Bar, error)
	GetProfile(ctx context.Context, symbol string) (market.Profile, error)
	Search(ctx context.Context, query string, quotesCount, newsCount int) (market.SearchResult, error)
}

// FundamentalsRepository はアナリスト・保有者・財務諸表・オプションのタブを提供します。
// データが存在しない場合、実装は domain.ErrNotFound をラップして返します。
type FundamentalsRepository interface {
	GetAnalystData(ctx context.Context, symbol string) (market.AnalystData, error)
	GetOwnership(ctx context.Context, symbol string) (market.OwnershipData, error)
	GetFinancials(ctx context.Context, symbol string) (market.FinancialStatements, error)
	GetOptions(ctx context.Context, symbol string, expiration time.Time) (market.OptionsChain, error)
}

// StockUsecase は個別銘柄ページのビジネスロジックを提供します。
type StockUsecase struct {
	quotes       QuoteRepository
	fundamentals FundamentalsRepository
	now          func() time.Time
	opts         fanout.Options
}

// NewStockUsecase はStockUsecaseの新しいインスタンスを生成します。
func NewStockUsecase(quotes QuoteRepository, fundamentals FundamentalsRepository) *StockUsecase {
	return &StockUsecase{
		quotes:       quotes,
		fundamentals: fundamentals,
		now:          time.Now,
		opts:         fanout.Options{Timeout: 15 * time.Second},
	}
}

// HistoryWindow maps a chart range to its period start and bar interval.
func HistoryWindow(rng string, now time.Time) (time.Time, string) {
	switch rng {
	case "1D":
		return now.AddDate(0, 0, -1), "5m"
	case "5D":
		return now.AddDate(0, 0, -5), "15m"
	case "3M":
		return now.AddDate(0, -3, 0), "1d"
	case "6M":
		return now.AddDate(0, -6, 0), "1d"
	case "1Y":
		return now.AddDate(-1, 0, 0), "1d"
	case "5Y":
		return now.AddDate(-5, 0, 0), "1wk"
	default:
		return now.AddDate(0, -1, 0), "1d"
	}
}

// GetDetail は見積りと価格履歴を取得し、要求された場合はプロフィールとニュースも並行して取得します。
// 見積りと履歴は必須で、プロフィールとニュースの失敗はログに残して省略します。
func (u *StockUsecase) GetDetail(ctx context.Context, symbol string, opts entity.DetailOptions) (entity.Detail, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return entity.Detail{}, err
	}

	now := u.now()
	from, interval := HistoryWindow(opts.Range, now)

	// 各ブランチはDetailへの書き込み関数を返し、合流後に順に適用します。
	type apply = func(*entity.Detail)
	tasks := []fanout.Task[apply]{
		func(ctx context.Context) (apply, error) {
			q, err := u.quotes.GetQuote(ctx, symbol)
			if err != nil {
				return nil, fmt.Errorf("quote: %w", err)
			}
			return func(d *entity.Detail) { d.Quote = q }, nil
		},
		func(ctx context.Context) (apply, error) {
			bars, err := u.quotes.GetChart(ctx, symbol, from, now, interval)
			if err != nil {
				return nil, fmt.Errorf("history: %w", err)
			}
			return func(d *entity.Detail) { d.History = bars }, nil
		},
	}
	required := len(tasks)
	if opts.Profile {
		tasks = append(tasks, func(ctx context.Context) (apply, error) {
			p, err := u.quotes.GetProfile(ctx, symbol)
			if err != nil {
				return nil, fmt.Errorf("profile: %w", err)
			}
			return func(d *entity.Detail) { d.Profile = &p }, nil
		})
	}
	if opts.News {
		tasks = append(tasks, func(ctx context.Context) (apply, error) {
			res, err := u.quotes.Search(ctx, symbol, 0, newsCount)
			if err != nil {
				return nil, fmt.Errorf("news: %w", err)
			}
			return func(d *entity.Detail) { d.News = res.News }, nil
		})
	}

	results := fanout.JoinTolerant(ctx, u.opts, tasks)

	out := entity.Detail{History: []market.Bar{}}
	if opts.News {
		out.News = []market.NewsItem{}
	}
	for i, r := range results {
		if r.Err != nil {
			if i < required {
				return entity.Detail{}, fmt.Errorf("stock %s: %w", symbol, r.Err)
			}
			slog.Warn("optional stock data unavailable", "symbol", symbol, "error", r.Err)
			continue
		}
		r.Value(&out)
	}
	if out.History == nil {
		out.History = []market.Bar{}
	}
	return out, nil
}

// Search は株式とETFのみを最大 MaxSearchHits 件返します。空のクエリや上流の失敗は空のリストになります。
func (u *StockUsecase) Search(ctx context.Context, query string) []entity.SearchHit {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.SearchHit{}
	}

	res, err := u.quotes.Search(ctx, query, searchQuotesCount, 0)
	if err != nil {
		slog.Warn("symbol search failed", "query", query, "error", err)
		return []entity.SearchHit{}
	}

	out := make([]entity.SearchHit, 0, MaxSearchHits)
	for _, q := range res.Quotes {
		if !q.IsYahooFinance || (q.QuoteType != "EQUITY" && q.QuoteType != "ETF") {
			continue
		}
		name := q.ShortName
		if name == "" {
			name = q.LongName
		}
		if name == "" {
			name = q.Symbol
		}
		out = append(out, entity.SearchHit{Symbol: q.Symbol, Name: name})
		if len(out) == MaxSearchHits {
			break
		}
	}
	return out
}

// GetAnalysts returns analyst recommendations and rating changes.
func (u *StockUsecase) GetAnalysts(ctx context.Context, symbol string) (market.AnalystData, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return market.AnalystData{}, err
	}
	return u.fundamentals.GetAnalystData(ctx, symbol)
}

// GetOwnership returns institutional and insider holders.
func (u *StockUsecase) GetOwnership(ctx context.Context, symbol string) (market.OwnershipData, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return market.OwnershipData{}, err
	}
	return u.fundamentals.GetOwnership(ctx, symbol)
}

// GetFinancials returns annual statements.
func (u *StockUsecase) GetFinancials(ctx context.Context, symbol string) (market.FinancialStatements, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return market.FinancialStatements{}, err
	}
	return u.fundamentals.GetFinancials(ctx, symbol)
}

// GetOptions returns the chain for expiration, or the nearest one when expiration is zero.
func (u *StockUsecase) GetOptions(ctx context.Context, symbol string, expiration time.Time) (market.OptionsChain, error) {
	symbol, err := normalize(symbol)
	if err != nil {
		return market.OptionsChain{}, err
	}
	return u.fundamentals.GetOptions(ctx, symbol, expiration)
}

func normalize(symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", ErrInvalidSymbol
	}
	return s, nil
}
