package yahoo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wnjoon/go-yfinance/pkg/models"

	"marketcolor/internal/domain"
	"marketcolor/internal/domain/entity"
	"marketcolor/internal/platform/externalapi/yahoo/dto"
)

// GetQuotes は複数シンボルの見積りを1リクエストで取得します。
// Yahooは未知のシンボルを黙って省くため、戻り値の件数は入力より少ないことがあります。
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]entity.Quote, error) {
	if len(symbols) == 0 {
		return []entity.Quote{}, nil
	}

	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))

	var body dto.QuoteResponse
	if err := c.getJSON(ctx, "quote", "/v7/finance/quote", q, &body); err != nil {
		return nil, err
	}
	if e := body.QuoteResponse.Error; e != nil {
		return nil, apiError("quote", e)
	}
	return toQuotes(body.QuoteResponse.Result), nil
}

// GetQuote は単一シンボルの見積りをティッカーAPIから取得します。
func (c *Client) GetQuote(ctx context.Context, symbol string) (entity.Quote, error) {
	q, err := callLibrary(ctx, c, "quote", symbol, func() (*models.Quote, error) {
		return c.lib.Quote(symbol)
	})
	if err != nil {
		return entity.Quote{}, err
	}
	out, ok := quoteFromLibrary(symbol, q)
	if !ok {
		return entity.Quote{}, fmt.Errorf("yahoo quote %s: %w", symbol, domain.ErrNotFound)
	}
	return out, nil
}

// GetScreener は定義済みスクリーナー（day_gainers など）の上位count件を取得します。
func (c *Client) GetScreener(ctx context.Context, screenerID string, count int) ([]entity.Quote, error) {
	res, err := callLibrary(ctx, c, "screener", screenerID, func() (*models.ScreenerResult, error) {
		return c.lib.Screen(screenerID, count)
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return []entity.Quote{}, nil
	}
	out := make([]entity.Quote, 0, len(res.Quotes))
	for _, q := range res.Quotes {
		if q.Symbol == "" {
			anomaly("quote_missing_symbol")
			continue
		}
		out = append(out, screenerQuote(q))
	}
	return out, nil
}

// toQuotes はパース境界です。シンボルのない要素は集計対象にできないため、件数を記録して除外します。
func toQuotes(in []dto.Quote) []entity.Quote {
	out := make([]entity.Quote, 0, len(in))
	for _, q := range in {
		if q.Symbol == "" {
			anomaly("quote_missing_symbol")
			continue
		}
		out = append(out, toQuote(q))
	}
	return out
}

func toQuote(q dto.Quote) entity.Quote {
	out := entity.Quote{
		Symbol:           q.Symbol,
		Name:             firstNonEmpty(q.ShortName, q.LongName, q.Symbol),
		Price:            deref(q.RegularMarketPrice),
		Change:           deref(q.RegularMarketChange),
		ChangePercent:    deref(q.RegularMarketChangePercent),
		High:             deref(q.RegularMarketDayHigh),
		Low:              deref(q.RegularMarketDayLow),
		Open:             deref(q.RegularMarketOpen),
		PreviousClose:    deref(q.RegularMarketPreviousClose),
		MarketCap:        q.MarketCap,
		Volume:           toInt64(q.RegularMarketVolume),
		AvgVolume:        toInt64(q.AverageDailyVolume3Month),
		PERatio:          q.TrailingPE,
		ForwardPE:        q.ForwardPE,
		DividendYield:    q.DividendYield,
		FiftyTwoWeekHigh: q.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  q.FiftyTwoWeekLow,
		Exchange:         q.Exchange,
		MarketState:      q.MarketState,
	}
	if q.RegularMarketTime != nil && *q.RegularMarketTime > 0 {
		t := time.Unix(*q.RegularMarketTime, 0).UTC()
		out.RegularMarketTime = &t
	}
	return out
}
