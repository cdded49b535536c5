package yahoo

import (
	"context"
	"fmt"
	"time"

	"github.com/wnjoon/go-yfinance/pkg/models"

	"marketcolor/internal/domain"
	"marketcolor/internal/domain/entity"
)

type optionsResult struct {
	dates []time.Time
	chain *models.OptionChain
}

// GetOptions はオプションチェーンを取得します。expirationがゼロ値の場合は直近の満期を返します。
func (c *Client) GetOptions(ctx context.Context, symbol string, expiration time.Time) (entity.OptionsChain, error) {
	res, err := callLibrary(ctx, c, "options", symbol, func() (optionsResult, error) {
		dates, chain, err := c.lib.Options(symbol, expiration)
		return optionsResult{dates: dates, chain: chain}, err
	})
	if err != nil {
		return entity.OptionsChain{}, err
	}
	if len(res.dates) == 0 || res.chain == nil {
		return entity.OptionsChain{}, fmt.Errorf("yahoo options %s: %w", symbol, domain.ErrNotFound)
	}

	out := entity.OptionsChain{
		ExpirationDates: make([]string, 0, len(res.dates)),
		Calls:           toContracts(res.chain.Calls),
		Puts:            toContracts(res.chain.Puts),
	}
	for _, d := range res.dates {
		out.ExpirationDates = append(out.ExpirationDates, formatDate(d.Unix()))
	}
	if u := res.chain.Underlying; u != nil {
		out.UnderlyingPrice = u.RegularMarketPrice
	}
	return out, nil
}

func toContracts(in []models.Option) []entity.OptionContract {
	out := make([]entity.OptionContract, 0, len(in))
	for _, o := range in {
		if o.Strike <= 0 || o.ContractSymbol == "" {
			anomaly("option_incomplete")
			continue
		}
		out = append(out, entity.OptionContract{
			ContractSymbol:    o.ContractSymbol,
			Strike:            o.Strike,
			LastPrice:         nonZero(o.LastPrice),
			Bid:               nonZero(o.Bid),
			Ask:               nonZero(o.Ask),
			Change:            nonZero(o.Change),
			PercentChange:     nonZero(o.PercentChange),
			Volume:            nonZero(float64(o.Volume)),
			OpenInterest:      nonZero(float64(o.OpenInterest)),
			ImpliedVolatility: nonZero(o.ImpliedVolatility),
			InTheMoney:        o.InTheMoney,
			Expiration:        formatDate(o.Expiration),
		})
	}
	return out
}
