package yahoo

import (
	"context"
	"time"

	"github.com/wnjoon/go-yfinance/pkg/models"

	"marketcolor/internal/domain/entity"
)

// GetChart は [from, to) の期間の価格履歴をintervalの足で取得します。終値のない足は除外します。
func (c *Client) GetChart(ctx context.Context, symbol string, from, to time.Time, interval string) ([]entity.Bar, error) {
	params := models.HistoryParams{Start: &from, End: &to, Interval: interval}
	bars, err := callLibrary(ctx, c, "chart", symbol, func() ([]models.Bar, error) {
		return c.lib.History(symbol, params)
	})
	if err != nil {
		return nil, err
	}
	return windowBars(bars, from, to), nil
}
