package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketentity "marketcolor/internal/domain/entity"
	"marketcolor/internal/feature/market/domain/entity"
	"marketcolor/internal/feature/market/usecase"
)

// ErrAPI はモックと期待値の間で共有されるセンチネルエラーです。
var ErrAPI = errors.New("api error")

// mockQuoteRepository はQuoteRepositoryインターフェースのモック実装です。
type mockQuoteRepository struct {
	GetQuotesFunc   func(ctx context.Context, symbols []string) ([]marketentity.Quote, error)
	GetScreenerFunc func(ctx context.Context, screenerID string, count int) ([]marketentity.Quote, error)
	GetChartFunc    func(ctx context.Context, symbol string, from, to time.Time, interval string) ([]marketentity.Bar, error)
}

func (m *mockQuoteRepository) GetQuotes(ctx context.Context, symbols []string) ([]marketentity.Quote, error) {
	return m.GetQuotesFunc(ctx, symbols)
}

func (m *mockQuoteRepository) GetScreener(ctx context.Context, screenerID string, count int) ([]marketentity.Quote, error) {
	return m.GetScreenerFunc(ctx, screenerID, count)
}

func (m *mockQuoteRepository) GetChart(ctx context.Context, symbol string, from, to time.Time, interval string) ([]marketentity.Bar, error) {
	return m.GetChartFunc(ctx, symbol, from, to, interval)
}

func ranked(n int) []marketentity.Quote {
	out := make([]marketentity.Quote, n)
	for i := range out {
		out[i] = marketentity.Quote{Symbol: fmt.Sprintf("R%02d", i+1), Name: fmt.Sprintf("Rank %d", i+1), Price: float64(i + 1)}
	}
	return out
}

func TestMarketUsecase_GetMovers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name        string
		kind        entity.MoverKind
		offset      int
		limit       int
		vendorRows  int
		vendorErr   error
		wantScrID   string
		wantCount   int
		wantSymbols []string
		wantErr     error
		noCall      bool
	}{
		{
			name:        "page in the middle of the ranking",
			kind:        entity.Gainers,
			offset:      20,
			limit:       15,
			vendorRows:  50,
			wantScrID:   "day_gainers",
			wantCount:   45,
			wantSymbols: []string{"R21", "R22", "R23", "R24", "R25", "R26", "R27", "R28", "R29", "R30", "R31", "R32", "R33", "R34", "R35"},
		},
		{
			name:        "short vendor result is clamped",
			kind:        entity.Losers,
			offset:      3,
			limit:       5,
			vendorRows:  5,
			wantScrID:   "day_losers",
			wantCount:   18,
			wantSymbols: []string{"R04", "R05"},
		},
		{
			name:        "offset beyond the result",
			kind:        entity.Active,
			offset:      30,
			limit:       10,
			vendorRows:  12,
			wantScrID:   "most_actives",
			wantCount:   50,
			wantSymbols: []string{},
		},
		{
			name:        "vendor error degrades to empty",
			kind:        entity.Gainers,
			limit:       20,
			vendorErr:   ErrAPI,
			wantScrID:   "day_gainers",
			wantCount:   30,
			wantSymbols: []string{},
		},
		{
			name:        "window is capped at the deepest row",
			kind:        entity.Gainers,
			offset:      240,
			limit:       20,
			vendorRows:  usecase.MaxMoversRows,
			wantScrID:   "day_gainers",
			wantCount:   usecase.MaxMoversRows,
			wantSymbols: []string{"R241", "R242", "R243", "R244", "R245", "R246", "R247", "R248", "R249", "R250"},
		},
		{
			name:        "huge offset does not overflow or reach the vendor",
			kind:        entity.Gainers,
			offset:      math.MaxInt - 5,
			limit:       20,
			noCall:      true,
			wantSymbols: []string{},
		},
		{
			name:        "huge limit is bounded",
			kind:        entity.Losers,
			offset:      5,
			limit:       math.MaxInt,
			vendorRows:  8,
			wantScrID:   "day_losers",
			wantCount:   usecase.MaxMoversRows,
			wantSymbols: []string{"R06", "R07", "R08"},
		},
		{
			name:    "unknown kind",
			kind:    "sideways",
			limit:   20,
			wantErr: usecase.ErrUnknownMoverKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &mockQuoteRepository{GetScreenerFunc: func(ctx context.Context, screenerID string, count int) ([]marketentity.Quote, error) {
				if tt.noCall {
					t.Errorf("screener should not be called, got count %d", count)
				}
				assert.Equal(t, tt.wantScrID, screenerID)
				assert.Equal(t, tt.wantCount, count)
				if tt.vendorErr != nil {
					return nil, tt.vendorErr
				}
				return ranked(tt.vendorRows), nil
			}}
			uc := usecase.NewMarketUsecase(repo, usecase.DefaultMoversSlack)

			got, err := uc.GetMovers(ctx, tt.kind, tt.offset, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			symbols := make([]string, 0, len(got))
			for _, m := range got {
				symbols = append(symbols, m.Symbol)
			}
			assert.Equal(t, tt.wantSymbols, symbols)
			assert.LessOrEqual(t, len(got), tt.limit)
		})
	}
}

func TestMarketUsecase_GetSparklines(t *testing.T) {
	t.Parallel()

	bars := func(closes ...float64) []marketentity.Bar {
		out := make([]marketentity.Bar, len(closes))
		for i, c := range closes {
			out[i] = marketentity.Bar{Close: c}
		}
		return out
	}
	repo := &mockQuoteRepository{GetChartFunc: func(ctx context.Context, symbol string, from, to time.Time, interval string) ([]marketentity.Bar, error) {
		assert.Equal(t, "1d", interval)
		assert.Equal(t, 7*24*time.Hour, to.Sub(from))
		switch symbol {
		case "LONG":
			return bars(1, 2, 3, 4, 5, 6, 7), nil
		case "TWO":
			return bars(10, 11), nil
		case "ONE":
			return bars(10), nil
		case "NONE":
			return nil, nil
		default:
			return nil, ErrAPI
		}
	}}
	uc := usecase.NewMarketUsecase(repo, usecase.DefaultMoversSlack)

	got := uc.GetSparklines(context.Background(), []string{"LONG", "TWO", "ONE", "NONE", "FAIL"})

	assert.Equal(t, map[string][]float64{
		"LONG": {3, 4, 5, 6, 7},
		"TWO":  {10, 11},
	}, got)
}

func TestMarketUsecase_Lists(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	quotes := func(ctx context.Context, symbols []string) ([]marketentity.Quote, error) {
		out := make([]marketentity.Quote, 0, len(symbols))
		// reverse order and drop the first symbol: matching must be by symbol
		for i := len(symbols) - 1; i >= 1; i-- {
			out = append(out, marketentity.Quote{Symbol: symbols[i], Price: float64(i), ChangePercent: 0.5})
		}
		return out, nil
	}
	chart := func(ctx context.Context, symbol string, from, to time.Time, interval string) ([]marketentity.Bar, error) {
		return []marketentity.Bar{{Close: 1}, {Close: 2}}, nil
	}

	t.Run("basic sectors match quotes by symbol", func(t *testing.T) {
		t.Parallel()
		uc := usecase.NewMarketUsecase(&mockQuoteRepository{GetQuotesFunc: quotes}, 0)

		got := uc.Sectors(ctx, false)
		require.Len(t, got, len(entity.SectorETFs)-1)
		assert.Equal(t, "XLF", got[0].Symbol)
		assert.Equal(t, "Financials (XLF)", got[0].Name)
		assert.Equal(t, 1.0, got[0].Price)
		assert.Empty(t, got[0].Category)
		assert.Nil(t, got[0].Sparkline)
	})

	t.Run("extended commodities carry category and sparkline", func(t *testing.T) {
		t.Parallel()
		uc := usecase.NewMarketUsecase(&mockQuoteRepository{GetQuotesFunc: quotes, GetChartFunc: chart}, 0)

		got := uc.Commodities(ctx, true)
		require.Len(t, got, len(entity.ExtendedCommodities)-1)
		assert.Equal(t, "SI=F", got[0].Symbol)
		assert.Equal(t, "metals", got[0].Category)
		assert.Equal(t, []float64{1, 2}, got[0].Sparkline)
	})

	t.Run("vendor failure yields empty lists except indices", func(t *testing.T) {
		t.Parallel()
		repo := &mockQuoteRepository{
			GetQuotesFunc: func(context.Context, []string) ([]marketentity.Quote, error) { return nil, ErrAPI },
			GetChartFunc:  chart,
		}
		uc := usecase.NewMarketUsecase(repo, 0)

		assert.Empty(t, uc.Futures(ctx))
		assert.NotNil(t, uc.Futures(ctx))
		assert.Empty(t, uc.Currencies(ctx, true))
		_, err := uc.Indices(ctx)
		assert.ErrorIs(t, err, ErrAPI)
	})
}

func TestMarketUsecase_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		quotes []marketentity.Quote
		err    error
		want   string
	}{
		{name: "regular session", quotes: []marketentity.Quote{{Symbol: "^GSPC", MarketState: "REGULAR"}}, want: "REGULAR"},
		{name: "missing state", quotes: []marketentity.Quote{{Symbol: "^GSPC"}}, want: usecase.StatusClosed},
		{name: "index missing from the response", quotes: []marketentity.Quote{}, want: usecase.StatusClosed},
		{name: "vendor failure", err: ErrAPI, want: usecase.StatusClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := &mockQuoteRepository{GetQuotesFunc: func(ctx context.Context, symbols []string) ([]marketentity.Quote, error) {
				assert.Equal(t, []string{"^GSPC"}, symbols)
				return tt.quotes, tt.err
			}}
			assert.Equal(t, tt.want, usecase.NewMarketUsecase(repo, 0).Status(context.Background()))
		})
	}
}
