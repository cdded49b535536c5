package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"marketcolor/internal/domain"
	market "marketcolor/internal/domain/entity"
	"marketcolor/internal/feature/stock/domain/entity"
	"marketcolor/internal/feature/stock/transport/handler"
	"marketcolor/internal/feature/stock/usecase"
)

// mockStockUsecase はStockUsecaseインターフェースのモック実装です。
type mockStockUsecase struct {
	GetDetailFunc func(ctx context.Context, symbol string, opts entity.DetailOptions) (entity.Detail, error)
	hits          []entity.SearchHit
	gotQuery      string
	analysts      market.AnalystData
	err           error
	gotExpiration time.Time
}

func (m *mockStockUsecase) GetDetail(ctx context.Context, symbol string, opts entity.DetailOptions) (entity.Detail, error) {
	return m.GetDetailFunc(ctx, symbol, opts)
}

func (m *mockStockUsecase) Search(_ context.Context, query string) []entity.SearchHit {
	m.gotQuery = query
	return m.hits
}

func (m *mockStockUsecase) GetAnalysts(context.Context, string) (market.AnalystData, error) {
	return m.analysts, m.err
}

func (m *mockStockUsecase) GetOwnership(context.Context, string) (market.OwnershipData, error) {
	return market.OwnershipData{}, m.err
}

func (m *mockStockUsecase) GetFinancials(context.Context, string) (market.FinancialStatements, error) {
	return market.FinancialStatements{}, m.err
}

func (m *mockStockUsecase) GetOptions(_ context.Context, _ string, expiration time.Time) (market.OptionsChain, error) {
	m.gotExpiration = expiration
	return market.OptionsChain{ExpirationDates: []string{"2026-06-19"}, Calls: []market.OptionContract{}, Puts: []market.OptionContract{}}, m.err
}

func serve(uc handler.StockUsecase, target string) *httptest.ResponseRecorder {
	h := handler.NewStockHandler(uc)
	r := gin.New()
	r.GET("/api/stock/search", h.Search)
	r.GET("/api/stock/:symbol", h.GetDetail)
	r.GET("/api/stock/:symbol/analysts", h.GetAnalysts)
	r.GET("/api/stock/:symbol/ownership", h.GetOwnership)
	r.GET("/api/stock/:symbol/financials", h.GetFinancials)
	r.GET("/api/stock/:symbol/options", h.GetOptions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

const quoteJSON = `{"symbol":"AAPL","name":"Apple Inc.","price":190,"change":0,"changePercent":0,"high":0,"low":0,"open":0,"previousClose":0}`

func TestStockHandler_GetDetail(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	barDate := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	detail := entity.Detail{
		Quote:   market.Quote{Symbol: "AAPL", Name: "Apple Inc.", Price: 190},
		History: []market.Bar{{Date: barDate, Close: 190, Volume: 10}},
	}

	tests := []struct {
		name           string
		target         string
		wantOpts       entity.DetailOptions
		news           []market.NewsItem
		usecaseErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "default range without optional parts",
			target:         "/api/stock/aapl",
			wantOpts:       entity.DetailOptions{Range: "1M"},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"quote":` + quoteJSON + `,"history":[{"date":"2026-01-02T00:00:00Z","open":0,"high":0,"low":0,"close":190,"volume":10}]}`,
		},
		{
			name:           "requested news renders an empty array",
			target:         "/api/stock/aapl?range=5Y&news=true&profile=false",
			wantOpts:       entity.DetailOptions{Range: "5Y", News: true},
			news:           []market.NewsItem{},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"quote":` + quoteJSON + `,"history":[{"date":"2026-01-02T00:00:00Z","open":0,"high":0,"low":0,"close":190,"volume":10}],"news":[]}`,
		},
		{
			name:           "unknown symbol",
			target:         "/api/stock/zzzz",
			wantOpts:       entity.DetailOptions{Range: "1M"},
			usecaseErr:     fmt.Errorf("stock ZZZZ: %w", domain.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Stock not found"}`,
		},
		{
			name:           "upstream failure",
			target:         "/api/stock/aapl",
			wantOpts:       entity.DetailOptions{Range: "1M"},
			usecaseErr:     errors.New("yahoo http 502"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to fetch stock data"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := &mockStockUsecase{GetDetailFunc: func(_ context.Context, symbol string, opts entity.DetailOptions) (entity.Detail, error) {
				assert.Equal(t, tt.wantOpts, opts)
				if tt.usecaseErr != nil {
					return entity.Detail{}, tt.usecaseErr
				}
				d := detail
				d.News = tt.news
				return d, nil
			}}

			w := serve(uc, tt.target)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestStockHandler_Search(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	uc := &mockStockUsecase{hits: []entity.SearchHit{{Symbol: "AAPL", Name: "Apple Inc."}}}
	w := serve(uc, "/api/stock/search?q=apple")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "apple", uc.gotQuery)
	assert.Equal(t, "public, s-maxage=300, stale-while-revalidate=600", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `[{"symbol":"AAPL","name":"Apple Inc."}]`, w.Body.String())

	w = serve(&mockStockUsecase{}, "/api/stock/search")
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestStockHandler_Fundamentals(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	notFound := fmt.Errorf("yahoo quoteSummary: %w", domain.ErrNotFound)
	tests := []struct {
		name           string
		target         string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "analysts",
			target:         "/api/stock/AAPL/analysts",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"recommendations":[{"period":"0m","strongBuy":1,"buy":2,"hold":3,"sell":0,"strongSell":0}],"upgradeDowngradeHistory":[]}`,
		},
		{
			name:           "analysts not found",
			target:         "/api/stock/AAPL/analysts",
			err:            notFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"No analyst data available"}`,
		},
		{
			name:           "ownership not found",
			target:         "/api/stock/AAPL/ownership",
			err:            notFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"No ownership data available"}`,
		},
		{
			name:           "financials failure",
			target:         "/api/stock/AAPL/financials",
			err:            errors.New("yahoo http 500"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to fetch financial data"}`,
		},
		{
			name:           "blank symbol",
			target:         "/api/stock/%20/ownership",
			err:            usecase.ErrInvalidSymbol,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Symbol is required"}`,
		},
		{
			name:           "options not found",
			target:         "/api/stock/AAPL/options",
			err:            notFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"No options data available"}`,
		},
		{
			name:           "malformed expiration",
			target:         "/api/stock/AAPL/options?expiration=June",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"expiration must be YYYY-MM-DD"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := &mockStockUsecase{
				analysts: market.AnalystData{
					Recommendations:         []market.RecommendationTrend{{Period: "0m", StrongBuy: 1, Buy: 2, Hold: 3}},
					UpgradeDowngradeHistory: []market.UpgradeDowngrade{},
				},
				err: tt.err,
			}

			w := serve(uc, tt.target)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestStockHandler_GetOptions_Expiration(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	uc := &mockStockUsecase{}
	w := serve(uc, "/api/stock/SPY/options?expiration=2026-06-19")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC), uc.gotExpiration)
	assert.JSONEq(t, `{"expirationDates":["2026-06-19"],"calls":[],"puts":[],"underlyingPrice":0}`, w.Body.String())
}
