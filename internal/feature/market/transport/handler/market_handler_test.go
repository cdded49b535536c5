package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"marketcolor/internal/feature/market/domain/entity"
	"marketcolor/internal/feature/market/transport/handler"
	"marketcolor/internal/feature/market/usecase"
)

// mockMarketUsecase はMarketUsecaseインターフェースのモック実装です。
type mockMarketUsecase struct {
	GetMoversFunc func(ctx context.Context, kind entity.MoverKind, offset, limit int) ([]entity.MarketMover, error)
	IndicesFunc   func(ctx context.Context) ([]entity.MarketIndex, error)
	list          []entity.MarketIndex
	gotExtended   bool
	state         string
}

func (m *mockMarketUsecase) GetMovers(ctx context.Context, kind entity.MoverKind, offset, limit int) ([]entity.MarketMover, error) {
	return m.GetMoversFunc(ctx, kind, offset, limit)
}

func (m *mockMarketUsecase) Indices(ctx context.Context) ([]entity.MarketIndex, error) {
	return m.IndicesFunc(ctx)
}

func (m *mockMarketUsecase) Futures(context.Context) []entity.MarketIndex { return m.list }

func (m *mockMarketUsecase) Sectors(_ context.Context, extended bool) []entity.MarketIndex {
	m.gotExtended = extended
	return m.list
}

func (m *mockMarketUsecase) Commodities(_ context.Context, extended bool) []entity.MarketIndex {
	m.gotExtended = extended
	return m.list
}

func (m *mockMarketUsecase) Currencies(_ context.Context, extended bool) []entity.MarketIndex {
	m.gotExtended = extended
	return m.list
}

func (m *mockMarketUsecase) Status(context.Context) string { return m.state }

func serve(h *handler.MarketHandler, target string) *httptest.ResponseRecorder {
	r := gin.New()
	r.GET("/api/market/movers", h.GetMovers)
	r.GET("/api/market/indices", h.GetIndices)
	r.GET("/api/market/futures", h.GetFutures)
	r.GET("/api/market/sectors", h.GetSectors)
	r.GET("/api/market/commodities", h.GetCommodities)
	r.GET("/api/market/currencies", h.GetCurrencies)
	r.GET("/api/market/status", h.GetStatus)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestMarketHandler_GetMovers(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	vol := int64(1200)
	tests := []struct {
		name           string
		target         string
		usecaseErr     error
		wantKind       entity.MoverKind
		wantOffset     int
		wantLimit      int
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "defaults",
			target:         "/api/market/movers",
			wantKind:       entity.Gainers,
			wantLimit:      20,
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"symbol":"NVDA","name":"NVIDIA","price":120,"change":6,"changePercent":5,"volume":1200}]`,
		},
		{
			name:           "explicit window and limit cap",
			target:         "/api/market/movers?type=losers&offset=40&limit=500",
			wantKind:       entity.Losers,
			wantOffset:     40,
			wantLimit:      100,
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"symbol":"NVDA","name":"NVIDIA","price":120,"change":6,"changePercent":5,"volume":1200}]`,
		},
		{
			name:           "malformed offset",
			target:         "/api/market/movers?offset=abc",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"offset and limit must be non-negative integers"}`,
		},
		{
			name:           "unknown type",
			target:         "/api/market/movers?type=sideways",
			usecaseErr:     usecase.ErrUnknownMoverKind,
			wantKind:       "sideways",
			wantLimit:      20,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"type must be one of gainers, losers, active"}`,
		},
		{
			name:           "unexpected failure",
			target:         "/api/market/movers?type=active",
			usecaseErr:     errors.New("boom"),
			wantKind:       entity.Active,
			wantLimit:      20,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to fetch market movers"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := &mockMarketUsecase{GetMoversFunc: func(ctx context.Context, kind entity.MoverKind, offset, limit int) ([]entity.MarketMover, error) {
				assert.Equal(t, tt.wantKind, kind)
				assert.Equal(t, tt.wantOffset, offset)
				assert.Equal(t, tt.wantLimit, limit)
				if tt.usecaseErr != nil {
					return nil, tt.usecaseErr
				}
				return []entity.MarketMover{{Symbol: "NVDA", Name: "NVIDIA", Price: 120, Change: 6, ChangePercent: 5, Volume: &vol}}, nil
			}}

			w := serve(handler.NewMarketHandler(uc), tt.target)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

func TestMarketHandler_GetIndices(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		uc := &mockMarketUsecase{IndicesFunc: func(context.Context) ([]entity.MarketIndex, error) {
			return []entity.MarketIndex{{Symbol: "^GSPC", Name: "S&P 500", Price: 5000, Change: 10, ChangePercent: 0.2}}, nil
		}}
		w := serve(handler.NewMarketHandler(uc), "/api/market/indices")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"symbol":"^GSPC","name":"S&P 500","price":5000,"change":10,"changePercent":0.2}]`, w.Body.String())
	})

	t.Run("vendor failure", func(t *testing.T) {
		t.Parallel()
		uc := &mockMarketUsecase{IndicesFunc: func(context.Context) ([]entity.MarketIndex, error) {
			return nil, errors.New("yahoo http 503")
		}}
		w := serve(handler.NewMarketHandler(uc), "/api/market/indices")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Failed to fetch market indices"}`, w.Body.String())
	})
}

func TestMarketHandler_Lists(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		target       string
		list         []entity.MarketIndex
		wantExtended bool
		expectedBody string
	}{
		{
			name:         "empty futures",
			target:       "/api/market/futures",
			expectedBody: `[]`,
		},
		{
			name:         "basic sectors omit category and sparkline",
			target:       "/api/market/sectors",
			list:         []entity.MarketIndex{{Symbol: "XLK", Name: "Technology (XLK)", Price: 200}},
			expectedBody: `[{"symbol":"XLK","name":"Technology (XLK)","price":200,"change":0,"changePercent":0}]`,
		},
		{
			name:         "extended commodities",
			target:       "/api/market/commodities?extended=true",
			list:         []entity.MarketIndex{{Symbol: "GC=F", Name: "Gold", Price: 2400, Category: "metals", Sparkline: []float64{2390, 2400}}},
			wantExtended: true,
			expectedBody: `[{"symbol":"GC=F","name":"Gold","price":2400,"change":0,"changePercent":0,"category":"metals","sparkline":[2390,2400]}]`,
		},
		{
			name:         "currencies ignore other values",
			target:       "/api/market/currencies?extended=yes",
			expectedBody: `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := &mockMarketUsecase{list: tt.list}

			w := serve(handler.NewMarketHandler(uc), tt.target)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
			assert.Equal(t, tt.wantExtended, uc.gotExtended)
		})
	}
}

func TestMarketHandler_GetStatus(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	w := serve(handler.NewMarketHandler(&mockMarketUsecase{state: "PRE"}), "/api/market/status")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":"PRE"}`, w.Body.String())
}
