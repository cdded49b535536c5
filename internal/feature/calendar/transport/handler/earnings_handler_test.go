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

	"marketcolor/internal/feature/calendar/domain/entity"
	"marketcolor/internal/feature/calendar/transport/handler"
	"marketcolor/internal/feature/calendar/usecase"
)

// mockEarningsUsecase はEarningsUsecaseインターフェースのモック実装です。
type mockEarningsUsecase struct {
	GetEarningsCalendarFunc func(ctx context.Context, from, to time.Time) ([]entity.EarningsEvent, error)
}

func (m *mockEarningsUsecase) GetEarningsCalendar(ctx context.Context, from, to time.Time) ([]entity.EarningsEvent, error) {
	return m.GetEarningsCalendarFunc(ctx, from, to)
}

func TestEarningsHandler_GetEarnings(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	est := 1.5
	tests := []struct {
		name           string
		query          string
		events         []entity.EarningsEvent
		usecaseErr     error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "success",
			query: "?from=2026-01-12&to=2026-01-16",
			events: []entity.EarningsEvent{
				{ID: "earnings-JPM-2026-01-13-0", Symbol: "JPM", Date: "2026-01-13", Hour: "bmo", Quarter: 4, Year: 2025, EpsEstimate: &est},
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"id":"earnings-JPM-2026-01-13-0","symbol":"JPM","date":"2026-01-13","hour":"bmo","quarter":4,"year":2025,"epsEstimate":1.5}]`,
		},
		{
			name:           "empty range",
			query:          "?from=2026-01-12&to=2026-01-12",
			events:         []entity.EarningsEvent{},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "missing to",
			query:          "?from=2026-01-12",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Missing required parameters: from, to"}`,
		},
		{
			name:           "malformed date",
			query:          "?from=01/12/2026&to=2026-01-16",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"from and to must be YYYY-MM-DD"}`,
		},
		{
			name:           "reversed range",
			query:          "?from=2026-01-16&to=2026-01-12",
			usecaseErr:     fmt.Errorf("%w: to before from", usecase.ErrInvalidRange),
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"to must not be before from"}`,
		},
		{
			name:           "not configured",
			query:          "?from=2026-01-12&to=2026-01-16",
			usecaseErr:     usecase.ErrNotConfigured,
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Earnings calendar is not configured"}`,
		},
		{
			name:           "vendor failure",
			query:          "?from=2026-01-12&to=2026-01-16",
			usecaseErr:     errors.New("finnhub http 429"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to fetch earnings calendar"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := &mockEarningsUsecase{GetEarningsCalendarFunc: func(_ context.Context, from, to time.Time) ([]entity.EarningsEvent, error) {
				return tt.events, tt.usecaseErr
			}}
			r := gin.New()
			r.GET("/api/calendar/earnings", handler.NewEarningsHandler(uc).GetEarnings)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/calendar/earnings"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
