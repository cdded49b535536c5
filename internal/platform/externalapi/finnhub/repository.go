package finnhub

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	finnhub "github.com/Finnhub-Stock-API/finnhub-go/v2"

	"marketcolor/internal/feature/calendar/domain/entity"
	"marketcolor/internal/feature/calendar/usecase"
	"marketcolor/internal/platform/metrics"
)

// EarningsRepository はFinnhubの決算カレンダーAPIからデータを取得するEarningsRepository実装です。
type EarningsRepository struct {
	api *finnhub.DefaultApiService
}

// EarningsRepositoryがusecase.EarningsRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.EarningsRepository = (*EarningsRepository)(nil)

// NewEarningsRepository は指定された設定とHTTPクライアントでEarningsRepositoryを生成します。
func NewEarningsRepository(cfg Config, client *http.Client) *EarningsRepository {
	fc := finnhub.NewConfiguration()
	fc.AddDefaultHeader("X-Finnhub-Token", cfg.APIKey)
	fc.HTTPClient = client
	if cfg.BaseURL != "" {
		fc.Servers = finnhub.ServerConfigurations{{URL: cfg.BaseURL}}
	}
	return &EarningsRepository{api: finnhub.NewAPIClient(fc).DefaultApi}
}

// GetEarnings は [from, to] の決算発表予定を取得します。
func (r *EarningsRepository) GetEarnings(ctx context.Context, from, to string) (_ []entity.EarningsEvent, err error) {
	start := time.Now()
	defer func() { metrics.ObserveVendor("finnhub", "earnings_calendar", start, err) }()

	res, httpRes, err := r.api.EarningsCalendar(ctx).From(from).To(to).Execute()
	if httpRes != nil {
		defer func() {
			if cerr := httpRes.Body.Close(); cerr != nil {
				slog.Warn("failed to close response body", "error", cerr)
			}
		}()
	}
	if err != nil {
		if httpRes != nil {
			return nil, fmt.Errorf("finnhub http %d: %w", httpRes.StatusCode, err)
		}
		return nil, fmt.Errorf("finnhub: %w", err)
	}

	releases := res.GetEarningsCalendar()
	events := make([]entity.EarningsEvent, 0, len(releases))
	for _, e := range releases {
		if e.GetSymbol() == "" || e.GetDate() == "" {
			metrics.VendorAnomalies.WithLabelValues("finnhub", "earnings_incomplete").Inc()
			continue
		}
		ev := entity.EarningsEvent{
			Symbol:  e.GetSymbol(),
			Date:    e.GetDate(),
			Hour:    e.GetHour(),
			Quarter: int(e.GetQuarter()),
			Year:    int(e.GetYear()),
		}
		if e.HasEpsEstimate() {
			ev.EpsEstimate = ptr(float64(e.GetEpsEstimate()))
		}
		if e.HasEpsActual() {
			ev.EpsActual = ptr(float64(e.GetEpsActual()))
		}
		if e.HasRevenueEstimate() {
			ev.RevenueEstimate = ptr(float64(e.GetRevenueEstimate()))
		}
		if e.HasRevenueActual() {
			ev.RevenueActual = ptr(float64(e.GetRevenueActual()))
		}
		events = append(events, ev)
	}
	return events, nil
}

func ptr(v float64) *float64 { return &v }
