package di

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	analysishandler "marketcolor/internal/feature/analysis/transport/handler"
	analysisusecase "marketcolor/internal/feature/analysis/usecase"
	calendarhandler "marketcolor/internal/feature/calendar/transport/handler"
	calendarusecase "marketcolor/internal/feature/calendar/usecase"
	constituentsusecase "marketcolor/internal/feature/constituents/usecase"
	heatmaphandler "marketcolor/internal/feature/heatmap/transport/handler"
	heatmapusecase "marketcolor/internal/feature/heatmap/usecase"
	markethandler "marketcolor/internal/feature/market/transport/handler"
	marketusecase "marketcolor/internal/feature/market/usecase"
	stockhandler "marketcolor/internal/feature/stock/transport/handler"
	stockusecase "marketcolor/internal/feature/stock/usecase"
	"marketcolor/internal/platform/cache"
	healthhandler "marketcolor/internal/platform/http/handler"
)

// Handlers are the HTTP handlers mounted by the router.
type Handlers struct {
	Health   gin.HandlerFunc
	Heatmap  *heatmaphandler.HeatmapHandler
	Market   *markethandler.MarketHandler
	Stock    *stockhandler.StockHandler
	Calendar *calendarhandler.EarningsHandler
	Analysis *analysishandler.AnalysisHandler
}

// App is the wired application.
type App struct {
	Handlers Handlers
	// Resolver is exposed for the scheduled warm-up job.
	Resolver *constituentsusecase.Resolver
}

// NewApp wires every feature. rdb and db may be nil; the features that use them fall back
// to running without a cache.
func NewApp(ctx context.Context, rdb *redis.Client, db *gorm.DB) (*App, error) {
	yf := NewYahoo()

	resolver, err := NewConstituentResolver(NewConstituentCache(os.Getenv("CONSTITUENT_CACHE"), rdb, db))
	if err != nil {
		return nil, err
	}
	gen, err := NewGenerator(ctx)
	if err != nil {
		return nil, err
	}
	earnings := NewEarningsRepository(rdb)

	// Usecase
	heatmapUC := heatmapusecase.NewHeatmapUsecase(yf, resolver)
	marketUC := marketusecase.NewMarketUsecase(yf, marketusecase.SlackFromEnv())
	stockUC := stockusecase.NewStockUsecase(yf, cache.NewCachingFundamentalsRepository(rdb, yf, ""))
	calendarUC := calendarusecase.NewEarningsUsecase(earnings)
	analysisUC := analysisusecase.NewAnalysisUsecase(gen, yf)

	return &App{
		Handlers: Handlers{
			Health: healthhandler.NewHealth(healthhandler.Integrations{
				"ai":       analysisUC.Configured(),
				"earnings": earnings != nil,
				"redis":    rdb != nil,
				"database": db != nil,
			}),
			Heatmap:  heatmaphandler.NewHeatmapHandler(heatmapUC),
			Market:   markethandler.NewMarketHandler(marketUC),
			Stock:    stockhandler.NewStockHandler(stockUC),
			Calendar: calendarhandler.NewEarningsHandler(calendarUC),
			Analysis: analysishandler.NewAnalysisHandler(analysisUC),
		},
		Resolver: resolver,
	}, nil
}
