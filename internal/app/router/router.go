// Package router mounts every HTTP route on a gin engine.
package router

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"marketcolor/internal/app/di"
	"marketcolor/internal/feature/analysis/transport/handler"
	"marketcolor/internal/platform/http/middleware"
	"marketcolor/internal/platform/metrics"
)

// NewRouter creates the engine with request IDs, access logs, metrics and CORS.
func NewRouter(h di.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(), metrics.Middleware())
	r.Use(cors.New(corsConfig(os.Getenv("CORS_ALLOWED_ORIGINS"))))

	// 導通確認用
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")

	market := api.Group("/market")
	{
		market.GET("/heatmap", h.Heatmap.GetHeatmap)
		market.GET("/movers", h.Market.GetMovers)
		market.GET("/indices", h.Market.GetIndices)
		market.GET("/futures", h.Market.GetFutures)
		market.GET("/sectors", h.Market.GetSectors)
		market.GET("/commodities", h.Market.GetCommodities)
		market.GET("/currencies", h.Market.GetCurrencies)
		market.GET("/status", h.Market.GetStatus)
	}

	stock := api.Group("/stock")
	{
		stock.GET("/search", h.Stock.Search)
		stock.GET("/:symbol", h.Stock.GetDetail)
		stock.GET("/:symbol/analysts", h.Stock.GetAnalysts)
		stock.GET("/:symbol/ownership", h.Stock.GetOwnership)
		stock.GET("/:symbol/financials", h.Stock.GetFinancials)
		stock.GET("/:symbol/options", h.Stock.GetOptions)
	}

	api.GET("/calendar/earnings", h.Calendar.GetEarnings)

	api.POST("/analysis", h.Analysis.Analyze)
	api.POST("/analysis/thesis", h.Analysis.Thesis)

	return r
}

// corsConfig allows the comma separated origins, or every origin when none is configured.
func corsConfig(origins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader, handler.StreamStatusTrailer},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}
