// Package handler はstockフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketcolor/internal/api"
	"marketcolor/internal/domain"
	market "marketcolor/internal/domain/entity"
	"marketcolor/internal/feature/stock/domain/entity"
	"marketcolor/internal/feature/stock/transport/http/dto"
	"marketcolor/internal/feature/stock/usecase"
)

const expirationLayout = "2006-01-02"

// StockUsecase は個別銘柄のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	GetDetail(ctx context.Context, symbol string, opts entity.DetailOptions) (entity.Detail, error)
	Search(ctx context.Context, query string) []entity.SearchHit
	GetAnalysts(ctx context.Context, symbol string) (market.AnalystData, error)
	GetOwnership(ctx context.Context, symbol string) (market.OwnershipData, error)
	GetFinancials(ctx context.Context, symbol string) (market.FinancialStatements, error)
	GetOptions(ctx context.Context, symbol string, expiration time.Time) (market.OptionsChain, error)
}

// StockHandler は個別銘柄のHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler はStockHandlerの新しいインスタンスを生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetDetail は見積り・価格履歴と、要求に応じてプロフィール・ニュースを返します。
//
// エンドポイント: GET /api/stock/:symbol?range=1M&profile=true&news=true
func (h *StockHandler) GetDetail(c *gin.Context) {
	opts := entity.DetailOptions{
		Range:   c.DefaultQuery("range", usecase.DefaultRange),
		Profile: c.Query("profile") == "true",
		News:    c.Query("news") == "true",
	}

	d, err := h.uc.GetDetail(c.Request.Context(), c.Param("symbol"), opts)
	if err != nil {
		respondError(c, err, "Stock not found", "Failed to fetch stock data")
		return
	}

	res := dto.StockDetailResponse{Quote: d.Quote, History: d.History, Profile: d.Profile}
	if opts.News {
		res.News = &d.News
	}
	c.JSON(http.StatusOK, res)
}

// Search は銘柄候補を返します。
//
// エンドポイント: GET /api/stock/search?q=
func (h *StockHandler) Search(c *gin.Context) {
	hits := h.uc.Search(c.Request.Context(), c.Query("q"))

	out := make([]dto.SearchHitResponse, 0, len(hits))
	for _, hit := range hits {
		out = append(out, dto.SearchHitResponse{Symbol: hit.Symbol, Name: hit.Name})
	}
	c.Header("Cache-Control", "public, s-maxage=300, stale-while-revalidate=600")
	c.JSON(http.StatusOK, out)
}

// GetAnalysts はエンドポイント GET /api/stock/:symbol/analysts を処理します。
func (h *StockHandler) GetAnalysts(c *gin.Context) {
	data, err := h.uc.GetAnalysts(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err, "No analyst data available", "Failed to fetch analyst data")
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetOwnership はエンドポイント GET /api/stock/:symbol/ownership を処理します。
func (h *StockHandler) GetOwnership(c *gin.Context) {
	data, err := h.uc.GetOwnership(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err, "No ownership data available", "Failed to fetch ownership data")
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetFinancials はエンドポイント GET /api/stock/:symbol/financials を処理します。
func (h *StockHandler) GetFinancials(c *gin.Context) {
	data, err := h.uc.GetFinancials(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		respondError(c, err, "No financial data available", "Failed to fetch financial data")
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetOptions はエンドポイント GET /api/stock/:symbol/options?expiration=YYYY-MM-DD を処理します。
// expirationを省略した場合は直近の満期を返します。
func (h *StockHandler) GetOptions(c *gin.Context) {
	var expiration time.Time
	if v := c.Query("expiration"); v != "" {
		t, err := time.Parse(expirationLayout, v)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "expiration must be YYYY-MM-DD"})
			return
		}
		expiration = t
	}

	data, err := h.uc.GetOptions(c.Request.Context(), c.Param("symbol"), expiration)
	if err != nil {
		respondError(c, err, "No options data available", "Failed to fetch options data")
		return
	}
	c.JSON(http.StatusOK, data)
}

// respondError はエラーを 400/404/500 に振り分けます。
func respondError(c *gin.Context, err error, notFound, failed string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Symbol is required"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: notFound})
	default:
		slog.Error(failed, "path", c.FullPath(), "symbol", c.Param("symbol"), "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: failed})
	}
}
