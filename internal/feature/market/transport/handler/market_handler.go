// Package handler はmarketフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketcolor/internal/api"
	"marketcolor/internal/feature/market/domain/entity"
	"marketcolor/internal/feature/market/transport/http/dto"
	"marketcolor/internal/feature/market/usecase"
)

const (
	defaultMoversLimit = 20
	maxMoversLimit     = 100
)

// MarketUsecase はマーケット概況のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type MarketUsecase interface {
	GetMovers(ctx context.Context, kind entity.MoverKind, offset, limit int) ([]entity.MarketMover, error)
	Indices(ctx context.Context) ([]entity.MarketIndex, error)
	Futures(ctx context.Context) []entity.MarketIndex
	Sectors(ctx context.Context, extended bool) []entity.MarketIndex
	Commodities(ctx context.Context, extended bool) []entity.MarketIndex
	Currencies(ctx context.Context, extended bool) []entity.MarketIndex
	Status(ctx context.Context) string
}

// MarketHandler はマーケット概況のHTTPリクエストを処理します。
type MarketHandler struct {
	uc MarketUsecase
}

// NewMarketHandler はMarketHandlerの新しいインスタンスを生成します。
func NewMarketHandler(uc MarketUsecase) *MarketHandler {
	return &MarketHandler{uc: uc}
}

// GetMovers はランキングの [offset, offset+limit) を返します。
//
// エンドポイント: GET /api/market/movers?type=gainers|losers|active&offset=0&limit=20
func (h *MarketHandler) GetMovers(c *gin.Context) {
	kind := entity.MoverKind(c.DefaultQuery("type", string(entity.Gainers)))
	offset, err1 := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, err2 := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultMoversLimit)))
	if err1 != nil || err2 != nil || offset < 0 || limit < 1 {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "offset and limit must be non-negative integers"})
		return
	}
	limit = min(limit, maxMoversLimit)

	movers, err := h.uc.GetMovers(c.Request.Context(), kind, offset, limit)
	if err != nil {
		if errors.Is(err, usecase.ErrUnknownMoverKind) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "type must be one of gainers, losers, active"})
			return
		}
		slog.Error("failed to fetch movers", "kind", kind, "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch market movers"})
		return
	}

	out := make([]dto.MoverResponse, 0, len(movers))
	for _, m := range movers {
		out = append(out, dto.MoverResponse{
			Symbol:        m.Symbol,
			Name:          m.Name,
			Price:         m.Price,
			Change:        m.Change,
			ChangePercent: m.ChangePercent,
			Volume:        m.Volume,
		})
	}
	c.JSON(http.StatusOK, out)
}

// GetIndices は主要指数を返します。
//
// エンドポイント: GET /api/market/indices
func (h *MarketHandler) GetIndices(c *gin.Context) {
	indices, err := h.uc.Indices(c.Request.Context())
	if err != nil {
		slog.Error("failed to fetch market indices", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch market indices"})
		return
	}
	c.JSON(http.StatusOK, toIndexResponses(indices))
}

// GetFutures はエンドポイント GET /api/market/futures を処理します。
func (h *MarketHandler) GetFutures(c *gin.Context) {
	c.JSON(http.StatusOK, toIndexResponses(h.uc.Futures(c.Request.Context())))
}

// GetSectors はエンドポイント GET /api/market/sectors?extended= を処理します。
func (h *MarketHandler) GetSectors(c *gin.Context) {
	c.JSON(http.StatusOK, toIndexResponses(h.uc.Sectors(c.Request.Context(), extended(c))))
}

// GetCommodities はエンドポイント GET /api/market/commodities?extended= を処理します。
func (h *MarketHandler) GetCommodities(c *gin.Context) {
	c.JSON(http.StatusOK, toIndexResponses(h.uc.Commodities(c.Request.Context(), extended(c))))
}

// GetCurrencies はエンドポイント GET /api/market/currencies?extended= を処理します。
func (h *MarketHandler) GetCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, toIndexResponses(h.uc.Currencies(c.Request.Context(), extended(c))))
}

// GetStatus はエンドポイント GET /api/market/status を処理します。
func (h *MarketHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{State: h.uc.Status(c.Request.Context())})
}

func extended(c *gin.Context) bool {
	return c.Query("extended") == "true"
}

func toIndexResponses(in []entity.MarketIndex) []dto.MarketIndexResponse {
	out := make([]dto.MarketIndexResponse, 0, len(in))
	for _, idx := range in {
		out = append(out, dto.MarketIndexResponse{
			Symbol:        idx.Symbol,
			Name:          idx.Name,
			Price:         idx.Price,
			Change:        idx.Change,
			ChangePercent: idx.ChangePercent,
			Category:      idx.Category,
			Sparkline:     idx.Sparkline,
		})
	}
	return out
}
