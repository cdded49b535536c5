// Package handler はheatmapフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketcolor/internal/feature/heatmap/domain/entity"
	"marketcolor/internal/feature/heatmap/transport/http/dto"
	"marketcolor/internal/feature/heatmap/usecase"
)

// HeatmapUsecase はヒートマップのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type HeatmapUsecase interface {
	Heatmap(ctx context.Context) []entity.Sector
}

// HeatmapHandler はヒートマップのHTTPリクエストを処理します。
type HeatmapHandler struct {
	uc HeatmapUsecase
}

// NewHeatmapHandler はHeatmapHandlerの新しいインスタンスを生成します。
func NewHeatmapHandler(uc HeatmapUsecase) *HeatmapHandler {
	return &HeatmapHandler{uc: uc}
}

// GetHeatmap はセクター別のヒートマップを返します。上流の失敗は空配列として返します。
//
// エンドポイント: GET /api/market/heatmap
func (h *HeatmapHandler) GetHeatmap(c *gin.Context) {
	sectors := h.uc.Heatmap(c.Request.Context())

	out := make([]dto.SectorResponse, 0, len(sectors))
	for _, s := range sectors {
		children := make([]dto.HeatmapStockResponse, 0, len(s.Children))
		for _, st := range s.Children {
			children = append(children, dto.HeatmapStockResponse{
				Symbol:        st.Symbol,
				Name:          st.Name,
				Sector:        st.Sector,
				Price:         st.Price,
				Change:        st.Change,
				ChangePercent: st.ChangePercent,
				MarketCap:     st.MarketCap,
			})
		}
		out = append(out, dto.SectorResponse{
			Name:                  s.Name,
			Children:              children,
			TotalMarketCap:        s.TotalMarketCap(),
			WeightedChangePercent: usecase.WeightedChangePercent(s),
		})
	}
	c.Header("Cache-Control", "public, s-maxage=60, stale-while-revalidate=120")
	c.JSON(http.StatusOK, out)
}
