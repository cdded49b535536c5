// Package handler はcalendarフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"marketcolor/internal/api"
	"marketcolor/internal/feature/calendar/domain/entity"
	"marketcolor/internal/feature/calendar/usecase"
)

// EarningsUsecase は決算カレンダーのユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type EarningsUsecase interface {
	GetEarningsCalendar(ctx context.Context, from, to time.Time) ([]entity.EarningsEvent, error)
}

// EarningsHandler は決算カレンダーのHTTPリクエストを処理します。
type EarningsHandler struct {
	uc EarningsUsecase
}

// NewEarningsHandler はEarningsHandlerの新しいインスタンスを生成します。
func NewEarningsHandler(uc EarningsUsecase) *EarningsHandler {
	return &EarningsHandler{uc: uc}
}

// GetEarnings は期間内の決算発表予定を返します。
//
// エンドポイント: GET /api/calendar/earnings?from=YYYY-MM-DD&to=YYYY-MM-DD
func (h *EarningsHandler) GetEarnings(c *gin.Context) {
	fromStr, toStr := c.Query("from"), c.Query("to")
	if fromStr == "" || toStr == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Missing required parameters: from, to"})
		return
	}
	from, err1 := time.Parse(usecase.DateLayout, fromStr)
	to, err2 := time.Parse(usecase.DateLayout, toStr)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "from and to must be YYYY-MM-DD"})
		return
	}

	events, err := h.uc.GetEarningsCalendar(c.Request.Context(), from, to)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidRange):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "to must not be before from"})
		case errors.Is(err, usecase.ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Earnings calendar is not configured"})
		default:
			slog.Error("failed to fetch earnings calendar", "from", fromStr, "to", toStr, "error", err)
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to fetch earnings calendar"})
		}
		return
	}
	c.JSON(http.StatusOK, events)
}
