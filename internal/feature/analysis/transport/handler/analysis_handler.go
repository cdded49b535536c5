// Package handler はanalysisフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"marketcolor/internal/api"
	"marketcolor/internal/feature/analysis/domain/entity"
	"marketcolor/internal/feature/analysis/transport/http/dto"
	"marketcolor/internal/feature/analysis/usecase"
	"marketcolor/internal/platform/metrics"
)

// StreamStatusTrailer はストリーミング応答の最後に送るトレーラーです。値は "complete" か "error" です。
const StreamStatusTrailer = "X-Stream-Status"

// AnalysisUsecase はAI分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type AnalysisUsecase interface {
	Configured() bool
	Analyze(ctx context.Context, symbol, question string) (entity.Narrative, error)
	AnalyzeStream(ctx context.Context, symbol, question string) (*usecase.TextStream, error)
	Thesis(ctx context.Context, symbol string) (entity.Thesis, error)
	ThesisStream(ctx context.Context, symbol string) (*usecase.TextStream, error)
}

// AnalysisHandler はAI分析のHTTPリクエストを処理します。
type AnalysisHandler struct {
	uc AnalysisUsecase
}

// NewAnalysisHandler はAnalysisHandlerの新しいインスタンスを生成します。
func NewAnalysisHandler(uc AnalysisUsecase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc}
}

// Analyze は銘柄に関する質問に回答します。
//
// エンドポイント: POST /api/analysis
// ボディ: {"symbol": "AAPL", "question": "...", "stream": true}
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	if !h.uc.Configured() {
		notConfigured(c)
		return
	}
	var req dto.AnalysisRequest
	if !bind(c, &req) {
		return
	}
	if req.Symbol = strings.TrimSpace(req.Symbol); req.Symbol == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Symbol is required"})
		return
	}

	if streaming(req.Stream) {
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		s, err := h.uc.AnalyzeStream(ctx, req.Symbol, req.Question)
		if err != nil {
			failed(c, err, "Failed to generate analysis", "symbol", req.Symbol)
			return
		}
		writeStream(c, s, cancel, "symbol", req.Symbol)
		return
	}

	n, err := h.uc.Analyze(c.Request.Context(), req.Symbol, req.Question)
	if err != nil {
		failed(c, err, "Failed to generate analysis", "symbol", req.Symbol)
		return
	}
	citations := make([]dto.CitationResponse, 0, len(n.Citations))
	for _, ct := range n.Citations {
		citations = append(citations, dto.CitationResponse{URL: ct.URL, Title: ct.Title})
	}
	c.JSON(http.StatusOK, dto.AnalysisResponse{
		Analysis:    n.Text,
		Citations:   citations,
		GeneratedAt: n.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

// Thesis は投資テーゼを生成します。
//
// エンドポイント: POST /api/analysis/thesis
// ボディ: {"symbol": "AAPL", "stream": false}
func (h *AnalysisHandler) Thesis(c *gin.Context) {
	if !h.uc.Configured() {
		notConfigured(c)
		return
	}
	var req dto.ThesisRequest
	if !bind(c, &req) {
		return
	}
	if req.Symbol = strings.TrimSpace(req.Symbol); req.Symbol == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Symbol is required"})
		return
	}

	if streaming(req.Stream) {
		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()
		s, err := h.uc.ThesisStream(ctx, req.Symbol)
		if err != nil {
			failed(c, err, "Failed to generate thesis", "symbol", req.Symbol)
			return
		}
		writeStream(c, s, cancel, "symbol", req.Symbol)
		return
	}

	t, err := h.uc.Thesis(c.Request.Context(), req.Symbol)
	if err != nil {
		failed(c, err, "Failed to generate thesis", "symbol", req.Symbol)
		return
	}
	c.JSON(http.StatusOK, dto.ThesisResponse{
		IndustryAnalysis:  t.IndustryAnalysis,
		FinancialAnalysis: t.FinancialAnalysis,
		NewsAnalysis:      t.NewsAnalysis,
		FinalThesis:       t.FinalThesis,
		GeneratedAt:       t.GeneratedAt.UTC().Format(time.RFC3339),
	})
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.Warn("分析リクエストのバリデーションに失敗", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid request body"})
		return false
	}
	return true
}

func streaming(flag *bool) bool {
	return flag == nil || *flag
}

func notConfigured(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: usecase.ErrNotConfigured.Error()})
}

func failed(c *gin.Context, err error, msg string, attrs ...any) {
	switch {
	case errors.Is(err, usecase.ErrNotConfigured):
		notConfigured(c)
	case errors.Is(err, usecase.ErrInvalidSymbol):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Symbol is required"})
	default:
		slog.Error(msg, append(attrs, "error", err)...)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msg})
	}
}

// writeStream は差分をそのままプレーンテキストとして書き出します。
// 途中で失敗してもエラーフレームは挿入せず、トレーラーで結果を通知します。
// クライアントへの書き込みに失敗した場合はcancelで上流の生成を止めます。
func writeStream(c *gin.Context, s *usecase.TextStream, cancel context.CancelFunc, attrs ...any) {
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.Header("Trailer", StreamStatusTrailer)
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	for delta := range s.Deltas() {
		if _, err := c.Writer.WriteString(delta); err != nil {
			slog.Warn("client went away during stream", append(attrs, "error", err)...)
			cancel()
			for range s.Deltas() {
			}
			break
		}
		c.Writer.Flush()
	}

	outcome := "complete"
	if err := s.Err(); err != nil {
		outcome = "error"
		if errors.Is(err, context.Canceled) {
			metrics.NarrativeStreams.WithLabelValues("canceled").Inc()
		} else {
			metrics.NarrativeStreams.WithLabelValues("error").Inc()
			slog.Error("narrative stream failed", append(attrs, "error", err)...)
		}
	} else {
		metrics.NarrativeStreams.WithLabelValues("complete").Inc()
	}
	c.Writer.Header().Set(StreamStatusTrailer, outcome)
}
