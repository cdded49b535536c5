// Package middleware はルーター全体に適用するginミドルウェアを提供します。
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader はリクエストIDを受け渡すヘッダー名です。
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "requestID"

// RequestID は受信したX-Request-IDを引き継ぐか、なければUUIDを採番してレスポンスに付与します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID はコンテキストに格納されたリクエストIDを返します。
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger はgin.Logger の代わりにslogで1リクエスト1行のアクセスログを出力します。
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"elapsed", time.Since(start),
			"request_id", GetRequestID(c),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		switch {
		case status >= 500:
			slog.Error("request", attrs...)
		case status >= 400:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	}
}
