// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Integrations は任意設定の外部連携（AI・決算カレンダー・Redis・DB）が有効かどうかを表します。
type Integrations map[string]bool

// HealthResponse は /healthz のレスポンスボディです。
type HealthResponse struct {
	Status       string       `json:"status"`
	Integrations Integrations `json:"integrations,omitempty"`
}

// NewHealth はサービスヘルスチェック用の /healthz ハンドラーを生成します。
// APIキー未設定などで一部機能が無効な場合も、プロセス自体は稼働しているため常に200を返します。
func NewHealth(integrations Integrations) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
		default:
			c.JSON(http.StatusOK, HealthResponse{Status: "ok", Integrations: integrations})
		}
	}
}
