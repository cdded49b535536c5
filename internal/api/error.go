// Package api holds response types shared by every HTTP handler.
package api

// ErrorResponse はエラー時のレスポンスボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}
