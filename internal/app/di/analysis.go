package di

import (
	"context"
	"errors"
	"log/slog"

	"marketcolor/internal/feature/analysis/usecase"
	"marketcolor/internal/platform/externalapi/gemini"
	infrahttp "marketcolor/internal/platform/http"
)

// NewGenerator creates the Gemini generator. It returns nil when GEMINI_API_KEY is not set,
// which makes the analysis endpoints answer "AI analysis is not configured".
func NewGenerator(ctx context.Context) (usecase.Generator, error) {
	cfg := gemini.LoadConfig()
	// ストリーミングはcontextで打ち切るため、HTTPクライアント側のタイムアウトは設定しない
	client, err := gemini.NewClient(ctx, cfg, infrahttp.NewHTTPClient(0))
	if errors.Is(err, gemini.ErrNotConfigured) {
		slog.Warn("GEMINI_API_KEY is not set. AI analysis is disabled.")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}
