package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"time"

	"google.golang.org/genai"

	"marketcolor/internal/feature/analysis/domain/entity"
	"marketcolor/internal/feature/analysis/usecase"
	"marketcolor/internal/platform/metrics"
)

// ErrNotConfigured はAPIキーなしでクライアントを生成しようとした場合に返されます。
var ErrNotConfigured = errors.New("gemini: api key not configured")

// Client はGoogle Gemini APIを使用して分析テキストを生成します。
// 全ての呼び出しでGoogle検索ツールを有効にし、引用元を返します。
type Client struct {
	client        *genai.Client
	model         string
	timeout       time.Duration
	streamTimeout time.Duration
}

// ClientがGeneratorを実装していることをコンパイル時に検証します。
var _ usecase.Generator = (*Client)(nil)

// NewClient はAPIキー認証でClientを生成します。
func NewClient(ctx context.Context, cfg Config, httpClient *http.Client) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: client, model: model, timeout: cfg.Timeout, streamTimeout: cfg.StreamTimeout}, nil
}

func (g *Client) contentConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	}
}

// Generate はプロンプトから完全な回答を生成します。
func (g *Client) Generate(ctx context.Context, prompt string) (_ entity.Narrative, err error) {
	start := time.Now()
	defer func() { metrics.ObserveVendor("gemini", "generate", start, err) }()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.contentConfig())
	if err != nil {
		return entity.Narrative{}, fmt.Errorf("gemini API request failed: %w", err)
	}

	return entity.Narrative{Text: resp.Text(), Citations: citations(resp)}, nil
}

// Stream はプロンプトに対する回答を差分として返します。
// 反復を途中でやめると、ストリーミング接続は閉じられます。
// StreamTimeout を過ぎても応答が終わらない場合は接続を切り、エラーを1つ返して終了します。
func (g *Client) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		start := time.Now()
		var err error
		defer func() { metrics.ObserveVendor("gemini", "stream", start, err) }()

		if g.streamTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.streamTimeout)
			defer cancel()
		}

		for resp, rerr := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), g.contentConfig()) {
			if rerr != nil {
				err = fmt.Errorf("gemini stream failed: %w", rerr)
				yield("", err)
				return
			}
			if text := resp.Text(); text != "" {
				if !yield(text, nil) {
					return
				}
			}
		}
		if cerr := ctx.Err(); cerr != nil {
			err = fmt.Errorf("gemini stream failed: %w", cerr)
			yield("", err)
		}
	}
}

// citations はグラウンディングメタデータからWeb引用元をURLの重複なしで抽出します。
func citations(resp *genai.GenerateContentResponse) []entity.Citation {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].GroundingMetadata == nil {
		return []entity.Citation{}
	}
	seen := make(map[string]struct{})
	out := []entity.Citation{}
	for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
		if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
			continue
		}
		if _, ok := seen[chunk.Web.URI]; ok {
			continue
		}
		seen[chunk.Web.URI] = struct{}{}
		out = append(out, entity.Citation{URL: chunk.Web.URI, Title: chunk.Web.Title})
	}
	return out
}
