package usecase_test

import (
	"context"
	"errors"
	"iter"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketentity "marketcolor/internal/domain/entity"
	"marketcolor/internal/feature/analysis/domain/entity"
	"marketcolor/internal/feature/analysis/usecase"
)

// ErrAPI はモックと期待値の間で共有されるセンチネルエラーです。
var ErrAPI = errors.New("api error")

// mockGenerator はGeneratorインターフェースのモック実装です。Thesisが並行に呼び出すためロックで保護します。
type mockGenerator struct {
	GenerateFunc func(ctx context.Context, prompt string) (entity.Narrative, error)
	StreamFunc   func(ctx context.Context, prompt string) iter.Seq2[string, error]

	mu      sync.Mutex
	prompts []string
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (entity.Narrative, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return entity.Narrative{}, errors.New("GenerateFunc is not implemented")
}

func (m *mockGenerator) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, prompt)
	}
	return func(yield func(string, error) bool) {
		yield("", errors.New("StreamFunc is not implemented"))
	}
}

func (m *mockGenerator) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// mockMarketData はMarketDataインターフェースのモック実装です。
type mockMarketData struct {
	QuoteErr   error
	ProfileErr error
	SearchErr  error
}

func (m *mockMarketData) GetQuote(_ context.Context, symbol string) (marketentity.Quote, error) {
	if m.QuoteErr != nil {
		return marketentity.Quote{}, m.QuoteErr
	}
	return marketentity.Quote{Symbol: symbol, Name: "Apple Inc.", Price: 190.5, ChangePercent: 1.2}, nil
}

func (m *mockMarketData) GetProfile(_ context.Context, _ string) (marketentity.Profile, error) {
	if m.ProfileErr != nil {
		return marketentity.Profile{}, m.ProfileErr
	}
	return marketentity.Profile{Sector: "Technology", Industry: "Consumer Electronics"}, nil
}

func (m *mockMarketData) Search(_ context.Context, _ string, _, _ int) (marketentity.SearchResult, error) {
	if m.SearchErr != nil {
		return marketentity.SearchResult{}, m.SearchErr
	}
	return marketentity.SearchResult{News: []marketentity.NewsItem{{Title: "Apple unveils new chip", Publisher: "Reuters"}}}, nil
}

func seqOf(items ...string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, s := range items {
			if !yield(s, nil) {
				return
			}
		}
	}
}

func collect(s *usecase.TextStream) []string {
	var out []string
	for d := range s.Deltas() {
		out = append(out, d)
	}
	return out
}

func TestAnalysisUsecase_Analyze(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testCases := []struct {
		name         string
		gen          *mockGenerator
		symbol       string
		question     string
		wantText     string
		wantPrompt   string
		wantErr      error
		wantErrMatch string
	}{
		{
			name: "success: general analysis when question is empty",
			gen: &mockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.Narrative, error) {
				return entity.Narrative{Text: "Solid quarter.", Citations: []entity.Citation{{URL: "https://example.com", Title: "Ex"}}}, nil
			}},
			symbol:     " aapl ",
			wantText:   "Solid quarter.",
			wantPrompt: "Provide a general analysis.",
		},
		{
			name: "success: question is embedded in the prompt",
			gen: &mockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.Narrative, error) {
				return entity.Narrative{Text: "Margins are expanding."}, nil
			}},
			symbol:     "AAPL",
			question:   "How are margins trending?",
			wantText:   "Margins are expanding.",
			wantPrompt: "How are margins trending?",
		},
		{
			name:    "error: missing symbol",
			gen:     &mockGenerator{},
			symbol:  "  ",
			wantErr: usecase.ErrInvalidSymbol,
		},
		{
			name: "error: generator fails",
			gen: &mockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.Narrative, error) {
				return entity.Narrative{}, ErrAPI
			}},
			symbol:       "AAPL",
			wantErr:      ErrAPI,
			wantErrMatch: "generate analysis for AAPL",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			uc := usecase.NewAnalysisUsecase(tc.gen, nil)

			got, err := uc.Analyze(ctx, tc.symbol, tc.question)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				if tc.wantErrMatch != "" {
					assert.ErrorContains(t, err, tc.wantErrMatch)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantText, got.Text)
			assert.False(t, got.GeneratedAt.IsZero())

			prompts := tc.gen.Prompts()
			require.Len(t, prompts, 1)
			assert.Contains(t, prompts[0], "AAPL")
			assert.Contains(t, prompts[0], tc.wantPrompt)
		})
	}
}

func TestAnalysisUsecase_NotConfigured(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := usecase.NewAnalysisUsecase(nil, &mockMarketData{})

	assert.False(t, uc.Configured())

	_, err := uc.Analyze(ctx, "AAPL", "")
	assert.ErrorIs(t, err, usecase.ErrNotConfigured)
	_, err = uc.AnalyzeStream(ctx, "AAPL", "")
	assert.ErrorIs(t, err, usecase.ErrNotConfigured)
	_, err = uc.Thesis(ctx, "AAPL")
	assert.ErrorIs(t, err, usecase.ErrNotConfigured)
	_, err = uc.ThesisStream(ctx, "AAPL")
	assert.ErrorIs(t, err, usecase.ErrNotConfigured)
}

func TestAnalysisUsecase_AnalyzeStream(t *testing.T) {
	t.Parallel()

	t.Run("forwards deltas in order and skips empty chunks", func(t *testing.T) {
		t.Parallel()
		gen := &mockGenerator{StreamFunc: func(ctx context.Context, prompt string) iter.Seq2[string, error] {
			return seqOf("Apple ", "", "looks ", "strong.")
		}}
		uc := usecase.NewAnalysisUsecase(gen, nil)

		s, err := uc.AnalyzeStream(context.Background(), "AAPL", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"Apple ", "looks ", "strong."}, collect(s))
		assert.NoError(t, s.Err())
	})

	t.Run("mid-stream failure keeps sent deltas and reports the error", func(t *testing.T) {
		t.Parallel()
		gen := &mockGenerator{StreamFunc: func(ctx context.Context, prompt string) iter.Seq2[string, error] {
			return func(yield func(string, error) bool) {
				if !yield("partial", nil) {
					return
				}
				yield("", ErrAPI)
			}
		}}
		uc := usecase.NewAnalysisUsecase(gen, nil)

		s, err := uc.AnalyzeStream(context.Background(), "AAPL", "")
		require.NoError(t, err)
		assert.Equal(t, []string{"partial"}, collect(s))
		assert.ErrorIs(t, s.Err(), ErrAPI)
	})

	t.Run("cancellation stops the upstream sequence", func(t *testing.T) {
		t.Parallel()
		var stopped atomic.Bool
		gen := &mockGenerator{StreamFunc: func(ctx context.Context, prompt string) iter.Seq2[string, error] {
			return func(yield func(string, error) bool) {
				for {
					if !yield("tick ", nil) {
						stopped.Store(true)
						return
					}
				}
			}
		}}
		uc := usecase.NewAnalysisUsecase(gen, nil)

		ctx, cancel := context.WithCancel(context.Background())
		s, err := uc.AnalyzeStream(ctx, "AAPL", "")
		require.NoError(t, err)

		<-s.Deltas()
		cancel()
		collect(s)

		assert.ErrorIs(t, s.Err(), context.Canceled)
		assert.True(t, stopped.Load())
	})

	t.Run("stalled upstream is cut off by the stream timeout", func(t *testing.T) {
		t.Parallel()
		gen := &mockGenerator{StreamFunc: func(ctx context.Context, prompt string) iter.Seq2[string, error] {
			return func(yield func(string, error) bool) {
				if !yield("first ", nil) {
					return
				}
				<-ctx.Done()
				yield("", ctx.Err())
			}
		}}
		uc := usecase.NewAnalysisUsecase(gen, nil, usecase.WithStreamTimeout(50*time.Millisecond))

		s, err := uc.AnalyzeStream(context.Background(), "AAPL", "")
		require.NoError(t, err)

		assert.Equal(t, []string{"first "}, collect(s))
		assert.ErrorIs(t, s.Err(), context.DeadlineExceeded)
	})
}

func TestAnalysisUsecase_Thesis(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	answer := func(ctx context.Context, prompt string) (entity.Narrative, error) {
		switch {
		case strings.Contains(prompt, "industry and competitive position"):
			return entity.Narrative{Text: "INDUSTRY"}, nil
		case strings.Contains(prompt, "financial health"):
			return entity.Narrative{Text: "FINANCIAL"}, nil
		case strings.Contains(prompt, "news flow"):
			return entity.Narrative{Text: "NEWS"}, nil
		default:
			return entity.Narrative{Text: "FINAL"}, nil
		}
	}

	t.Run("success: three sub-analyses feed the synthesis", func(t *testing.T) {
		t.Parallel()
		gen := &mockGenerator{GenerateFunc: answer}
		uc := usecase.NewAnalysisUsecase(gen, &mockMarketData{})

		got, err := uc.Thesis(ctx, "aapl")
		require.NoError(t, err)
		assert.Equal(t, "INDUSTRY", got.IndustryAnalysis)
		assert.Equal(t, "FINANCIAL", got.FinancialAnalysis)
		assert.Equal(t, "NEWS", got.NewsAnalysis)
		assert.Equal(t, "FINAL", got.FinalThesis)
		assert.False(t, got.GeneratedAt.IsZero())

		prompts := gen.Prompts()
		require.Len(t, prompts, 4)
		synthesis := prompts[3]
		for _, part := range []string{"INDUSTRY", "FINANCIAL", "NEWS", "## Key Risks", "AAPL"} {
			assert.Contains(t, synthesis, part)
		}
	})

	t.Run("success: profile and news failures are tolerated", func(t *testing.T) {
		t.Parallel()
		gen := &mockGenerator{GenerateFunc: answer}
		uc := usecase.NewAnalysisUsecase(gen, &mockMarketData{ProfileErr: ErrAPI, SearchErr: ErrAPI})

		got, err := uc.Thesis(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "FINAL", got.FinalThesis)
	})

	t.Run("error: any sub-analysis failure fails the thesis", func(t *testing.T) {
		t.Parallel()
		gen := &mockGenerator{GenerateFunc: func(ctx context.Context, prompt string) (entity.Narrative, error) {
			if strings.Contains(prompt, "financial health") {
				return entity.Narrative{}, ErrAPI
			}
			return answer(ctx, prompt)
		}}
		uc := usecase.NewAnalysisUsecase(gen, &mockMarketData{})

		_, err := uc.Thesis(ctx, "AAPL")
		require.ErrorIs(t, err, ErrAPI)
		assert.ErrorContains(t, err, "financial analysis")
		for _, p := range gen.Prompts() {
			assert.NotContains(t, p, "senior portfolio manager", "synthesis must not run after a failed step")
		}
	})

	t.Run("error: quote is required", func(t *testing.T) {
		t.Parallel()
		gen := &mockGenerator{GenerateFunc: answer}
		uc := usecase.NewAnalysisUsecase(gen, &mockMarketData{QuoteErr: ErrAPI})

		_, err := uc.Thesis(ctx, "AAPL")
		require.ErrorIs(t, err, ErrAPI)
		assert.Empty(t, gen.Prompts())
	})
}

func TestAnalysisUsecase_ThesisStream(t *testing.T) {
	t.Parallel()
	gen := &mockGenerator{StreamFunc: func(ctx context.Context, prompt string) iter.Seq2[string, error] {
		return seqOf("## Executive Summary\n", "Buy.")
	}}
	uc := usecase.NewAnalysisUsecase(gen, &mockMarketData{})

	s, err := uc.ThesisStream(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "## Executive Summary\nBuy.", strings.Join(collect(s), ""))
	require.NoError(t, s.Err())

	prompts := gen.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], "Apple unveils new chip")
	assert.Contains(t, prompts[0], "Sector: Technology")
}
