// Package usecase implements AI-generated stock narratives and investment theses.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	marketentity "marketcolor/internal/domain/entity"
	"marketcolor/internal/feature/analysis/domain/entity"
)

var (
	// ErrNotConfigured はLLMのAPIキーが設定されていない場合に返されます。
	ErrNotConfigured = errors.New("AI analysis is not configured")
	// ErrInvalidSymbol はシンボルが空の場合に返されます。
	ErrInvalidSymbol = errors.New("symbol is required")
)

// thesisNewsCount はテーゼのコンテキストに含めるニュース件数です。
const thesisNewsCount = 10

// Generator はテキスト生成モデルを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type Generator interface {
	// Generate は1回のモデル呼び出しで完全な回答と引用元を返します。
	Generate(ctx context.Context, prompt string) (entity.Narrative, error)
	// Stream はテキスト差分の有限な列を返します。反復を途中で止めると上流の呼び出しも中断されます。
	Stream(ctx context.Context, prompt string) iter.Seq2[string, error]
}

// MarketData はテーゼのコンテキスト取得に使う市場データ取得元です。
type MarketData interface {
	GetQuote(ctx context.Context, symbol string) (marketentity.Quote, error)
	GetProfile(ctx context.Context, symbol string) (marketentity.Profile, error)
	Search(ctx context.Context, query string, quotesCount, newsCount int) (marketentity.SearchResult, error)
}

// AnalysisUsecase はAI分析のユースケースです。
type AnalysisUsecase struct {
	gen          Generator
	data         MarketData
	now           func() time.Time
	streamBuffer  int
	streamTimeout time.Duration
}

// Option はAnalysisUsecaseの設定を変更します。
type Option func(*AnalysisUsecase)

// WithStreamTimeout はストリーミング生成全体の上限時間を設定します。
func WithStreamTimeout(d time.Duration) Option {
	return func(u *AnalysisUsecase) { u.streamTimeout = d }
}

// NewAnalysisUsecase はAnalysisUsecaseを生成します。genがnilの場合、全ての操作はErrNotConfiguredを返します。
func NewAnalysisUsecase(gen Generator, data MarketData, opts ...Option) *AnalysisUsecase {
	u := &AnalysisUsecase{
		gen:           gen,
		data:          data,
		now:           time.Now,
		streamBuffer:  DefaultStreamBuffer,
		streamTimeout: DefaultStreamTimeout,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

func (u *AnalysisUsecase) stream(ctx context.Context, prompt string) *TextStream {
	return NewTextStream(ctx, func(ctx context.Context) iter.Seq2[string, error] {
		return u.gen.Stream(ctx, prompt)
	}, u.streamBuffer, u.streamTimeout)
}

// Configured はLLMが利用可能かどうかを返します。
func (u *AnalysisUsecase) Configured() bool {
	return u.gen != nil
}

func (u *AnalysisUsecase) check(symbol string) (string, error) {
	if u.gen == nil {
		return "", ErrNotConfigured
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return "", ErrInvalidSymbol
	}
	return symbol, nil
}

// Analyze は銘柄に関する質問へ回答します。questionが空の場合は一般的な分析を行います。
func (u *AnalysisUsecase) Analyze(ctx context.Context, symbol, question string) (entity.Narrative, error) {
	symbol, err := u.check(symbol)
	if err != nil {
		return entity.Narrative{}, err
	}
	n, err := u.gen.Generate(ctx, questionPrompt(symbol, question))
	if err != nil {
		return entity.Narrative{}, fmt.Errorf("generate analysis for %s: %w", symbol, err)
	}
	n.GeneratedAt = u.now()
	return n, nil
}

// AnalyzeStream はAnalyzeのストリーミング版です。
func (u *AnalysisUsecase) AnalyzeStream(ctx context.Context, symbol, question string) (*TextStream, error) {
	symbol, err := u.check(symbol)
	if err != nil {
		return nil, err
	}
	return u.stream(ctx, questionPrompt(symbol, question)), nil
}

// Thesis は業界・財務・ニュースの3つの分析を並行して生成し、それらを統合したテーゼを返します。
// いずれかの呼び出しが失敗した場合、テーゼ全体が失敗します。
func (u *AnalysisUsecase) Thesis(ctx context.Context, symbol string) (entity.Thesis, error) {
	symbol, err := u.check(symbol)
	if err != nil {
		return entity.Thesis{}, err
	}
	sc, err := u.loadContext(ctx, symbol)
	if err != nil {
		return entity.Thesis{}, err
	}

	var industry, financial, news entity.Narrative
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		industry, err = u.gen.Generate(gctx, industryPrompt(sc))
		return wrapStep("industry", err)
	})
	g.Go(func() (err error) {
		financial, err = u.gen.Generate(gctx, financialPrompt(sc))
		return wrapStep("financial", err)
	})
	g.Go(func() (err error) {
		news, err = u.gen.Generate(gctx, newsPrompt(sc))
		return wrapStep("news", err)
	})
	if err := g.Wait(); err != nil {
		return entity.Thesis{}, fmt.Errorf("thesis for %s: %w", symbol, err)
	}

	final, err := u.gen.Generate(ctx, synthesisPrompt(sc, industry.Text, financial.Text, news.Text))
	if err != nil {
		return entity.Thesis{}, fmt.Errorf("thesis for %s: %w", symbol, wrapStep("synthesis", err))
	}

	return entity.Thesis{
		IndustryAnalysis:  industry.Text,
		FinancialAnalysis: financial.Text,
		NewsAnalysis:      news.Text,
		FinalThesis:       final.Text,
		GeneratedAt:       u.now(),
	}, nil
}

// ThesisStream はテーゼを1回のストリーミング呼び出しで生成します。
func (u *AnalysisUsecase) ThesisStream(ctx context.Context, symbol string) (*TextStream, error) {
	symbol, err := u.check(symbol)
	if err != nil {
		return nil, err
	}
	sc, err := u.loadContext(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return u.stream(ctx, thesisPrompt(sc)), nil
}

// loadContext はクォート・プロフィール・ニュースを並行して取得します。
// クォートは必須で、プロフィールとニュースの失敗はログに記録して無視します。
func (u *AnalysisUsecase) loadContext(ctx context.Context, symbol string) (stockContext, error) {
	sc := stockContext{quote: marketentity.Quote{Symbol: symbol, Name: symbol}}
	if u.data == nil {
		return sc, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q, err := u.data.GetQuote(gctx, symbol)
		if err != nil {
			return fmt.Errorf("load quote for %s: %w", symbol, err)
		}
		sc.quote = q
		return nil
	})
	g.Go(func() error {
		p, err := u.data.GetProfile(gctx, symbol)
		if err != nil {
			slog.Warn("thesis context: profile unavailable", "symbol", symbol, "error", err)
			return nil
		}
		sc.profile = p
		return nil
	})
	g.Go(func() error {
		res, err := u.data.Search(gctx, symbol, 0, thesisNewsCount)
		if err != nil {
			slog.Warn("thesis context: news unavailable", "symbol", symbol, "error", err)
			return nil
		}
		sc.news = res.News
		return nil
	})
	if err := g.Wait(); err != nil {
		return stockContext{}, err
	}
	return sc, nil
}

func wrapStep(step string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s analysis: %w", step, err)
}
