package yahoo

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	yfclient "github.com/wnjoon/go-yfinance/pkg/client"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/screener"
	"github.com/wnjoon/go-yfinance/pkg/search"
	"github.com/wnjoon/go-yfinance/pkg/ticker"

	"marketcolor/internal/domain"
	"marketcolor/internal/domain/entity"
	"marketcolor/internal/platform/metrics"
)

// librarySource は go-yfinance の呼び出しを抽象化します。
// ライブラリはcontextを受け取らないため、打ち切りは callLibrary が行います。
type librarySource interface {
	Quote(symbol string) (*models.Quote, error)
	Info(symbol string) (*models.Info, error)
	History(symbol string, params models.HistoryParams) ([]models.Bar, error)
	PriceTargets(symbol string) (*models.PriceTarget, error)
	Recommendations(symbol string) (*models.RecommendationTrend, error)
	Holders(symbol string) ([]models.Holder, []models.InsiderHolder, error)
	Options(symbol string, expiration time.Time) ([]time.Time, *models.OptionChain, error)
	Screen(screenerID string, count int) (*models.ScreenerResult, error)
	Search(params models.SearchParams) (*models.SearchResult, error)
}

// yfLibrary は go-yfinance による librarySource の実装です。
// TLSセッションとcrumbを呼び出し間で共有するため、1つのクライアントを使い回します。
type yfLibrary struct {
	client *yfclient.Client
}

var _ librarySource = (*yfLibrary)(nil)

func newYFLibrary(timeout time.Duration) *yfLibrary {
	opts := []yfclient.ClientOption{}
	if secs := int(timeout / time.Second); secs > 0 {
		opts = append(opts, yfclient.WithTimeout(secs))
	}
	c, err := yfclient.New(opts...)
	if err != nil {
		// 各呼び出しがライブラリ既定のクライアントを生成する
		return &yfLibrary{}
	}
	return &yfLibrary{client: c}
}

func (l *yfLibrary) ticker(symbol string) (*ticker.Ticker, error) {
	if l.client == nil {
		return ticker.New(symbol)
	}
	return ticker.New(symbol, ticker.WithClient(l.client))
}

func (l *yfLibrary) Quote(symbol string) (*models.Quote, error) {
	t, err := l.ticker(symbol)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return t.Quote()
}

func (l *yfLibrary) Info(symbol string) (*models.Info, error) {
	t, err := l.ticker(symbol)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return t.Info()
}

func (l *yfLibrary) History(symbol string, params models.HistoryParams) ([]models.Bar, error) {
	t, err := l.ticker(symbol)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return t.History(params)
}

func (l *yfLibrary) PriceTargets(symbol string) (*models.PriceTarget, error) {
	t, err := l.ticker(symbol)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return t.AnalystPriceTargets()
}

func (l *yfLibrary) Recommendations(symbol string) (*models.RecommendationTrend, error) {
	t, err := l.ticker(symbol)
	if err != nil {
		return nil, err
	}
	defer t.Close()
	return t.Recommendations()
}

// Holders は機関投資家と内部関係者の一覧を返します。同じティッカーで呼ぶため取得は1回です。
func (l *yfLibrary) Holders(symbol string) ([]models.Holder, []models.InsiderHolder, error) {
	t, err := l.ticker(symbol)
	if err != nil {
		return nil, nil, err
	}
	defer t.Close()

	inst, err := t.InstitutionalHolders()
	if err != nil {
		return nil, nil, err
	}
	insiders, err := t.InsiderRosterHolders()
	if err != nil {
		return nil, nil, err
	}
	return inst, insiders, nil
}

// Options は満期の一覧とexpirationのチェーンを返します。expirationがゼロ値なら直近の満期です。
func (l *yfLibrary) Options(symbol string, expiration time.Time) ([]time.Time, *models.OptionChain, error) {
	t, err := l.ticker(symbol)
	if err != nil {
		return nil, nil, err
	}
	defer t.Close()

	dates, err := t.Options()
	if err != nil {
		return nil, nil, err
	}
	if expiration.IsZero() {
		chain, err := t.OptionChain("")
		return dates, chain, err
	}
	at, ok := matchExpiration(dates, expiration)
	if !ok {
		return dates, nil, yfclient.WrapNoDataError(symbol)
	}
	chain, err := t.OptionChainAtExpiry(at)
	return dates, chain, err
}

func (l *yfLibrary) Screen(screenerID string, count int) (*models.ScreenerResult, error) {
	var opts []screener.Option
	if l.client != nil {
		opts = append(opts, screener.WithClient(l.client))
	}
	s, err := screener.New(opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Screen(models.PredefinedScreener(screenerID), &models.ScreenerParams{Count: count})
}

func (l *yfLibrary) Search(params models.SearchParams) (*models.SearchResult, error) {
	var opts []search.Option
	if l.client != nil {
		opts = append(opts, search.WithClient(l.client))
	}
	s, err := search.New(opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.SearchWithParams(params)
}

// matchExpiration は暦日が一致する満期を返します。ライブラリは満期をローカル時刻の日付で引くため、返す値もその表現のままです。
func matchExpiration(dates []time.Time, want time.Time) (time.Time, bool) {
	day := want.UTC().Format(time.DateOnly)
	for _, d := range dates {
		if d.UTC().Format(time.DateOnly) == day {
			return d, true
		}
	}
	return time.Time{}, false
}

// callLibrary はライブラリ呼び出しを別goroutineで実行し、ctxかConfig.Timeoutで打ち切ります。
// 打ち切られた呼び出しはライブラリ自身のタイムアウトで終了します。
func callLibrary[T any](ctx context.Context, c *Client, op, symbol string, fn func() (T, error)) (out T, err error) {
	start := time.Now()
	defer func() { metrics.ObserveVendor(vendor, op, start, err) }()

	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return out, err
		}
	}

	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v: v, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return out, classify(op, symbol, r.err)
		}
		return r.v, nil
	case <-ctx.Done():
		return out, fmt.Errorf("yahoo %s %s: %w", op, symbol, ctx.Err())
	}
}

// classify はライブラリのエラーのうち銘柄不在を表すものを domain.ErrNotFound に揃えます。
// 一部の経路はエラーを文字列で包むため、文言でも判定します。
func classify(op, symbol string, err error) error {
	if yfclient.IsNotFoundError(err) || yfclient.IsNoDataError(err) || yfclient.IsInvalidSymbolError(err) {
		return fmt.Errorf("yahoo %s %s: %v: %w", op, symbol, err, domain.ErrNotFound)
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"not found", "no data", "no options data", "delisted"} {
		if strings.Contains(msg, s) {
			return fmt.Errorf("yahoo %s %s: %v: %w", op, symbol, err, domain.ErrNotFound)
		}
	}
	return fmt.Errorf("yahoo %s %s: %w", op, symbol, err)
}

// windowBars は [from, to) に収まり終値のある足だけを返します。
func windowBars(bars []models.Bar, from, to time.Time) []entity.Bar {
	out := make([]entity.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Date.Before(from) || !b.Date.Before(to) {
			continue
		}
		if b.Close <= 0 || math.IsNaN(b.Close) {
			anomaly("bar_missing_close")
			continue
		}
		out = append(out, entity.Bar{
			Date:   b.Date.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return out
}

// quoteFromLibrary はティッカーの見積りをQuoteに変換します。価格も名称も得られない場合は false を返します。
func quoteFromLibrary(symbol string, q *models.Quote) (entity.Quote, bool) {
	if q == nil {
		return entity.Quote{}, false
	}
	price := q.RegularMarketPrice
	for _, alt := range []float64{q.PreMarketPrice, q.PostMarketPrice} {
		if price > 0 {
			break
		}
		price = alt
	}
	if price <= 0 && q.LongName == "" && q.ShortName == "" {
		return entity.Quote{}, false
	}

	out := entity.Quote{
		Symbol:           firstNonEmpty(q.Symbol, symbol),
		Name:             firstNonEmpty(q.ShortName, q.LongName, symbol),
		Price:            price,
		Change:           q.RegularMarketChange,
		ChangePercent:    q.RegularMarketChangePercent,
		High:             q.RegularMarketDayHigh,
		Low:              q.RegularMarketDayLow,
		Open:             q.RegularMarketOpen,
		PreviousClose:    q.RegularMarketPreviousClose,
		MarketCap:        positive(float64(q.MarketCap)),
		Volume:           positiveInt(q.RegularMarketVolume),
		AvgVolume:        positiveInt(q.AverageDailyVolume3Month),
		PERatio:          positive(q.TrailingPE),
		ForwardPE:        positive(q.ForwardPE),
		DividendYield:    positive(q.TrailingAnnualDividendYield),
		FiftyTwoWeekHigh: positive(q.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  positive(q.FiftyTwoWeekLow),
		Exchange:         q.Exchange,
		MarketState:      q.MarketState,
	}
	if out.Change == 0 && q.RegularMarketPreviousClose > 0 && price > 0 {
		out.Change = price - q.RegularMarketPreviousClose
		out.ChangePercent = out.Change / q.RegularMarketPreviousClose * 100
	}
	if !q.RegularMarketTime.IsZero() && q.RegularMarketTime.Unix() > 0 {
		ts := q.RegularMarketTime.UTC()
		out.RegularMarketTime = &ts
	}
	return out, true
}

// screenerQuote はスクリーナーの1行をQuoteに変換します。
func screenerQuote(q models.ScreenerQuote) entity.Quote {
	return entity.Quote{
		Symbol:           q.Symbol,
		Name:             firstNonEmpty(q.ShortName, q.LongName, q.Symbol),
		Price:            q.RegularMarketPrice,
		Change:           q.RegularMarketChange,
		ChangePercent:    q.RegularMarketChangePercent,
		High:             q.RegularMarketDayHigh,
		Low:              q.RegularMarketDayLow,
		Open:             q.RegularMarketOpen,
		PreviousClose:    q.RegularMarketPreviousClose,
		MarketCap:        positive(float64(q.MarketCap)),
		Volume:           positiveInt(q.RegularMarketVolume),
		AvgVolume:        positiveInt(q.AverageVolume),
		PERatio:          positive(q.TrailingPE),
		ForwardPE:        positive(q.ForwardPE),
		DividendYield:    positive(q.DividendYield),
		FiftyTwoWeekHigh: positive(q.FiftyTwoWeekHigh),
		FiftyTwoWeekLow:  positive(q.FiftyTwoWeekLow),
		Exchange:         q.Exchange,
		MarketState:      q.MarketState,
	}
}

func positive(v float64) *float64 {
	if v <= 0 || math.IsNaN(v) {
		return nil
	}
	return &v
}

func nonZero(v float64) *float64 {
	if v == 0 || math.IsNaN(v) {
		return nil
	}
	return &v
}

func positiveInt(v int64) *int64 {
	if v <= 0 {
		return nil
	}
	return &v
}
