// Package entity defines the market data models shared by every feature.
package entity

import "time"

// Quote is a normalized price snapshot for one instrument.
// Required numerics default to 0 when the vendor omits them; optional ones stay nil.
type Quote struct {
	Symbol            string     `json:"symbol"`
	Name              string     `json:"name"`
	Price             float64    `json:"price"`
	Change            float64    `json:"change"`
	ChangePercent     float64    `json:"changePercent"`
	High              float64    `json:"high"`
	Low               float64    `json:"low"`
	Open              float64    `json:"open"`
	PreviousClose     float64    `json:"previousClose"`
	MarketCap         *float64   `json:"marketCap,omitempty"`
	Volume            *int64     `json:"volume,omitempty"`
	AvgVolume         *int64     `json:"avgVolume,omitempty"`
	PERatio           *float64   `json:"peRatio,omitempty"`
	ForwardPE         *float64   `json:"forwardPE,omitempty"`
	DividendYield     *float64   `json:"dividendYield,omitempty"`
	FiftyTwoWeekHigh  *float64   `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyTwoWeekLow   *float64   `json:"fiftyTwoWeekLow,omitempty"`
	Exchange          string     `json:"exchange,omitempty"`
	MarketState       string     `json:"marketState,omitempty"`
	RegularMarketTime *time.Time `json:"regularMarketTime,omitempty"`
}

// Bar is one OHLCV period of a price history.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// NewsItem is a headline related to a symbol.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Publisher   string    `json:"publisher"`
	PublishedAt time.Time `json:"publishedAt"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// SearchQuote is a raw symbol-search hit before filtering.
type SearchQuote struct {
	Symbol         string
	ShortName      string
	LongName       string
	QuoteType      string
	IsYahooFinance bool
}

// SearchResult bundles symbol hits and news for a free-text query.
type SearchResult struct {
	Quotes []SearchQuote
	News   []NewsItem
}
