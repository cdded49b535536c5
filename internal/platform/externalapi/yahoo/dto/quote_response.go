// Package dto mirrors the Yahoo Finance JSON payloads. Every numeric is a pointer
// so an absent field can be told apart from a zero.
package dto

// APIError is the error object Yahoo embeds next to a null result.
type APIError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// QuoteResponse is the body of /v7/finance/quote.
type QuoteResponse struct {
	QuoteResponse struct {
		Result []Quote    `json:"result"`
		Error  *APIError `json:"error"`
	} `json:"quoteResponse"`
}

// Quote is one element of a quote result.
type Quote struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	QuoteType                  string   `json:"quoteType"`
	Exchange                   string   `json:"exchange"`
	MarketState                string   `json:"marketState"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	RegularMarketDayHigh       *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64 `json:"regularMarketDayLow"`
	RegularMarketOpen          *float64 `json:"regularMarketOpen"`
	RegularMarketPreviousClose *float64 `json:"regularMarketPreviousClose"`
	RegularMarketVolume        *float64 `json:"regularMarketVolume"`
	RegularMarketTime          *int64   `json:"regularMarketTime"`
	AverageDailyVolume3Month   *float64 `json:"averageDailyVolume3Month"`
	MarketCap                  *float64 `json:"marketCap"`
	TrailingPE                 *float64 `json:"trailingPE"`
	ForwardPE                  *float64 `json:"forwardPE"`
	DividendYield              *float64 `json:"dividendYield"`
	FiftyTwoWeekHigh           *float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow            *float64 `json:"fiftyTwoWeekLow"`
}
