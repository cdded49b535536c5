// Package entity defines the market overview models.
package entity

// MarketIndex is a quote for a fixed, named instrument.
// Category and Sparkline are set only by the extended lists.
type MarketIndex struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
	Category      string
	Sparkline     []float64
}

// MarketMover is one row of a ranked screener.
type MarketMover struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        *int64
}

// MoverKind selects a ranked screener.
type MoverKind string

const (
	Gainers MoverKind = "gainers"
	Losers  MoverKind = "losers"
	Active  MoverKind = "active"
)

// ScreenerID maps the kind to the vendor's predefined screener.
func (k MoverKind) ScreenerID() (string, bool) {
	switch k {
	case Gainers:
		return "day_gainers", true
	case Losers:
		return "day_losers", true
	case Active:
		return "most_actives", true
	default:
		return "", false
	}
}

// Instrument is an entry of a fixed symbol list.
type Instrument struct {
	Symbol   string
	Name     string
	Category string
}
