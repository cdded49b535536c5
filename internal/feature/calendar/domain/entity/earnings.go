// Package entity defines the domain models for the earnings calendar feature.
package entity

// Hour values for when an earnings release happens relative to the session.
const (
	HourBeforeOpen   = "bmo"
	HourAfterClose   = "amc"
	HourDuringMarket = "dmh"
)

// EarningsEvent is one scheduled or reported earnings release.
type EarningsEvent struct {
	ID              string   `json:"id"`
	Symbol          string   `json:"symbol"`
	Date            string   `json:"date"` // ISO date: "2026-01-15"
	Hour            string   `json:"hour"` // bmo, amc or dmh
	Quarter         int      `json:"quarter"`
	Year            int      `json:"year"`
	EpsEstimate     *float64 `json:"epsEstimate,omitempty"`
	EpsActual       *float64 `json:"epsActual,omitempty"`
	RevenueEstimate *float64 `json:"revenueEstimate,omitempty"`
	RevenueActual   *float64 `json:"revenueActual,omitempty"`
}
