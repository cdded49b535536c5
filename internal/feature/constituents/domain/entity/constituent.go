// Package entity defines the S&P 500 constituent models.
package entity

import (
	"slices"
	"time"
)

// Constituent is one index member. Symbol is unique within a list.
type Constituent struct {
	Symbol string `msgpack:"s" yaml:"symbol"`
	Name   string `msgpack:"n" yaml:"name"`
	Sector string `msgpack:"c" yaml:"sector"`
}

// Snapshot is a constituent list together with the time it was fetched.
type Snapshot struct {
	Constituents []Constituent `msgpack:"items"`
	FetchedAt    time.Time     `msgpack:"fetched_at"`
}

// Sectors are the eleven GICS sectors used by the index.
var Sectors = []string{
	"Information Technology",
	"Health Care",
	"Financials",
	"Consumer Discretionary",
	"Communication Services",
	"Industrials",
	"Consumer Staples",
	"Energy",
	"Utilities",
	"Real Estate",
	"Materials",
}

// IsSector reports whether s is one of Sectors.
func IsSector(s string) bool {
	return slices.Contains(Sectors, s)
}
