// Package entity defines the stock detail models.
package entity

import (
	market "marketcolor/internal/domain/entity"
)

// Detail is the stock page payload. Profile and News are set only when requested;
// a requested but unavailable profile stays nil and unavailable news is empty.
type Detail struct {
	Quote   market.Quote
	History []market.Bar
	Profile *market.Profile
	News    []market.NewsItem
}

// DetailOptions selects the optional parts of a Detail.
type DetailOptions struct {
	Range   string
	Profile bool
	News    bool
}

// SearchHit is one symbol suggestion.
type SearchHit struct {
	Symbol string
	Name   string
}
