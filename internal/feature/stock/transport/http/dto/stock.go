package dto

import (
	"marketcolor/internal/domain/entity"
)

// StockDetailResponse は個別銘柄ページのレスポンスです。
// newsは要求された場合のみ出力され、取得できなかった場合は空配列になります。
type StockDetailResponse struct {
	Quote   entity.Quote       `json:"quote"`
	History []entity.Bar       `json:"history"`
	Profile *entity.Profile    `json:"profile,omitempty"`
	News    *[]entity.NewsItem `json:"news,omitempty"`
}

// SearchHitResponse は検索候補1件です。
type SearchHitResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
