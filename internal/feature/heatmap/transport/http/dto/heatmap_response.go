package dto

// HeatmapStockResponse はヒートマップのタイル1件です。
type HeatmapStockResponse struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	MarketCap     float64 `json:"marketCap"`
}

// SectorResponse はセクター1件です。
type SectorResponse struct {
	Name                  string                 `json:"name"`
	Children              []HeatmapStockResponse `json:"children"`
	TotalMarketCap        float64                `json:"totalMarketCap"`
	WeightedChangePercent float64                `json:"weightedChangePercent"`
}
