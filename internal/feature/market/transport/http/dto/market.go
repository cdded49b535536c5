package dto

// MarketIndexResponse は固定銘柄リストの1件です。categoryとsparklineは拡張リストのみ設定されます。
type MarketIndexResponse struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Category      string    `json:"category,omitempty"`
	Sparkline     []float64 `json:"sparkline,omitempty"`
}

// MoverResponse は値上がり・値下がり・出来高ランキングの1件です。
type MoverResponse struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        *int64  `json:"volume,omitempty"`
}

// StatusResponse は市場の状態です。
type StatusResponse struct {
	State string `json:"state"`
}
