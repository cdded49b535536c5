// Package entity defines the heatmap models.
package entity

// HeatmapStock is one tile of the heatmap. MarketCap is always positive.
type HeatmapStock struct {
	Symbol        string
	Name          string
	Sector        string
	Price         float64
	Change        float64
	ChangePercent float64
	MarketCap     float64
}

// Sector groups the tiles of one GICS sector, largest first.
type Sector struct {
	Name     string
	Children []HeatmapStock
}

// TotalMarketCap is the sum of the children's market caps.
func (s Sector) TotalMarketCap() float64 {
	var total float64
	for _, c := range s.Children {
		total += c.MarketCap
	}
	return total
}
