package models

// SeriesPoint — one month of the forecast horizon.
type SeriesPoint struct {
	Month    string  `json:"month"`    // "M1".."M12"
	Yield    int     `json:"yield"`    // kg
	CBD      float64 `json:"cbd"`      // risk, hundredths
	NDVI     float64 `json:"ndvi"`
	Ripeness float64 `json:"ripeness"` // fraction 0..1
}

// HeatTile — one cell of the 8x8 estate heatmap.
type HeatTile struct {
	ID       int     `json:"id"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	NDVI     float64 `json:"ndvi"`
	CBDRisk  float64 `json:"cbdRisk"`
	Ripeness float64 `json:"ripeness"`
}

// ScatterPoint — one sensor anomaly; Z is the risk magnitude.
type ScatterPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ScenarioParameters are the four user-tunable simulation inputs.
type ScenarioParameters struct {
	RainDelayWeeks    int     `json:"rainDelayWeeks"`
	CBDSpread         float64 `json:"cbdSpread"`
	FertAdj           float64 `json:"fertAdj"`
	HarvestWeekPullIn int     `json:"harvestWeekPullIn"`
}
