package models

// Block — one managed coffee block on an estate. Demo fixture, never mutated.
type Block struct {
	ID         string  `bson:"_id"        json:"id"         yaml:"id"`
	Estate     string  `bson:"estate"     json:"estate"     yaml:"estate"`
	Trees      int     `bson:"trees"      json:"trees"      yaml:"trees"`
	Stage      string  `bson:"stage"      json:"stage"      yaml:"stage"`      // e.g. "Flowering", "Ripening"
	NDVI       float64 `bson:"ndvi"       json:"ndvi"       yaml:"ndvi"`
	CBDRisk    float64 `bson:"cbdRisk"    json:"cbdRisk"    yaml:"cbdRisk"`    // fraction 0..1
	Ripeness   float64 `bson:"ripeness"   json:"ripeness"   yaml:"ripeness"`   // fraction 0..1
	Rainfall7d float64 `bson:"rainfall7d" json:"rainfall7d" yaml:"rainfall7d"` // mm over the last 7 days
	FertCost   float64 `bson:"fertCost"   json:"fertCost"   yaml:"fertCost"`
	YieldKg    float64 `bson:"yieldKg"    json:"yieldKg"    yaml:"yieldKg"`
}

// DataSource is a feed shown on the data hub.
type DataSource struct {
	Name   string `json:"name"   yaml:"name"`
	Status string `json:"status" yaml:"status"` // Live | Indexed | Synced
}

// Recommendation is a static advisory card.
type Recommendation struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text"  yaml:"text"`
}
