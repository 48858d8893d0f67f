package models

// ModelStatus mirrors the lifecycle labels of the registry.
type ModelStatus string

const (
	ModelStatusCanary ModelStatus = "Canary"
	ModelStatusStable ModelStatus = "Stable"
	ModelStatusBeta   ModelStatus = "Beta"
)

// Model — one entry of the model registry. Exactly one of F1, MAPE, AUROC is set,
// depending on the model type.
type Model struct {
	Name   string      `bson:"_id"             json:"name"            yaml:"name"`
	Type   string      `bson:"type"            json:"type"            yaml:"type"`   // Edge CV | TFLite | WebGPU | Server DL
	Device string      `bson:"device"          json:"device"          yaml:"device"` // target hardware
	Status ModelStatus `bson:"status"          json:"status"          yaml:"status"`
	F1     *float64    `bson:"f1,omitempty"    json:"f1,omitempty"    yaml:"f1,omitempty"`
	MAPE   *float64    `bson:"mape,omitempty"  json:"mape,omitempty"  yaml:"mape,omitempty"`
	AUROC  *float64    `bson:"auroc,omitempty" json:"auroc,omitempty" yaml:"auroc,omitempty"`
}

// Metric returns the name and value of the accuracy metric carried by m.
// ok is false when the fixture carries none.
func (m Model) Metric() (name string, value float64, ok bool) {
	switch {
	case m.F1 != nil:
		return "F1", *m.F1, true
	case m.MAPE != nil:
		return "MAPE", *m.MAPE, true
	case m.AUROC != nil:
		return "AUROC", *m.AUROC, true
	}
	return "", 0, false
}
