package dashboard

import (
	"fmt"
	"math"

	"coffeeintel/models"
	"coffeeintel/scenario"
)

// Sections of the dashboard, in tab order.
var Sections = []string{"overview", "datahub", "analytics", "scenario", "stakeholders", "onboarding", "models"}

// Render projects st onto one section. It reads nothing but st.
func Render(st State, section string) (any, error) {
	switch section {
	case "overview":
		return Overview(st), nil
	case "datahub":
		return DataHub(st), nil
	case "analytics":
		return Analytics(st), nil
	case "scenario":
		return Scenario(st), nil
	case "stakeholders":
		return Stakeholders(st), nil
	case "onboarding":
		return Onboarding(st), nil
	case "models":
		return Models(st), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
}

// KPI is one headline card.
type KPI struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type OverviewView struct {
	KPIs            []KPI                   `json:"kpis"`
	Series          []models.SeriesPoint    `json:"series"`
	Heat            []models.HeatTile       `json:"heat"`
	Scatter         []models.ScatterPoint   `json:"scatter"`
	Recommendations []models.Recommendation `json:"recommendations"`
	Ticker          []string                `json:"ticker"`
	Answer          *Answer                 `json:"answer,omitempty"`
}

// Overview renders the landing tab.
func Overview(st State) OverviewView {
	snap := st.Scenario
	return OverviewView{
		KPIs: []KPI{
			{Label: "Forecasted Yield (kg)", Value: fmt.Sprint(snap.TotalYield())},
			{Label: "Avg NDVI", Value: fmt.Sprintf("%.2f", AvgNDVI(snap))},
			{Label: "CBD Risk", Value: fmt.Sprintf("%d%%", CBDRiskPct(snap))},
		},
		Series:          snap.Series,
		Heat:            snap.Heat,
		Scatter:         st.Scatter,
		Recommendations: st.Fixtures.Recommendations,
		Ticker:          st.Ticker,
		Answer:          st.Answer,
	}
}

// AvgNDVI is the mean NDVI over the series, 0 when empty.
func AvgNDVI(s scenario.Snapshot) float64 {
	if len(s.Series) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range s.Series {
		sum += p.NDVI
	}
	return sum / float64(len(s.Series))
}

// CBDRiskPct is the mean CBD risk as a rounded percentage.
func CBDRiskPct(s scenario.Snapshot) int {
	if len(s.Series) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range s.Series {
		sum += p.CBD
	}
	return int(math.Round(sum / float64(len(s.Series)) * 100))
}

type DataHubView struct {
	Sources  []models.DataSource `json:"sources"`
	Schemas  []string            `json:"schemas"`
	LastSync string              `json:"lastSync,omitempty"`
}

func DataHub(st State) DataHubView {
	v := DataHubView{
		Sources: st.Fixtures.DataSources,
		Schemas: st.Fixtures.Schemas,
	}
	if st.LastSync != nil {
		v.LastSync = st.LastSync.Format("15:04:05")
	}
	return v
}

// TreemapCell sizes one month of the yield treemap.
type TreemapCell struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
	Tone string  `json:"tone"` // green | greenSoft | red, cycling
}

// RadarPoint is one spoke of the CBD risk radar.
type RadarPoint struct {
	Month string  `json:"month"`
	CBD   float64 `json:"cbd"`
}

type AnalyticsView struct {
	Series  []models.SeriesPoint `json:"series"`
	Treemap []TreemapCell        `json:"treemap"`
	Radar   []RadarPoint         `json:"radar"`
}

var tones = []string{"green", "greenSoft", "red"}

func Analytics(st State) AnalyticsView {
	cells := make([]TreemapCell, len(st.Scenario.Series))
	radar := make([]RadarPoint, len(st.Scenario.Series))
	for i, p := range st.Scenario.Series {
		cells[i] = TreemapCell{
			Name: p.Month,
			Size: math.Max(20, float64(p.Yield)/10),
			Tone: tones[i%len(tones)],
		}
		radar[i] = RadarPoint{Month: p.Month, CBD: p.CBD}
	}
	return AnalyticsView{Series: st.Scenario.Series, Treemap: cells, Radar: radar}
}

// FlowNode is one box of the scenario flow diagram.
type FlowNode struct {
	Label string `json:"label"`
	KPI   string `json:"kpi"`
}

type ScenarioView struct {
	Parameters models.ScenarioParameters `json:"parameters"`
	Base       float64                   `json:"base"`
	Nodes      []FlowNode                `json:"nodes"`
	Series     []models.SeriesPoint      `json:"series"`
	TotalYield int                       `json:"totalYield"`
}

func Scenario(st State) ScenarioView {
	p := st.Scenario.Parameters
	total := st.Scenario.TotalYield()
	return ScenarioView{
		Parameters: p,
		Base:       st.Scenario.Base,
		Nodes: []FlowNode{
			{Label: "Weather Shock", KPI: fmt.Sprintf("%dw delay", p.RainDelayWeeks)},
			{Label: "Disease Spread", KPI: fmt.Sprintf("%d%%", int(math.Round(p.CBDSpread*100)))},
			{Label: "Nutrient Strategy", KPI: fmt.Sprintf("%d%% adj", int(math.Round(p.FertAdj*10)))},
			{Label: "Harvest Plan", KPI: fmt.Sprintf("%dw pull-in", p.HarvestWeekPullIn)},
			{Label: "Yield Outcome", KPI: fmt.Sprintf("%d kg", total)},
		},
		Series:     st.Scenario.Series,
		TotalYield: total,
	}
}

// Slice is one pie segment.
type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type StakeholdersView struct {
	Manager struct {
		Estate string         `json:"estate"`
		Blocks []models.Block `json:"blocks"`
		Tasks  []string       `json:"tasks"`
	} `json:"manager"`
	Agronomy struct {
		Ripeness []Slice             `json:"ripeness"`
		Series   []models.SeriesPoint `json:"series"`
	} `json:"agronomy"`
	Executive struct {
		KPIs   []KPI    `json:"kpis"`
		Market []string `json:"market"`
	} `json:"executive"`
	Investor struct {
		Sustainability []string `json:"sustainability"`
	} `json:"investor"`
	Mobile struct {
		BlockOptions []string `json:"blockOptions"`
	} `json:"mobile"`
}

func Stakeholders(st State) StakeholdersView {
	var v StakeholdersView
	v.Manager.Estate = st.Estate
	v.Manager.Blocks = st.Blocks
	v.Manager.Tasks = st.Fixtures.FieldTasks

	v.Agronomy.Series = st.Scenario.Series
	v.Agronomy.Ripeness = make([]Slice, len(st.Scenario.Series))
	for i, p := range st.Scenario.Series {
		v.Agronomy.Ripeness[i] = Slice{Name: p.Month, Value: max(1, int(math.Round(p.Ripeness*100)))}
	}

	v.Executive.KPIs = []KPI{
		{Label: "Forecast Error (MAPE)", Value: "11%"},
		{Label: "Yield (Season Total)", Value: fmt.Sprintf("%d kg", st.Scenario.TotalYield())},
		{Label: "Cost/acre (est)", Value: "$412"},
	}
	v.Executive.Market = []string{
		"Price sensitivity: +1% price ↑ adds +$42k revenue",
		"ESG: Carbon intensity trending ↓ 6% YoY",
	}
	v.Investor.Sustainability = []string{"Water use per kg", "Fertilizer efficiency index", "Worker safety compliance"}

	all := st.AllBlocks
	v.Mobile.BlockOptions = make([]string, len(all))
	for i, b := range all {
		v.Mobile.BlockOptions[i] = fmt.Sprintf("%s – %s", b.ID, b.Estate)
	}
	return v
}

// OnboardingStep is one entry of the wizard indicator.
type OnboardingStep struct {
	N      int    `json:"n"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

type OnboardingView struct {
	Step    int              `json:"step"`
	Steps   []OnboardingStep `json:"steps"`
	Summary []string         `json:"summary"`
}

func Onboarding(st State) OnboardingView {
	steps := make([]OnboardingStep, len(st.Fixtures.OnboardingSteps))
	for i, title := range st.Fixtures.OnboardingSteps {
		steps[i] = OnboardingStep{N: i + 1, Title: title, Active: i+1 == st.Step}
	}
	drone := "Drone paired: 0"
	if st.DronePaired {
		drone = "Drone paired: 1 (Edge AI active)"
	}
	return OnboardingView{
		Step:  st.Step,
		Steps: steps,
		Summary: []string{
			fmt.Sprintf("Blocks created: %d", len(st.AllBlocks)),
			drone,
			"Soil & weather: Connected",
			"Team invited: Manager + Agronomist",
		},
	}
}

// RegistryRow is a model with its single metric flattened.
type RegistryRow struct {
	models.Model
	MetricName  string  `json:"metric,omitempty"`
	MetricValue float64 `json:"metricValue,omitempty"`
}

type RegistryView struct {
	Registry    []RegistryRow `json:"registry"`
	Pipeline    []string      `json:"pipeline"`
	TrainingLog []string      `json:"trainingLog"`
}

func Models(st State) RegistryView {
	rows := make([]RegistryRow, len(st.Models))
	for i, m := range st.Models {
		rows[i] = RegistryRow{Model: m}
		if name, v, ok := m.Metric(); ok {
			rows[i].MetricName, rows[i].MetricValue = name, v
		}
	}
	return RegistryView{Registry: rows, Pipeline: st.Fixtures.Pipeline, TrainingLog: st.TrainingLog}
}
