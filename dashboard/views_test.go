package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeeintel/catalog"
	"coffeeintel/models"
	"coffeeintel/scenario"
)

func fixedState() State {
	fx := catalog.MustFixtures()
	series := []models.SeriesPoint{
		{Month: "M1", Yield: 900, CBD: 0.10, NDVI: 0.70, Ripeness: 0.001},
		{Month: "M2", Yield: 100, CBD: 0.30, NDVI: 0.80, Ripeness: 0.50},
	}
	return State{
		Estate:    "Kahawa East",
		Estates:   fx.Estates,
		Scenario:  scenario.Snapshot{Parameters: models.ScenarioParameters{RainDelayWeeks: 2, CBDSpread: 0.3, FertAdj: -1}, Base: 730, Series: series},
		Step:      2,
		Blocks:    catalog.FilterBlocks(fx.Blocks, "Kahawa East"),
		AllBlocks: fx.Blocks,
		Models:    fx.Models,
		Fixtures:  fx,
	}
}

func TestOverviewKPIs(t *testing.T) {
	v := Overview(fixedState())
	require.Len(t, v.KPIs, 3)
	assert.Equal(t, "1000", v.KPIs[0].Value)
	assert.Equal(t, "0.75", v.KPIs[1].Value)
	assert.Equal(t, "20%", v.KPIs[2].Value)
	assert.Len(t, v.Recommendations, 3)
}

func TestScenarioNodes(t *testing.T) {
	v := Scenario(fixedState())
	var kpis []string
	for _, n := range v.Nodes {
		kpis = append(kpis, n.KPI)
	}
	assert.Equal(t, []string{"2w delay", "30%", "-10% adj", "0w pull-in", "1000 kg"}, kpis)
	assert.Equal(t, 1000, v.TotalYield)
}

func TestAnalyticsTreemap(t *testing.T) {
	v := Analytics(fixedState())
	require.Len(t, v.Treemap, 2)
	assert.Equal(t, 90.0, v.Treemap[0].Size)
	assert.Equal(t, 20.0, v.Treemap[1].Size)
	assert.Equal(t, "greenSoft", v.Treemap[1].Tone)
	assert.Equal(t, []RadarPoint{{Month: "M1", CBD: 0.10}, {Month: "M2", CBD: 0.30}}, v.Radar)
}

func TestStakeholders(t *testing.T) {
	v := Stakeholders(fixedState())
	assert.Len(t, v.Manager.Blocks, 2)
	assert.Equal(t, []Slice{{Name: "M1", Value: 1}, {Name: "M2", Value: 50}}, v.Agronomy.Ripeness)
	assert.Equal(t, "1000 kg", v.Executive.KPIs[1].Value)
	assert.Equal(t, "A1 – Kahawa East", v.Mobile.BlockOptions[0])
	assert.Len(t, v.Mobile.BlockOptions, 4)
}

func TestOnboardingView(t *testing.T) {
	v := Onboarding(fixedState())
	require.Len(t, v.Steps, 4)
	assert.True(t, v.Steps[1].Active)
	assert.False(t, v.Steps[0].Active)
	assert.Equal(t, "Pair Drones & App", v.Steps[1].Title)
	assert.Equal(t, "Drone paired: 0", v.Summary[1])
}

func TestModelsView(t *testing.T) {
	v := Models(fixedState())
	require.Len(t, v.Registry, 6)
	assert.Equal(t, "F1", v.Registry[0].MetricName)
	assert.Equal(t, "MAPE", v.Registry[4].MetricName)
	assert.Len(t, v.Pipeline, 5)
}

func TestRenderSections(t *testing.T) {
	d, _, _ := newTestDashboard(t)
	st, err := d.State(context.Background())
	require.NoError(t, err)
	for _, s := range Sections {
		v, err := Render(st, s)
		require.NoError(t, err, s)
		assert.NotNil(t, v, s)
	}
	_, err = Render(st, "settings")
	assert.True(t, errors.Is(err, ErrUnknownSection))
}

func TestRenderIsPure(t *testing.T) {
	st := fixedState()
	a, _ := Render(st, "overview")
	b, _ := Render(st, "overview")
	assert.Equal(t, fmt.Sprint(a), fmt.Sprint(b))
}
