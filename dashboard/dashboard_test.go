package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"coffeeintel/catalog"
	"coffeeintel/mockdata"
	"coffeeintel/models"
	"coffeeintel/prompt"
	"coffeeintel/scenario"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingObserver struct {
	mu                sync.Mutex
	recomputes, ticks int
	rules             []string
}

func (o *countingObserver) Recomputed() { o.mu.Lock(); o.recomputes++; o.mu.Unlock() }
func (o *countingObserver) Ticked()     { o.mu.Lock(); o.ticks++; o.mu.Unlock() }
func (o *countingObserver) Answered(r string) {
	o.mu.Lock()
	o.rules = append(o.rules, r)
	o.mu.Unlock()
}

func testDeps(clk *fakeClock, obs Observer) Deps {
	return Deps{
		Generator:    mockdata.New(21),
		TickInterval: time.Hour,
		Now:          clk.Now,
		Observer:     obs,
	}
}

func newTestDashboard(t *testing.T) (*Dashboard, *fakeClock, *countingObserver) {
	t.Helper()
	clk := &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
	obs := &countingObserver{}
	d := New(context.Background(), "test", testDeps(clk, obs))
	t.Cleanup(d.Close)
	return d, clk, obs
}

func TestNewDashboardDefaults(t *testing.T) {
	d, _, obs := newTestDashboard(t)
	st, err := d.State(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Kahawa East", st.Estate)
	assert.Equal(t, FirstStep, st.Step)
	assert.Equal(t, scenario.Defaults(), st.Scenario.Parameters)
	assert.Len(t, st.Scenario.Series, 12)
	assert.Len(t, st.Scenario.Heat, 64)
	assert.Len(t, st.Scatter, 20)
	assert.Len(t, st.Ticker, 3)
	assert.Len(t, st.TrainingLog, 3)
	assert.Equal(t, []string{"A1", "A2"}, []string{st.Blocks[0].ID, st.Blocks[1].ID})
	assert.Nil(t, st.Answer)
	assert.Equal(t, 1, obs.recomputes)
}

func TestSelectEstate(t *testing.T) {
	d, _, _ := newTestDashboard(t)
	require.NoError(t, d.SelectEstate("Sondu Hills"))
	st, err := d.State(context.Background())
	require.NoError(t, err)
	require.Len(t, st.Blocks, 1)
	assert.Equal(t, "B7", st.Blocks[0].ID)

	err = d.SelectEstate("Atlantis")
	assert.True(t, errors.Is(err, catalog.ErrUnknownEstate))
	assert.Equal(t, "Sondu Hills", d.Estate())
}

func TestScenarioOperations(t *testing.T) {
	d, _, obs := newTestDashboard(t)
	snap, err := d.UpdateParameter(scenario.RainDelayWeeks, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.Parameters.RainDelayWeeks)

	_, err = d.UpdateParameter("sunshine", 1)
	assert.True(t, errors.Is(err, scenario.ErrUnknownParameter))

	snap, err = d.SetParameters(models.ScenarioParameters{RainDelayWeeks: 2, CBDSpread: 0.3, FertAdj: -1})
	require.NoError(t, err)
	assert.InDelta(t, 730, snap.Base, 1e-9)

	snap, err = d.ResetScenario()
	require.NoError(t, err)
	assert.Equal(t, scenario.Defaults(), snap.Parameters)
	assert.Equal(t, 4, obs.recomputes)
}

func TestAsk(t *testing.T) {
	d, _, obs := newTestDashboard(t)
	a, err := d.Ask("simulate next yield and cbd")
	require.NoError(t, err)
	assert.Equal(t, "yield", a.Rule)
	assert.Equal(t, prompt.YieldResponse, a.Answer)

	st, err := d.State(context.Background())
	require.NoError(t, err)
	require.NotNil(t, st.Answer)
	assert.Equal(t, a, *st.Answer)
	assert.Equal(t, []string{"yield"}, obs.rules)
}

func TestOnboardingStepClamps(t *testing.T) {
	d, _, _ := newTestDashboard(t)
	r, err := d.Do(ActionBack)
	require.NoError(t, err)
	assert.Equal(t, FirstStep, r.Step)

	for i := 0; i < 6; i++ {
		r, err = d.Do(ActionNext)
		require.NoError(t, err)
	}
	assert.Equal(t, LastStep, r.Step)

	r, err = d.Do(ActionBack)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Step)
}

func TestActions(t *testing.T) {
	d, _, _ := newTestDashboard(t)

	r, err := d.Do(ActionSync)
	require.NoError(t, err)
	assert.Equal(t, "Mobile sync 08:00:00: field reports uploaded", r.Entry)

	r, err = d.Do(ActionRetrain)
	require.NoError(t, err)
	assert.NotEmpty(t, r.JobID)

	_, err = d.Do(ActionPairDrone)
	require.NoError(t, err)

	_, err = d.Do("launch")
	assert.True(t, errors.Is(err, ErrUnknownAction))

	st, err := d.State(context.Background())
	require.NoError(t, err)
	assert.True(t, st.DronePaired)
	require.NotNil(t, st.LastSync)
	assert.Equal(t, "Drone paired: Edge AI active", st.Ticker[0])
	assert.Len(t, st.Ticker, 5)
	assert.True(t, strings.HasPrefix(st.TrainingLog[0], "Training job 08:00:00"))
}

func TestCloseStopsEverything(t *testing.T) {
	clk := &fakeClock{now: time.Now()}
	obs := &countingObserver{}
	deps := testDeps(clk, obs)
	deps.TickInterval = time.Millisecond
	d := New(context.Background(), "ticking", deps)

	require.Eventually(t, func() bool {
		obs.mu.Lock()
		defer obs.mu.Unlock()
		return obs.ticks >= 2
	}, time.Second, time.Millisecond)

	d.Close()
	obs.mu.Lock()
	ticks := obs.ticks
	obs.mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	obs.mu.Lock()
	assert.Equal(t, ticks, obs.ticks)
	obs.mu.Unlock()

	assert.True(t, d.Closed())
	_, err := d.Ask("hello")
	assert.True(t, errors.Is(err, ErrClosed))
	_, err = d.Do(ActionNext)
	assert.True(t, errors.Is(err, ErrClosed))
	_, err = d.UpdateParameter(scenario.FertAdj, 1)
	assert.True(t, errors.Is(err, ErrClosed))
	assert.True(t, errors.Is(d.SelectEstate("Sondu Hills"), ErrClosed))
}
