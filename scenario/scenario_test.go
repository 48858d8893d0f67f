package scenario

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coffeeintel/mockdata"
	"coffeeintel/models"
)

func TestEffectiveBase(t *testing.T) {
	cases := []struct {
		name string
		in   models.ScenarioParameters
		want float64
	}{
		{"defaults", Defaults(), 885},
		{"weather shock", models.ScenarioParameters{RainDelayWeeks: 2, CBDSpread: 0.3, FertAdj: -1}, 730},
		{"pull-in", models.ScenarioParameters{FertAdj: 2, HarvestWeekPullIn: 3}, 1095},
		{"floor", models.ScenarioParameters{RainDelayWeeks: 20, CBDSpread: 5, FertAdj: -10}, MinBase},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, EffectiveBase(tc.in), 1e-9)
		})
	}
}

func TestClamp(t *testing.T) {
	got := Clamp(models.ScenarioParameters{RainDelayWeeks: -1, CBDSpread: 0.9, FertAdj: -7, HarvestWeekPullIn: 9})
	assert.Equal(t, models.ScenarioParameters{RainDelayWeeks: 0, CBDSpread: MaxCBDSpread, FertAdj: -MaxFertAdj, HarvestWeekPullIn: MaxHarvestWeekPullIn}, got)

	got = Clamp(models.ScenarioParameters{CBDSpread: math.NaN()})
	assert.Zero(t, got.CBDSpread)
}

func TestUpdateRecomputesAroundShiftedBase(t *testing.T) {
	s := NewStore(mockdata.New(3))
	for name, v := range map[string]float64{RainDelayWeeks: 2, CBDSpread: 0.3, FertAdj: -1, HarvestWeekPullIn: 0} {
		_, err := s.Update(name, v)
		require.NoError(t, err)
	}
	snap := s.Snapshot()
	assert.InDelta(t, 730, snap.Base, 1e-9)
	require.Len(t, snap.Series, 12)
	require.Len(t, snap.Heat, 64)

	avg := float64(snap.TotalYield()) / float64(len(snap.Series))
	assert.GreaterOrEqual(t, avg, 0.85*730)
	assert.LessOrEqual(t, avg, 1.15*730)
}

func TestUpdateClampsAndRounds(t *testing.T) {
	s := NewStore(mockdata.New(3))
	snap, err := s.Update(RainDelayWeeks, 2.6)
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Parameters.RainDelayWeeks)

	snap, err = s.Update(HarvestWeekPullIn, math.Inf(1))
	require.NoError(t, err)
	assert.Equal(t, MaxHarvestWeekPullIn, snap.Parameters.HarvestWeekPullIn)
}

func TestUpdateUnknownParameter(t *testing.T) {
	s := NewStore(mockdata.New(3))
	before := s.Snapshot().Revision
	_, err := s.Update("irrigation", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownParameter))
	assert.Equal(t, before, s.Snapshot().Revision)
}

func TestResetAndObserver(t *testing.T) {
	var seen []uint64
	s := NewStore(mockdata.New(3), WithObserver(func(snap Snapshot) { seen = append(seen, snap.Revision) }))
	s.Set(models.ScenarioParameters{RainDelayWeeks: 4})
	snap := s.Reset()
	assert.Equal(t, Defaults(), snap.Parameters)
	assert.Equal(t, []uint64{1, 2, 3}, seen)
}

func TestSnapshotIsACopy(t *testing.T) {
	s := NewStore(mockdata.New(3))
	snap := s.Snapshot()
	snap.Series[0].Yield = -1
	assert.NotEqual(t, -1, s.Snapshot().Series[0].Yield)
}

func TestConcurrentUpdates(t *testing.T) {
	s := NewStore(mockdata.New(11))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = s.Update(FertAdj, float64(i)/4)
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, uint64(9), s.Snapshot().Revision)
}
