// Package scenario holds the scenario studio parameters and the series and
// heatmap derived from them.
package scenario

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"coffeeintel/mockdata"
	"coffeeintel/models"
)

// Parameter names accepted by Update.
const (
	RainDelayWeeks    = "rainDelayWeeks"
	CBDSpread         = "cbdSpread"
	FertAdj           = "fertAdj"
	HarvestWeekPullIn = "harvestWeekPullIn"
)

// Slider domains.
const (
	MaxRainDelayWeeks    = 6
	MaxCBDSpread         = 0.5
	MaxFertAdj           = 2.0
	MaxHarvestWeekPullIn = 3

	MinBase = 500.0
)

var ErrUnknownParameter = errors.New("unknown scenario parameter")

// Source generates the derived data. *mockdata.Generator satisfies it.
type Source interface {
	Series(count int, base float64) []models.SeriesPoint
	HeatTiles() []models.HeatTile
}

// Defaults are the slider positions of a fresh studio.
func Defaults() models.ScenarioParameters {
	return models.ScenarioParameters{CBDSpread: 0.15}
}

// Clamp forces every field into its slider domain. Integer weeks round to nearest.
func Clamp(p models.ScenarioParameters) models.ScenarioParameters {
	p.RainDelayWeeks = clampInt(p.RainDelayWeeks, 0, MaxRainDelayWeeks)
	p.CBDSpread = clampFloat(p.CBDSpread, 0, MaxCBDSpread)
	p.FertAdj = clampFloat(p.FertAdj, -MaxFertAdj, MaxFertAdj)
	p.HarvestWeekPullIn = clampInt(p.HarvestWeekPullIn, 0, MaxHarvestWeekPullIn)
	return p
}

// EffectiveBase is the mean yield the series is generated around.
func EffectiveBase(p models.ScenarioParameters) float64 {
	base := mockdata.DefaultBase +
		p.FertAdj*60 -
		float64(p.RainDelayWeeks)*40 -
		p.CBDSpread*100 +
		float64(p.HarvestWeekPullIn)*25
	return math.Max(MinBase, base)
}

// Snapshot is an immutable copy of the store at one revision.
type Snapshot struct {
	Revision   uint64                    `json:"revision"`
	Parameters models.ScenarioParameters `json:"parameters"`
	Base       float64                   `json:"base"`
	Series     []models.SeriesPoint      `json:"series"`
	Heat       []models.HeatTile         `json:"heat"`
}

// TotalYield sums the yields of the series.
func (s Snapshot) TotalYield() int {
	total := 0
	for _, p := range s.Series {
		total += p.Yield
	}
	return total
}

// Option configures a Store.
type Option func(*Store)

// WithObserver registers fn to run after every recompute, outside the lock.
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Store) { s.observe = fn }
}

// Store owns the parameters and regenerates the derived data on every change.
type Store struct {
	mu       sync.RWMutex
	src      Source
	params   models.ScenarioParameters
	base     float64
	series   []models.SeriesPoint
	heat     []models.HeatTile
	revision uint64
	observe  func(Snapshot)
}

// NewStore returns a store at the default parameters with data already derived.
func NewStore(src Source, opts ...Option) *Store {
	s := &Store{src: src}
	for _, o := range opts {
		o(s)
	}
	s.Reset()
	return s
}

// Update replaces one parameter and recomputes synchronously.
func (s *Store) Update(name string, value float64) (Snapshot, error) {
	var set func(*models.ScenarioParameters)
	switch name {
	case RainDelayWeeks:
		set = func(p *models.ScenarioParameters) { p.RainDelayWeeks = weeks(value, MaxRainDelayWeeks) }
	case CBDSpread:
		set = func(p *models.ScenarioParameters) { p.CBDSpread = value }
	case FertAdj:
		set = func(p *models.ScenarioParameters) { p.FertAdj = value }
	case HarvestWeekPullIn:
		set = func(p *models.ScenarioParameters) { p.HarvestWeekPullIn = weeks(value, MaxHarvestWeekPullIn) }
	default:
		return Snapshot{}, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return s.mutate(set), nil
}

// Set replaces all four parameters with a single recompute.
func (s *Store) Set(p models.ScenarioParameters) Snapshot {
	return s.mutate(func(cur *models.ScenarioParameters) { *cur = p })
}

// Reset restores the default parameters.
func (s *Store) Reset() Snapshot { return s.Set(Defaults()) }

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) mutate(fn func(*models.ScenarioParameters)) Snapshot {
	s.mu.Lock()
	p := s.params
	fn(&p)
	p = Clamp(p)
	s.params = p
	s.base = EffectiveBase(p)
	s.series = s.src.Series(mockdata.DefaultSeriesLen, s.base)
	s.heat = s.src.HeatTiles()
	s.revision++
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.observe != nil {
		s.observe(snap)
	}
	return snap
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Revision:   s.revision,
		Parameters: s.params,
		Base:       s.base,
		Series:     append([]models.SeriesPoint(nil), s.series...),
		Heat:       append([]models.HeatTile(nil), s.heat...),
	}
}

// weeks rounds a slider value to whole weeks inside [0, hi].
func weeks(v float64, hi int) int {
	return int(math.Round(clampFloat(v, 0, float64(hi))))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}
