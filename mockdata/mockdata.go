// Package mockdata produces the randomized demo series, heatmap tiles and
// anomaly points rendered by the dashboard.
package mockdata

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"coffeeintel/models"
)

const (
	DefaultSeriesLen = 12
	DefaultBase      = 900.0

	GridSize     = 8
	TileCount    = GridSize * GridSize
	ScatterCount = 20
)

// Generator draws every value from one seeded source. It is safe for
// concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New returns a generator seeded with seed; 0 seeds from the clock.
func New(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// uniform returns a value in [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

// Series returns count monthly points whose yield scatters within ±15% of base.
func (g *Generator) Series(count int, base float64) []models.SeriesPoint {
	if count <= 0 {
		return []models.SeriesPoint{}
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.SeriesPoint, count)
	for i := range out {
		out[i] = models.SeriesPoint{
			Month:    fmt.Sprintf("M%d", i+1),
			Yield:    int(math.Round(base * g.uniform(0.85, 1.15))),
			CBD:      round(g.uniform(0.10, 0.30), 2),
			NDVI:     round(g.uniform(0.60, 0.90), 2),
			Ripeness: round(g.uniform(0.05, 0.85), 2),
		}
	}
	return out
}

// HeatTiles returns one 8x8 heatmap snapshot in row-major order.
func (g *Generator) HeatTiles() []models.HeatTile {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.HeatTile, TileCount)
	for i := range out {
		out[i] = models.HeatTile{
			ID:       i,
			X:        i % GridSize,
			Y:        i / GridSize,
			NDVI:     round(g.uniform(0.5, 1.0), 2),
			CBDRisk:  round(g.uniform(0, 0.5), 2),
			Ripeness: round(g.uniform(0, 1), 2),
		}
	}
	return out
}

// Scatter returns one anomaly snapshot.
func (g *Generator) Scatter() []models.ScatterPoint {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.ScatterPoint, ScatterCount)
	for i := range out {
		out[i] = models.ScatterPoint{
			X: round(g.uniform(0, 100), 1),
			Y: round(g.uniform(0, 100), 1),
			Z: round(g.uniform(0, 50), 1),
		}
	}
	return out
}

// Coin reports a fair coin flip from the same source.
func (g *Generator) Coin() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rnd.Float64() > 0.5
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
