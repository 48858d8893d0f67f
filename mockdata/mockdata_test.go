package mockdata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesCountAndBounds(t *testing.T) {
	g := New(42)
	for _, tc := range []struct {
		count int
		base  float64
	}{
		{DefaultSeriesLen, DefaultBase},
		{1, 500},
		{36, 730},
	} {
		pts := g.Series(tc.count, tc.base)
		require.Len(t, pts, tc.count)
		lo, hi := math.Floor(0.85*tc.base), math.Ceil(1.15*tc.base)
		for i, p := range pts {
			assert.GreaterOrEqual(t, float64(p.Yield), lo, "point %d", i)
			assert.LessOrEqual(t, float64(p.Yield), hi, "point %d", i)
			assert.True(t, p.CBD >= 0.10 && p.CBD <= 0.30, "cbd %v", p.CBD)
			assert.True(t, p.NDVI >= 0.60 && p.NDVI <= 0.90, "ndvi %v", p.NDVI)
			assert.True(t, p.Ripeness >= 0.05 && p.Ripeness <= 0.85, "ripeness %v", p.Ripeness)
		}
		assert.Equal(t, "M1", pts[0].Month)
	}
}

func TestSeriesEmpty(t *testing.T) {
	g := New(1)
	assert.Empty(t, g.Series(0, DefaultBase))
	assert.NotNil(t, g.Series(-3, DefaultBase))
}

func TestHeatTilesGrid(t *testing.T) {
	tiles := New(7).HeatTiles()
	require.Len(t, tiles, 64)
	for i, tile := range tiles {
		assert.Equal(t, i, tile.ID)
		assert.Equal(t, i%8, tile.X)
		assert.Equal(t, i/8, tile.Y)
		assert.True(t, tile.NDVI >= 0.5 && tile.NDVI <= 1.0)
		assert.True(t, tile.CBDRisk >= 0 && tile.CBDRisk <= 0.5)
		assert.True(t, tile.Ripeness >= 0 && tile.Ripeness <= 1)
	}
}

func TestScatterBounds(t *testing.T) {
	g := New(99)
	for n := 0; n < 10; n++ {
		pts := g.Scatter()
		require.Len(t, pts, 20)
		for _, p := range pts {
			assert.True(t, p.X >= 0 && p.X <= 100)
			assert.True(t, p.Y >= 0 && p.Y <= 100)
			assert.True(t, p.Z >= 0 && p.Z <= 50)
			assert.Equal(t, p.X, round(p.X, 1))
		}
	}
}

func TestSeededGeneratorsRepeat(t *testing.T) {
	assert.Equal(t, New(5).Series(12, 900), New(5).Series(12, 900))
}
