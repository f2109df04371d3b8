package carbon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNDVI(t *testing.T) {
	assert.InDelta(t, 0.6, NDVI(0.4, 0.1), 1e-9)
	assert.Less(t, NDVI(0.1, 0.2), 0.0)
	assert.Zero(t, NDVI(0, 0))
}

func TestEVI(t *testing.T) {
	// Dense canopy: EVI stays positive and below the NDVI saturation point.
	evi := EVI(0.45, 0.05, 0.03)
	assert.Greater(t, evi, 0.0)
	assert.Less(t, evi, 1.5)
}

func TestNDWI(t *testing.T) {
	assert.Greater(t, NDWI(0.4, 0.2), 0.0, "moist vegetation")
	assert.Less(t, NDWI(0.2, 0.4), 0.0, "dry or senescent vegetation")
}

func TestAGB(t *testing.T) {
	t.Run("linear above the vegetation floor", func(t *testing.T) {
		// 250 * 0.5 - 75 = 50 t/ha.
		assert.InDelta(t, 50.0, AGB(0.5), 1e-9)
	})

	t.Run("clamped to zero for sparse cover", func(t *testing.T) {
		assert.Zero(t, AGB(0.3)) // exactly at the floor
		assert.Zero(t, AGB(0.1))
		assert.Zero(t, AGB(-0.2))
	})

	t.Run("NaN input maps to zero", func(t *testing.T) {
		assert.Zero(t, AGB(math.NaN()))
	})
}

func TestCarbonStock(t *testing.T) {
	assert.InDelta(t, 47.0, CarbonStock(100), 1e-9)
	assert.Zero(t, CarbonStock(0))
}

func TestAGBGrid(t *testing.T) {
	grid := AGBGrid([][]float64{{0.5, 0.1}})
	assert.InDelta(t, 50.0, grid[0][0], 1e-9)
	assert.Zero(t, grid[0][1])
}

func TestLandCoverClasses(t *testing.T) {
	classes := LandCoverClasses()
	require.Len(t, classes, 11)

	seen := map[int]bool{}
	for _, c := range classes {
		assert.False(t, seen[c.ID], "duplicate class id %d", c.ID)
		seen[c.ID] = true
		assert.NotEmpty(t, c.Name)
		assert.Regexp(t, `^#[0-9a-f]{6}$`, c.Color)
	}
}

func TestClassAreasHa(t *testing.T) {
	grid := [][]float64{
		{10, 10},
		{40, 999}, // 999 is not a WorldCover class
	}
	areas := ClassAreasHa(grid, 10_000) // 1 ha pixels

	assert.InDelta(t, 2.0, areas[10], 1e-9)
	assert.InDelta(t, 1.0, areas[40], 1e-9)
	assert.Zero(t, areas[50], "absent classes report zero")
	assert.NotContains(t, areas, 999)
}
