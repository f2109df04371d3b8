package rainfall

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnomaly(t *testing.T) {
	t.Run("percentage deviation from baseline", func(t *testing.T) {
		got, err := Anomaly(120, 100)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, got, 1e-9)

		got, err = Anomaly(50, 100)
		require.NoError(t, err)
		assert.InDelta(t, -50.0, got, 1e-9)
	})

	t.Run("degenerate baseline is a handled error", func(t *testing.T) {
		_, err := Anomaly(10, 0)
		assert.ErrorIs(t, err, ErrDegenerateBaseline)

		_, err = Anomaly(10, 0.4)
		assert.ErrorIs(t, err, ErrDegenerateBaseline)

		_, err = Anomaly(10, 0.5)
		assert.NoError(t, err)
	})
}

func TestAnomalyGrid(t *testing.T) {
	t.Run("masks degenerate pixels as NaN", func(t *testing.T) {
		current := [][]float64{{120, 10}}
		baseline := [][]float64{{100, 0}}

		grid, err := AnomalyGrid(current, baseline)
		require.NoError(t, err)
		assert.InDelta(t, 20.0, grid[0][0], 1e-9)
		assert.True(t, math.IsNaN(grid[0][1]))
	})

	t.Run("an entirely degenerate grid is an error", func(t *testing.T) {
		current := [][]float64{{10, 20}}
		baseline := [][]float64{{0, 0}}

		_, err := AnomalyGrid(current, baseline)
		assert.ErrorIs(t, err, ErrDegenerateBaseline)
	})

	t.Run("rejects mismatched dimensions", func(t *testing.T) {
		_, err := AnomalyGrid([][]float64{{1, 2}}, [][]float64{{1}})
		assert.Error(t, err)

		_, err = AnomalyGrid(nil, [][]float64{{1}})
		assert.Error(t, err)
	})
}

func TestDatasets(t *testing.T) {
	datasets := Datasets()
	require.Len(t, datasets, 2)
	for _, d := range datasets {
		assert.NotEmpty(t, d.Name)
		assert.NotEmpty(t, d.ID)
		assert.NotEmpty(t, d.Band)
		assert.Greater(t, d.ScaleM, 0.0)
	}
}
