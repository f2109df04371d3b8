package waterquality

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terrasight/terrasight/internal/compute"
)

func parameterByKey(t *testing.T, key string) Parameter {
	t.Helper()
	for _, p := range Parameters() {
		if p.Key == key {
			return p
		}
	}
	t.Fatalf("no parameter with key %q", key)
	return Parameter{}
}

func TestParameterFormulas(t *testing.T) {
	bands := map[string]float64{
		"B02": 0.020,
		"B03": 0.030,
		"B04": 0.040,
		"B05": 0.050,
	}

	t.Run("ndti", func(t *testing.T) {
		p := parameterByKey(t, "ndti")
		assert.InDelta(t, (0.040-0.030)/(0.040+0.030), p.Evaluate(bands), 1e-9)
	})

	t.Run("tss", func(t *testing.T) {
		p := parameterByKey(t, "tss")
		assert.InDelta(t, 2950*math.Pow(0.040, 1.357), p.Evaluate(bands), 1e-9)
	})

	t.Run("cyano ratio", func(t *testing.T) {
		p := parameterByKey(t, "cyano")
		assert.InDelta(t, 0.050/0.040, p.Evaluate(bands), 1e-9)
		assert.True(t, math.IsNaN(p.Evaluate(map[string]float64{"B05": 0.05, "B04": 0})))
	})

	t.Run("ndci", func(t *testing.T) {
		p := parameterByKey(t, "ndci")
		assert.InDelta(t, (0.050-0.040)/(0.050+0.040), p.Evaluate(bands), 1e-9)
	})

	t.Run("cdom ratio", func(t *testing.T) {
		p := parameterByKey(t, "cdom")
		assert.InDelta(t, 0.030/0.020, p.Evaluate(bands), 1e-9)
	})
}

func TestParameterReducers(t *testing.T) {
	assert.Equal(t, ReduceMean, parameterByKey(t, "ndti").Reducer)
	assert.Equal(t, ReduceMedian, parameterByKey(t, "tss").Reducer)
	assert.Equal(t, ReduceMax, parameterByKey(t, "cyano").Reducer)
	assert.Equal(t, ReduceMean, parameterByKey(t, "ndci").Reducer)
	assert.Equal(t, ReduceMedian, parameterByKey(t, "cdom").Reducer)
}

func TestNDWI(t *testing.T) {
	assert.Greater(t, NDWI(0.06, 0.02), 0.0, "water reflects green over NIR")
	assert.Less(t, NDWI(0.03, 0.30), 0.0, "vegetation is the opposite")
	assert.True(t, math.IsNaN(NDWI(0, 0)))
}

func TestPixelUsable(t *testing.T) {
	t.Run("clear water pixel passes", func(t *testing.T) {
		assert.True(t, PixelUsable(10, 40, 0.06, 0.02))
	})
	t.Run("cloudy pixel fails", func(t *testing.T) {
		assert.False(t, PixelUsable(75, 40, 0.06, 0.02))
	})
	t.Run("land pixel fails", func(t *testing.T) {
		assert.False(t, PixelUsable(10, 40, 0.03, 0.30))
	})
	t.Run("threshold is inclusive", func(t *testing.T) {
		assert.True(t, PixelUsable(40, 40, 0.06, 0.02))
	})
}

func TestSceneStatistic(t *testing.T) {
	values := []float64{3, 1, 2, math.NaN(), math.Inf(1)}

	t.Run("mean", func(t *testing.T) {
		got, ok := SceneStatistic(values, ReduceMean)
		require.True(t, ok)
		assert.InDelta(t, 2.0, got, 1e-9)
	})

	t.Run("median", func(t *testing.T) {
		got, ok := SceneStatistic(values, ReduceMedian)
		require.True(t, ok)
		assert.InDelta(t, 2.0, got, 1e-9)
	})

	t.Run("max", func(t *testing.T) {
		got, ok := SceneStatistic(values, ReduceMax)
		require.True(t, ok)
		assert.InDelta(t, 3.0, got, 1e-9)
	})

	t.Run("no usable samples", func(t *testing.T) {
		_, ok := SceneStatistic([]float64{math.NaN()}, ReduceMean)
		assert.False(t, ok)
		_, ok = SceneStatistic(nil, ReduceMax)
		assert.False(t, ok)
	})
}

func TestBuildSeries(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }
	points := []compute.SeriesPoint{
		{Date: day(20), Value: 0.3},
		{Date: day(5), Value: math.NaN()},
		{Date: day(10), Value: 0.1},
	}

	out := BuildSeries(points)
	require.Len(t, out, 2)
	assert.Equal(t, day(10), out[0].Date)
	assert.Equal(t, day(20), out[1].Date)
}
