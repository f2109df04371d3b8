package compute

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBounds() *geojson.Geometry {
	return geojson.NewGeometry(orb.Polygon{{
		{77.1, 28.5}, {77.2, 28.5}, {77.2, 28.6}, {77.1, 28.6}, {77.1, 28.5},
	}})
}

func TestDataFilterPayload(t *testing.T) {
	t.Run("zero optional fields are omitted", func(t *testing.T) {
		filter := DataFilter{
			From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		}
		payload := filter.payload()

		assert.Contains(t, payload, "timeRange")
		assert.NotContains(t, payload, "maxCloudCoverage")
		assert.NotContains(t, payload, "orbitPass")
		assert.NotContains(t, payload, "polarisation")
	})

	t.Run("set fields are carried through", func(t *testing.T) {
		filter := DataFilter{
			From:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			To:             time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			MaxCloudCover:  30,
			OrbitPass:      "DESCENDING",
			Polarisation:   "VV",
			InstrumentMode: "IW",
		}
		payload := filter.payload()

		assert.Equal(t, 30.0, payload["maxCloudCoverage"])
		assert.Equal(t, "DESCENDING", payload["orbitPass"])
		assert.Equal(t, "VV", payload["polarisation"])
		assert.Equal(t, "IW", payload["instrumentMode"])
	})
}

func TestProcessRequestPayload(t *testing.T) {
	request := ProcessRequest{
		Dataset:    DatasetS2SR,
		Bounds:     testBounds(),
		Evalscript: "//VERSION=3",
		Mosaicking: MosaicMedian,
		Width:      256,
		Height:     128,
	}
	payload := request.payload()

	assert.Equal(t, "//VERSION=3", payload["evalscript"])
	assert.Equal(t, MosaicMedian, payload["mosaicking"])

	output, ok := payload["output"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 256, output["width"])
	assert.Equal(t, 128, output["height"])

	input, ok := payload["input"].(map[string]any)
	require.True(t, ok)
	data, ok := input["data"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	assert.Equal(t, DatasetS2SR, data[0]["type"])

	t.Run("defaults apply", func(t *testing.T) {
		payload := ProcessRequest{Dataset: DatasetSRTM, Bounds: testBounds()}.payload()
		assert.Equal(t, MosaicMostRecent, payload["mosaicking"])

		output := payload["output"].(map[string]any)
		responses := output["responses"].([]map[string]any)
		format := responses[0]["format"].(map[string]string)
		assert.Equal(t, "image/tiff", format["type"])
	})
}

func TestSortSeries(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	points := []SeriesPoint{
		{Date: day(20), Value: 3},
		{Date: day(1), Value: 1},
		{Date: day(10), Value: 2},
	}

	SortSeries(points)

	want := []SeriesPoint{
		{Date: day(1), Value: 1},
		{Date: day(10), Value: 2},
		{Date: day(20), Value: 3},
	}
	if diff := cmp.Diff(want, points); diff != "" {
		t.Errorf("SortSeries mismatch (-want +got):\n%s", diff)
	}
}

func TestCalculatePixels(t *testing.T) {
	// 0.1 degrees at 10m resolution is 1110 pixels.
	assert.Equal(t, 1110, CalculatePixels(0.1, 10))

	t.Run("clamped to the service maximum", func(t *testing.T) {
		assert.Equal(t, maxOutputPixels, CalculatePixels(5, 10))
	})

	t.Run("never below one pixel", func(t *testing.T) {
		assert.Equal(t, 1, CalculatePixels(0.000001, 1000))
	})
}
