package output

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/compute"
)

type stubImagery struct {
	request compute.ProcessRequest
}

func (s *stubImagery) FetchRaster(_ context.Context, req compute.ProcessRequest, _ []string) (*compute.Raster, error) {
	s.request = req
	uniform := func(v float64) [][]float64 {
		grid := make([][]float64, req.Height)
		for y := range grid {
			grid[y] = make([]float64, req.Width)
			for x := range grid[y] {
				grid[y][x] = v
			}
		}
		return grid
	}
	bands := map[string][][]float64{
		"B04": uniform(0.2),
		"B03": uniform(0.3),
		"B02": uniform(0.1),
	}
	return compute.NewRaster(bands, [6]float64{78.9, 0.0001, 0, 20.6, 0, -0.0001}), nil
}

func (s *stubImagery) Statistics(context.Context, compute.StatsRequest) (map[string]float64, error) {
	return nil, compute.ErrEmpty
}

func (s *stubImagery) Series(context.Context, compute.SeriesRequest) ([]compute.SeriesPoint, error) {
	return nil, compute.ErrEmpty
}

func TestFetchBackdrop(t *testing.T) {
	outcome := &analysis.Outcome{
		Grid: [][]float64{
			{0.1, 0.2, 0.3},
			{0.4, 0.5, 0.6},
		},
		Bound: orb.Bound{Min: orb.Point{78.9, 20.5}, Max: orb.Point{79.0, 20.6}},
		Export: &compute.BatchRequest{
			Process: compute.ProcessRequest{
				Filter: compute.DataFilter{
					From: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
					To:   time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
				},
			},
		},
	}

	service := &stubImagery{}
	img, err := FetchBackdrop(context.Background(), service, outcome)
	require.NoError(t, err)
	require.NotNil(t, img)

	t.Run("matches the analysis grid dimensions", func(t *testing.T) {
		assert.Equal(t, 3, img.Bounds().Dx())
		assert.Equal(t, 2, img.Bounds().Dy())
	})

	t.Run("requests true color over the analysis window", func(t *testing.T) {
		assert.Equal(t, compute.DatasetS2SR, service.request.Dataset)
		assert.Equal(t, outcome.Export.Process.Filter.From, service.request.Filter.From)
		assert.Equal(t, outcome.Export.Process.Filter.To, service.request.Filter.To)
	})

	t.Run("stretches reflectance with the display gain", func(t *testing.T) {
		c := color.RGBAModel.Convert(img.At(0, 0)).(color.RGBA)
		assert.EqualValues(t, 127, c.R) // 0.2 * 2.5 * 255
		assert.EqualValues(t, 191, c.G) // 0.3 * 2.5 * 255
		assert.EqualValues(t, 63, c.B)  // 0.1 * 2.5 * 255
	})
}

func TestFetchBackdropEmptyGrid(t *testing.T) {
	img, err := FetchBackdrop(context.Background(), &stubImagery{}, &analysis.Outcome{})
	require.NoError(t, err)
	assert.Nil(t, img)
}
