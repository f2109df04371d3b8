package analysis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terrasight/terrasight/internal/change"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/region"
	"github.com/terrasight/terrasight/internal/session"
)

// fakeService serves canned rasters and series so a module's full Run path
// can execute without the remote compute service.
type fakeService struct {
	baselineVV [][]float64
	currentVV  [][]float64
	cutover    time.Time
}

func (f *fakeService) FetchRaster(_ context.Context, req compute.ProcessRequest, _ []string) (*compute.Raster, error) {
	grid := f.baselineVV
	if !req.Filter.From.Before(f.cutover) {
		grid = f.currentVV
	}
	transform := [6]float64{78.9, 0.0001, 0, 20.6, 0, -0.0001}
	return compute.NewRaster(map[string][][]float64{"VV": grid}, transform), nil
}

func (f *fakeService) Statistics(context.Context, compute.StatsRequest) (map[string]float64, error) {
	return nil, compute.ErrEmpty
}

func (f *fakeService) Series(_ context.Context, req compute.SeriesRequest) ([]compute.SeriesPoint, error) {
	return []compute.SeriesPoint{
		{Date: req.Filter.From.AddDate(0, 0, 14), Value: -18.0},
	}, nil
}

func dateStat(t *testing.T, stats []Stat, label string) time.Time {
	t.Helper()
	for _, stat := range stats {
		if stat.Label == label {
			date, err := time.Parse("2006-01-02", stat.Value)
			require.NoError(t, err)
			return date
		}
	}
	t.Fatalf("no stat labeled %q", label)
	return time.Time{}
}

func TestEncroachmentRun(t *testing.T) {
	t.Setenv("ROOT_PATH", t.TempDir())

	// Water where smoothed VV falls below -16 dB. One pixel dries out
	// between the two periods, none flood.
	service := &fakeService{
		baselineVV: [][]float64{
			{-20, -20},
			{-10, -20},
		},
		currentVV: [][]float64{
			{-20, -10},
			{-10, -20},
		},
		cutover: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	module := &EncroachmentModule{
		Client:        service,
		BaselineStart: time.Date(2018, 6, 1, 0, 0, 0, 0, time.UTC),
		BaselineEnd:   time.Date(2018, 9, 30, 0, 0, 0, 0, time.UTC),
		CurrentStart:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		CurrentEnd:    time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	sess := session.New()
	sess.SetROI(region.PointBuffer(20.59, 78.96, 5000))

	outcome, err := module.Run(context.Background(), sess)
	require.NoError(t, err)

	t.Run("acquisition dates fall inside their windows", func(t *testing.T) {
		base := dateStat(t, outcome.Stats, "Base")
		curr := dateStat(t, outcome.Stats, "Curr")
		assert.True(t, WithinWindow(base, module.BaselineStart, module.BaselineEnd))
		assert.True(t, WithinWindow(curr, module.CurrentStart, module.CurrentEnd))
	})

	t.Run("loss and gain areas are non-negative", func(t *testing.T) {
		classes := change.Classify(
			change.WaterMask(service.baselineVV, change.WaterThresholdDB),
			change.WaterMask(service.currentVV, change.WaterThresholdDB),
		)
		areas := change.AreasHa(classes, 100)
		assert.Greater(t, areas[change.ClassLoss], 0.0)
		assert.GreaterOrEqual(t, areas[change.ClassGain], 0.0)
	})

	t.Run("grid carries the transition classes", func(t *testing.T) {
		require.Len(t, outcome.Grid, 2)
		assert.Equal(t, float64(change.ClassStable), outcome.Grid[0][0])
		assert.Equal(t, float64(change.ClassLoss), outcome.Grid[0][1])
		assert.Equal(t, float64(change.ClassStable), outcome.Grid[1][1])
	})

	t.Run("empty orbit reports both passes", func(t *testing.T) {
		var orbit string
		for _, stat := range outcome.Stats {
			if stat.Label == "Orbit" {
				orbit = stat.Value
			}
		}
		assert.Equal(t, "BOTH", orbit)
	})
}
