package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/paulmach/orb"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/rainfall"
	"github.com/terrasight/terrasight/internal/session"
	"golang.org/x/sync/errgroup"
)

const rainfallEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["%s"],
    output: { id: "default", bands: 1, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  return [sample.%s];
}
`

// RainfallModule computes total accumulation or the percentage anomaly
// against a multi-year baseline over the selected precipitation dataset.
type RainfallModule struct {
	Client  Service
	Dataset rainfall.Dataset
	Start   time.Time
	End     time.Time
	Anomaly bool
}

func (m *RainfallModule) Name() string {
	return "Rainfall & Climate Analysis"
}

func (m *RainfallModule) evalscript() string {
	return fmt.Sprintf(rainfallEvalscript, m.Dataset.Band, m.Dataset.Band)
}

func (m *RainfallModule) Run(ctx context.Context, sess *session.Session) (*Outcome, error) {
	bound := sess.ROI.Bound()
	width, height := OutputSize(bound, m.Dataset.ScaleM)

	request := compute.ProcessRequest{
		Dataset:    m.Dataset.ID,
		Bounds:     sess.ROI.GeoJSON(),
		Filter:     compute.DataFilter{From: m.Start, To: m.End},
		Evalscript: m.evalscript(),
		Mosaicking: compute.MosaicSum,
		Width:      width,
		Height:     height,
	}

	raster, err := m.Client.FetchRaster(ctx, request, []string{m.Dataset.Band})
	if err != nil {
		return nil, err
	}
	currentSum, err := raster.Band(m.Dataset.Band)
	if err != nil {
		return nil, err
	}

	if m.Anomaly {
		return m.runAnomaly(ctx, sess, currentSum, request, bound)
	}

	stats, err := m.Client.Statistics(ctx, compute.StatsRequest{
		Dataset:    m.Dataset.ID,
		Bounds:     sess.ROI.GeoJSON(),
		Filter:     compute.DataFilter{From: m.Start, To: m.End},
		Evalscript: m.evalscript(),
		Mosaicking: compute.MosaicSum,
		Reducer:    compute.ReduceMinMax,
		ScaleM:     m.Dataset.ScaleM,
	})
	if err != nil {
		return nil, err
	}

	mean := gridMean(currentSum)
	vis := rainfall.AccumulationVis(stats["min"], stats["max"])

	return &Outcome{
		Title: "Total Rainfall Accumulation",
		Grid:  currentSum,
		Bound: bound,
		Vis:   vis,
		Stats: []Stat{
			{Label: "Region Average", Value: fmt.Sprintf("%.1f mm", mean)},
			{Label: "Dataset", Value: m.Dataset.Name},
		},
		Export: m.exportRequest(request),
	}, nil
}

// runAnomaly fetches the five prior same-calendar windows concurrently,
// averages them into the baseline and computes the percentage deviation.
// The baseline always comes from the CHIRPS climatology regardless of the
// display dataset.
func (m *RainfallModule) runAnomaly(ctx context.Context, sess *session.Session, currentSum [][]float64, request compute.ProcessRequest, bound orb.Bound) (*Outcome, error) {
	baselines := make([][][]float64, rainfall.BaselineYears)

	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < rainfall.BaselineYears; i++ {
		yearsBack := rainfall.BaselineYears - i
		index := i
		group.Go(func() error {
			baselineRequest := request
			baselineRequest.Dataset = compute.DatasetCHIRPSDaily
			baselineRequest.Evalscript = fmt.Sprintf(rainfallEvalscript, "precipitation", "precipitation")
			baselineRequest.Filter = compute.DataFilter{
				From: m.Start.AddDate(-yearsBack, 0, 0),
				To:   m.End.AddDate(-yearsBack, 0, 0),
			}
			raster, err := m.Client.FetchRaster(groupCtx, baselineRequest, []string{"precipitation"})
			if err != nil {
				return fmt.Errorf("baseline year %d: %w", m.Start.Year()-yearsBack, err)
			}
			grid, err := raster.Band("precipitation")
			if err != nil {
				return err
			}
			baselines[index] = grid
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	baselineMean, err := meanGrids(baselines)
	if err != nil {
		return nil, err
	}

	anomaly, err := rainfall.AnomalyGrid(currentSum, baselineMean)
	if err != nil {
		return nil, err
	}

	anomalyRequest := request
	anomalyRequest.Evalscript = m.evalscript()

	return &Outcome{
		Title: "Rainfall Anomaly vs. 5-Year Baseline",
		Grid:  anomaly,
		Bound: bound,
		Vis:   rainfall.AnomalyVis(),
		Stats: []Stat{
			{Label: "Region Average", Value: fmt.Sprintf("%.1f %%", gridMean(anomaly))},
			{Label: "Baseline", Value: fmt.Sprintf("%d-%d", m.Start.Year()-rainfall.BaselineYears, m.Start.Year()-1)},
		},
		Export: m.exportRequest(anomalyRequest),
	}, nil
}

func (m *RainfallModule) exportRequest(request compute.ProcessRequest) *compute.BatchRequest {
	return &compute.BatchRequest{
		Process:     request,
		Description: fmt.Sprintf("TerraSight_Rainfall_%s", time.Now().Format("20060102")),
		ScaleM:      m.Dataset.ScaleM,
	}
}

func gridMean(grid [][]float64) float64 {
	var sum float64
	var n int
	for _, row := range grid {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func meanGrids(grids [][][]float64) ([][]float64, error) {
	if len(grids) == 0 {
		return nil, fmt.Errorf("no baseline grids")
	}
	height := len(grids[0])
	width := 0
	if height > 0 {
		width = len(grids[0][0])
	}
	out := make([][]float64, height)
	for y := range out {
		out[y] = make([]float64, width)
	}
	for _, grid := range grids {
		if len(grid) != height || (height > 0 && len(grid[0]) != width) {
			return nil, fmt.Errorf("baseline grids are mismatched in size")
		}
		for y := range grid {
			for x := range grid[y] {
				out[y][x] += grid[y][x]
			}
		}
	}
	for y := range out {
		for x := range out[y] {
			out[y][x] /= float64(len(grids))
		}
	}
	return out, nil
}
