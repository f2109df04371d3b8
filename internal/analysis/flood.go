package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/terrasight/terrasight/internal/change"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/session"
)

// VH polarisation with a 50 m circular focal mean; floods brighten VH
// returns so the post/pre ratio flags inundation.
const sarFloodEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["VH"],
    output: { id: "default", bands: 1, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  return [focalMean(sample.VH, 50, "circle")];
}
`

// FloodModule maps flood extent from the post/pre SAR intensity ratio,
// excluding permanent water, steep terrain and speckle-sized patches.
type FloodModule struct {
	Client         Service
	Orbit          string
	PreStart       time.Time
	PreEnd         time.Time
	PostStart      time.Time
	PostEnd        time.Time
	RatioThreshold float64 // 1.0 - 1.5
}

func (m *FloodModule) Name() string {
	return "Flood Extent Mapping"
}

func (m *FloodModule) sarFilter(from, to time.Time) compute.DataFilter {
	return compute.DataFilter{
		From:            from,
		To:              to,
		OrbitPass:       m.Orbit,
		Polarisation:    "VH",
		InstrumentMode:  "IW",
		ResolutionMeter: 10,
	}
}

func (m *FloodModule) fetchBackscatter(ctx context.Context, sess *session.Session, from, to time.Time, mosaicking string, width, height int) ([][]float64, time.Time, error) {
	request := compute.ProcessRequest{
		Dataset:    compute.DatasetS1GRD,
		Bounds:     sess.ROI.GeoJSON(),
		Filter:     m.sarFilter(from, to),
		Evalscript: sarFloodEvalscript,
		Mosaicking: mosaicking,
		Width:      width,
		Height:     height,
	}
	raster, err := m.Client.FetchRaster(ctx, request, []string{"VH"})
	if err != nil {
		return nil, time.Time{}, err
	}
	grid, err := raster.Band("VH")
	if err != nil {
		return nil, time.Time{}, err
	}

	series, err := m.Client.Series(ctx, compute.SeriesRequest{
		Dataset:    compute.DatasetS1GRD,
		Bounds:     sess.ROI.GeoJSON(),
		Filter:     m.sarFilter(from, to),
		Evalscript: sarFloodEvalscript,
		Reducer:    compute.ReduceMean,
		ScaleM:     sarScaleM,
	})
	if err != nil {
		return nil, time.Time{}, err
	}
	return grid, series[0].Date, nil
}

func (m *FloodModule) fetchStaticLayer(ctx context.Context, sess *session.Session, dataset, band, evalscript string, width, height int) ([][]float64, error) {
	raster, err := m.Client.FetchRaster(ctx, compute.ProcessRequest{
		Dataset: dataset,
		Bounds:  sess.ROI.GeoJSON(),
		Filter: compute.DataFilter{
			From: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Now(),
		},
		Evalscript: evalscript,
		Width:      width,
		Height:     height,
	}, []string{band})
	if err != nil {
		return nil, err
	}
	return raster.Band(band)
}

func (m *FloodModule) Run(ctx context.Context, sess *session.Session) (*Outcome, error) {
	bound := sess.ROI.Bound()
	width, height := OutputSize(bound, sarScaleM)

	threshold := m.RatioThreshold
	if threshold == 0 {
		threshold = change.DefaultRatioThreshold
	}

	before, preDate, err := m.fetchBackscatter(ctx, sess, m.PreStart, m.PreEnd, compute.MosaicMedian, width, height)
	if err != nil {
		return nil, fmt.Errorf("pre-flood period: %w", err)
	}
	after, postDate, err := m.fetchBackscatter(ctx, sess, m.PostStart, m.PostEnd, compute.MosaicMosaic, width, height)
	if err != nil {
		return nil, fmt.Errorf("post-flood period: %w", err)
	}

	occurrence, err := m.fetchStaticLayer(ctx, sess, compute.DatasetSurfaceWtr, "occurrence",
		fmt.Sprintf(singleBandEvalscript, "occurrence", "occurrence"), width, height)
	if err != nil {
		return nil, fmt.Errorf("surface-water occurrence layer: %w", err)
	}
	slope, err := m.fetchStaticLayer(ctx, sess, compute.DatasetHydroDEM, "slope", slopeEvalscript, width, height)
	if err != nil {
		return nil, fmt.Errorf("terrain slope layer: %w", err)
	}

	mask := change.RatioMask(before, after, threshold)
	mask = change.ApplyExclusions(mask, occurrence, slope)
	mask = change.FilterSpeckle(mask, change.FloodMinConnectedPixels)

	pixelAreaM2 := pixelAreaForBound(bound, width, height)
	floodAreaHa := change.MaskAreaHa(mask, pixelAreaM2)

	grid := make([][]float64, len(mask))
	for y, row := range mask {
		grid[y] = make([]float64, len(row))
		for x, flooded := range row {
			if flooded {
				grid[y][x] = 1
			} else {
				grid[y][x] = math.NaN()
			}
		}
	}

	orbit := m.Orbit
	if orbit == "" {
		orbit = "BOTH"
	}

	var warnings []string
	if floodAreaHa == 0 {
		warnings = append(warnings, "No flood pixels survived the exclusion filters.")
	}

	return &Outcome{
		Title: "Estimated Flood Extent",
		Grid:  grid,
		Bound: bound,
		Vis: compute.VisParams{
			Min: 0, Max: 1,
			Palette:     []string{"#0000ff"},
			Categorical: true,
			ClassNames:  []string{"Flood Extent"},
			Label:       "Flood Extent",
		},
		Stats: []Stat{
			{Label: "Estimated Extent", Value: fmt.Sprintf("%.2f Ha", floodAreaHa)},
			{Label: "Pre", Value: preDate.Format("2006-01-02")},
			{Label: "Post", Value: postDate.Format("2006-01-02")},
			{Label: "Orbit / Pol", Value: orbit + " / VH"},
			{Label: "Ratio Threshold", Value: fmt.Sprintf("%.2f", threshold)},
		},
		Warnings: warnings,
		Export: &compute.BatchRequest{
			Process: compute.ProcessRequest{
				Dataset:    compute.DatasetS1GRD,
				Bounds:     sess.ROI.GeoJSON(),
				Filter:     m.sarFilter(m.PostStart, m.PostEnd),
				Evalscript: sarFloodEvalscript,
				Mosaicking: compute.MosaicMosaic,
				Width:      width,
				Height:     height,
			},
			Description: fmt.Sprintf("TerraSight_Flood_%s", time.Now().Format("20060102")),
			ScaleM:      sarScaleM,
		},
	}, nil
}
