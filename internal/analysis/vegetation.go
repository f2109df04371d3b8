package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/terrasight/terrasight/internal/carbon"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/session"
)

const vegetationEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["B02", "B04", "B08", "B11"],
    output: { id: "default", bands: 4, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  let scale = 0.0001;
  return [sample.B02 * scale, sample.B04 * scale, sample.B08 * scale, sample.B11 * scale];
}
`

const vegetationSeriesEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["B02", "B04", "B08", "B11"],
    output: { id: "value", bands: 1, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  let scale = 0.0001;
  let b2 = sample.B02 * scale, b4 = sample.B04 * scale;
  let b8 = sample.B08 * scale, b11 = sample.B11 * scale;
  return [%s];
}
`

var vegetationExpressions = map[string]string{
	VegetationNDVI: "(b8 - b4) / (b8 + b4)",
	VegetationEVI:  "2.5 * (b8 - b4) / (b8 + 6 * b4 - 7.5 * b2 + 1)",
	VegetationNDWI: "(b8 - b11) / (b8 + b11)",
}

// Vegetation index identifiers.
const (
	VegetationNDVI = "NDVI"
	VegetationEVI  = "EVI"
	VegetationNDWI = "NDWI"
)

const vegetationScaleM = 20

// VegetationModule maps one vegetation index over the region and tracks
// its mean as a time series.
type VegetationModule struct {
	Client Service
	Index  string
	Start  time.Time
	End    time.Time
}

func (m *VegetationModule) Name() string {
	return "Vegetation Health"
}

func (m *VegetationModule) Run(ctx context.Context, sess *session.Session) (*Outcome, error) {
	bound := sess.ROI.Bound()
	width, height := OutputSize(bound, vegetationScaleM)

	filter := compute.DataFilter{
		From:          m.Start,
		To:            m.End,
		MaxCloudCover: 30,
	}

	request := compute.ProcessRequest{
		Dataset:    compute.DatasetS2SR,
		Bounds:     sess.ROI.GeoJSON(),
		Filter:     filter,
		Evalscript: vegetationEvalscript,
		Mosaicking: compute.MosaicMedian,
		Width:      width,
		Height:     height,
	}

	bandNames := []string{"B02", "B04", "B08", "B11"}
	raster, err := m.Client.FetchRaster(ctx, request, bandNames)
	if err != nil {
		return nil, err
	}

	bands := make(map[string][][]float64, len(bandNames))
	for _, name := range bandNames {
		grid, err := raster.Band(name)
		if err != nil {
			return nil, err
		}
		bands[name] = grid
	}

	grid := make([][]float64, raster.Height)
	for y := 0; y < raster.Height; y++ {
		grid[y] = make([]float64, raster.Width)
		for x := 0; x < raster.Width; x++ {
			switch m.Index {
			case VegetationEVI:
				grid[y][x] = carbon.EVI(bands["B08"][y][x], bands["B04"][y][x], bands["B02"][y][x])
			case VegetationNDWI:
				grid[y][x] = carbon.NDWI(bands["B08"][y][x], bands["B11"][y][x])
			default:
				grid[y][x] = carbon.NDVI(bands["B08"][y][x], bands["B04"][y][x])
			}
		}
	}

	mean := gridMean(grid)

	series, err := m.Client.Series(ctx, compute.SeriesRequest{
		Dataset:    compute.DatasetS2SR,
		Bounds:     sess.ROI.GeoJSON(),
		Filter:     filter,
		Evalscript: fmt.Sprintf(vegetationSeriesEvalscript, vegetationExpressions[m.Index]),
		Reducer:    compute.ReduceMean,
		ScaleM:     vegetationScaleM,
	})
	var warnings []string
	if err != nil {
		series = nil
		warnings = append(warnings, fmt.Sprintf("Trend series unavailable: %v", err))
	}

	vis := carbon.NDVIVis()
	if m.Index == VegetationNDWI {
		vis = compute.VisParams{
			Min: -0.5, Max: 0.5,
			Palette: []string{"#d73027", "#fee08b", "#ffffff", "#abd9e9", "#4575b4"},
			Label:   "NDWI",
		}
	}
	vis.Label = m.Index

	return &Outcome{
		Title: fmt.Sprintf("%s Composite", m.Index),
		Grid:  grid,
		Bound: bound,
		Vis:   vis,
		Stats: []Stat{
			{Label: fmt.Sprintf("Mean %s", m.Index), Value: fmt.Sprintf("%.3f", mean)},
			{Label: "Window", Value: fmt.Sprintf("%s to %s", m.Start.Format("2006-01-02"), m.End.Format("2006-01-02"))},
		},
		Series:      series,
		SeriesLabel: fmt.Sprintf("Mean %s over time", m.Index),
		Warnings:    warnings,
		Export: &compute.BatchRequest{
			Process:     request,
			Description: fmt.Sprintf("TerraSight_%s_%s", m.Index, time.Now().Format("20060102")),
			ScaleM:      vegetationScaleM,
		},
	}, nil
}
