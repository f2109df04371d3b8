package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/session"
	"github.com/terrasight/terrasight/internal/waterquality"
)

// Reflectance bands plus the per-scene cloud probability joined by scene
// id. Band values are scaled to [0,1] reflectance.
const waterQualityEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["B02", "B03", "B04", "B05", "B08", "CLP"],
    output: { id: "default", bands: 6, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  let scale = 0.0001;
  return [sample.B02 * scale, sample.B03 * scale, sample.B04 * scale,
          sample.B05 * scale, sample.B08 * scale, sample.CLP];
}
`

// Per-scene masked parameter statistic, evaluated scene by scene for the
// trend series. %s is the parameter expression over scaled bands.
const waterQualitySeriesEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["B02", "B03", "B04", "B05", "B08", "CLP"],
    output: { id: "value", bands: 1, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  let scale = 0.0001;
  let b2 = sample.B02 * scale, b3 = sample.B03 * scale, b4 = sample.B04 * scale;
  let b5 = sample.B05 * scale, b8 = sample.B08 * scale;
  if (sample.CLP > %f) return [NaN];
  let ndwi = (b3 - b8) / (b3 + b8);
  if (!(ndwi > 0)) return [NaN];
  return [%s];
}
`

var seriesExpressions = map[string]string{
	"ndti":  "(b4 - b3) / (b4 + b3)",
	"tss":   "2950 * Math.pow(b4, 1.357)",
	"cyano": "b5 / b4",
	"ndci":  "(b5 - b4) / (b5 + b4)",
	"cdom":  "b3 / b2",
}

const waterQualityScaleM = 20

// WaterQualityModule computes one spectral water-quality parameter over
// cloud- and water-masked Sentinel-2 pixels, plus its trend series.
type WaterQualityModule struct {
	Client         Service
	Parameter      waterquality.Parameter
	Start          time.Time
	End            time.Time
	CloudThreshold float64 // max cloud probability, percent
}

func (m *WaterQualityModule) Name() string {
	return "Water Quality Monitoring"
}

func (m *WaterQualityModule) Run(ctx context.Context, sess *session.Session) (*Outcome, error) {
	bound := sess.ROI.Bound()
	width, height := OutputSize(bound, waterQualityScaleM)

	filter := compute.DataFilter{
		From:          m.Start,
		To:            m.End,
		MaxCloudCover: 80,
	}

	compositeRequest := compute.ProcessRequest{
		Dataset:    compute.DatasetS2SR,
		Bounds:     sess.ROI.GeoJSON(),
		Filter:     filter,
		Evalscript: waterQualityEvalscript,
		Mosaicking: compute.MosaicMedian,
		Width:      width,
		Height:     height,
	}

	bandNames := []string{"B02", "B03", "B04", "B05", "B08", "CLP"}
	raster, err := m.Client.FetchRaster(ctx, compositeRequest, bandNames)
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

	// Apply the masks and the parameter formula pixel by pixel.
	grid := make([][]float64, raster.Height)
	var samples []float64
	for y := 0; y < raster.Height; y++ {
		grid[y] = make([]float64, raster.Width)
		for x := 0; x < raster.Width; x++ {
			pixel := map[string]float64{
				"B02": bands["B02"][y][x],
				"B03": bands["B03"][y][x],
				"B04": bands["B04"][y][x],
				"B05": bands["B05"][y][x],
				"B08": bands["B08"][y][x],
			}
			if !waterquality.PixelUsable(bands["CLP"][y][x], m.CloudThreshold, pixel["B03"], pixel["B08"]) {
				grid[y][x] = math.NaN()
				continue
			}
			value := m.Parameter.Evaluate(pixel)
			grid[y][x] = value
			if !math.IsNaN(value) {
				samples = append(samples, value)
			}
		}
	}

	statistic, ok := waterquality.SceneStatistic(samples, m.Parameter.Reducer)
	if !ok {
		return nil, fmt.Errorf("no clear water pixels found (try reducing the cloud threshold): %w", compute.ErrEmpty)
	}

	series, err := m.Client.Series(ctx, compute.SeriesRequest{
		Dataset: compute.DatasetS2SR,
		Bounds:  sess.ROI.GeoJSON(),
		Filter:  filter,
		Evalscript: fmt.Sprintf(waterQualitySeriesEvalscript,
			m.CloudThreshold, seriesExpressions[m.Parameter.Key]),
		Reducer: m.Parameter.Reducer.String(),
		ScaleM:  waterQualityScaleM,
	})
	var warnings []string
	if err != nil {
		series = nil
		warnings = append(warnings, fmt.Sprintf("Trend series unavailable: %v", err))
	} else {
		series = waterquality.BuildSeries(series)
	}

	return &Outcome{
		Title: m.Parameter.Vis.Label,
		Grid:  grid,
		Bound: bound,
		Vis:   m.Parameter.Vis,
		Stats: []Stat{
			{Label: fmt.Sprintf("Region %s", m.Parameter.Reducer), Value: fmt.Sprintf("%.3f", statistic)},
			{Label: "Scenes Window", Value: fmt.Sprintf("%s to %s", m.Start.Format("2006-01-02"), m.End.Format("2006-01-02"))},
			{Label: "Max Cloud Prob", Value: fmt.Sprintf("%.0f %%", m.CloudThreshold)},
		},
		Series:      series,
		SeriesLabel: fmt.Sprintf("%s %s over time", m.Parameter.Reducer, m.Parameter.Vis.Label),
		Warnings:    warnings,
		Export: &compute.BatchRequest{
			Process:     compositeRequest,
			Description: fmt.Sprintf("TerraSight_WaterQuality_%s", time.Now().Format("20060102")),
			ScaleM:      waterQualityScaleM,
		},
	}, nil
}
