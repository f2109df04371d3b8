package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/session"
	"github.com/terrasight/terrasight/internal/suitability"
)

// One single-band layer per criterion; the service renders each dataset's
// native band.
const singleBandEvalscript = `
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

const slopeEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["DEM"],
    output: { id: "default", bands: 1, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  return [slope(sample.DEM)];
}
`

// suitabilityScaleM keeps the five criterion layers on one common grid.
const suitabilityScaleM = 100

// SuitabilityModule runs the multi-criteria rainwater-harvesting overlay:
// five remote input layers, fixed per-input normalization, zone-defaulted
// weights, weighted linear combination.
type SuitabilityModule struct {
	Client    Service
	Structure suitability.Structure
	Weights   suitability.Weights
	Zone      suitability.Zone
}

func (m *SuitabilityModule) Name() string {
	return "Rainwater Harvesting Potential"
}

func (m *SuitabilityModule) Run(ctx context.Context, sess *session.Session) (*Outcome, error) {
	bound := sess.ROI.Bound()
	width, height := OutputSize(bound, suitabilityScaleM)
	bounds := sess.ROI.GeoJSON()

	// Rainfall climatology over a fixed recent window; the other layers are
	// static.
	rainFilter := compute.DataFilter{
		From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	staticFilter := compute.DataFilter{
		From: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Now(),
	}

	layerRequests := []struct {
		name       string
		dataset    string
		band       string
		filter     compute.DataFilter
		evalscript string
		mosaicking string
	}{
		{"rainfall", compute.DatasetCHIRPSPent, "precipitation", rainFilter, fmt.Sprintf(singleBandEvalscript, "precipitation", "precipitation"), compute.MosaicMean},
		{"slope", compute.DatasetSRTM, "slope", staticFilter, slopeEvalscript, compute.MosaicMostRecent},
		{"soil", compute.DatasetSoilTexture, "class", staticFilter, fmt.Sprintf(singleBandEvalscript, "class", "class"), compute.MosaicMostRecent},
		{"landcover", compute.DatasetWorldCover, "Map", staticFilter, fmt.Sprintf(singleBandEvalscript, "Map", "Map"), compute.MosaicMostRecent},
		{"drainage", compute.DatasetHydroFlow, "b1", staticFilter, fmt.Sprintf(singleBandEvalscript, "b1", "b1"), compute.MosaicMostRecent},
	}

	grids := make(map[string][][]float64, len(layerRequests))
	var rainfallRequest compute.ProcessRequest
	for _, layer := range layerRequests {
		request := compute.ProcessRequest{
			Dataset:    layer.dataset,
			Bounds:     bounds,
			Filter:     layer.filter,
			Evalscript: layer.evalscript,
			Mosaicking: layer.mosaicking,
			Width:      width,
			Height:     height,
		}
		if layer.name == "rainfall" {
			rainfallRequest = request
		}
		raster, err := m.Client.FetchRaster(ctx, request, []string{layer.band})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s layer: %w", layer.name, err)
		}
		grid, err := raster.Band(layer.band)
		if err != nil {
			return nil, err
		}
		grids[layer.name] = grid
	}

	rainStats, err := m.Client.Statistics(ctx, compute.StatsRequest{
		Dataset:    compute.DatasetCHIRPSPent,
		Bounds:     bounds,
		Filter:     rainFilter,
		Evalscript: fmt.Sprintf(singleBandEvalscript, "precipitation", "precipitation"),
		Mosaicking: compute.MosaicMean,
		Reducer:    compute.ReduceMinMax,
		ScaleM:     5000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reduce rainfall range: %w", err)
	}

	scores, err := suitability.ScoreGrid(suitability.Layers{
		RainfallMM:  grids["rainfall"],
		SlopeDeg:    grids["slope"],
		SoilClass:   grids["soil"],
		LandCover:   grids["landcover"],
		FlowAccum:   grids["drainage"],
		RainMinMM:   rainStats["min"],
		RainMaxMM:   rainStats["max"],
		ZoneWeights: m.Weights,
		Structure:   m.Structure,
	})
	if err != nil {
		return nil, err
	}

	weights := m.Weights.Normalize()

	return &Outcome{
		Title: "Rainwater Harvesting Suitability",
		Grid:  scores,
		Bound: bound,
		Vis: compute.VisParams{
			Min: 0, Max: 0.8,
			Palette: []string{"#ff0000", "#ffa500", "#ffff00", "#008000", "#006400"},
			Label:   "Suitability Index (0-1)",
		},
		Stats: []Stat{
			{Label: "Avg Suitability", Value: fmt.Sprintf("%.2f / 1.0", gridMean(scores))},
			{Label: "High Potential (>0.65)", Value: fmt.Sprintf("%.1f %%", suitability.HighPotentialShare(scores)*100)},
			{Label: "Zone", Value: m.Zone.String()},
			{Label: "Structure", Value: m.Structure.String()},
			{Label: "Weights (R/S/So/L/D)", Value: fmt.Sprintf("%.2f/%.2f/%.2f/%.2f/%.2f", weights.Rain, weights.Slope, weights.Soil, weights.LandCover, weights.Drainage)},
		},
		Export: &compute.BatchRequest{
			Process:     rainfallRequest,
			Description: fmt.Sprintf("TerraSight_Suitability_%s", time.Now().Format("20060102")),
			ScaleM:      30,
		},
	}, nil
}
