package analysis

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/terrasight/terrasight/internal/carbon"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/session"
)

const landCoverEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["Map"],
    output: { id: "default", bands: 1, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  return [sample.Map];
}
`

const landCoverScaleM = 20

// LandCoverModule breaks the region down by ESA WorldCover class.
type LandCoverModule struct {
	Client Service
}

func (m *LandCoverModule) Name() string {
	return "Land Cover Classification"
}

func (m *LandCoverModule) Run(ctx context.Context, sess *session.Session) (*Outcome, error) {
	bound := sess.ROI.Bound()
	width, height := OutputSize(bound, landCoverScaleM)

	request := compute.ProcessRequest{
		Dataset:    compute.DatasetWorldCover,
		Bounds:     sess.ROI.GeoJSON(),
		Evalscript: landCoverEvalscript,
		Mosaicking: compute.MosaicMostRecent,
		Width:      width,
		Height:     height,
	}

	raster, err := m.Client.FetchRaster(ctx, request, []string{"Map"})
	if err != nil {
		return nil, err
	}
	grid, err := raster.Band("Map")
	if err != nil {
		return nil, err
	}

	areas := carbon.ClassAreasHa(grid, raster.PixelAreaM2())
	var total float64
	for _, ha := range areas {
		total += ha
	}
	if total == 0 {
		return nil, fmt.Errorf("no classified pixels in the region: %w", compute.ErrEmpty)
	}

	classes := carbon.LandCoverClasses()

	// Largest classes first.
	sort.Slice(classes, func(i, j int) bool {
		return areas[classes[i].ID] > areas[classes[j].ID]
	})

	stats := []Stat{{Label: "Total Area", Value: fmt.Sprintf("%.1f ha", total)}}
	palette := make([]string, 0, len(classes))
	names := make([]string, 0, len(classes))
	for _, class := range classes {
		ha, ok := areas[class.ID]
		if ok && ha > 0 {
			stats = append(stats, Stat{
				Label: class.Name,
				Value: fmt.Sprintf("%.1f ha (%.1f %%)", ha, 100*ha/total),
			})
		}
	}

	// Legend keeps the canonical class order regardless of area ranking.
	for _, class := range carbon.LandCoverClasses() {
		palette = append(palette, class.Color)
		names = append(names, class.Name)
	}

	// Remap raw class ids to legend indices so the palette applies evenly.
	indexByID := make(map[int]float64, len(names))
	for i, class := range carbon.LandCoverClasses() {
		indexByID[class.ID] = float64(i)
	}
	indexed := make([][]float64, len(grid))
	for y := range grid {
		indexed[y] = make([]float64, len(grid[y]))
		for x := range grid[y] {
			idx, ok := indexByID[int(grid[y][x])]
			if !ok {
				idx = math.NaN()
			}
			indexed[y][x] = idx
		}
	}

	return &Outcome{
		Title: "Land Cover (ESA WorldCover)",
		Grid:  indexed,
		Bound: bound,
		Vis: compute.VisParams{
			Min:         0,
			Max:         float64(len(names) - 1),
			Palette:     palette,
			Categorical: true,
			ClassNames:  names,
			Label:       "Land Cover",
		},
		Stats: stats,
		Export: &compute.BatchRequest{
			Process:     request,
			Description: fmt.Sprintf("TerraSight_LandCover_%s", time.Now().Format("20060102")),
			ScaleM:      landCoverScaleM,
		},
	}, nil
}
