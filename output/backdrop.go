package output

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/paulmach/orb/geojson"
	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/compute"
)

const backdropEvalscript = `
//VERSION=3
function setup() {
  return {
    input: ["B04", "B03", "B02"],
    output: { id: "default", bands: 3, sampleType: SampleType.FLOAT32 },
  }
}

function evaluatePixel(sample) {
  let scale = 0.0001;
  return [sample.B04 * scale, sample.B03 * scale, sample.B02 * scale];
}
`

// backdropGain brightens reflectance for display, the usual 2.5 true-color
// stretch.
const backdropGain = 2.5

// FetchBackdrop downloads a cloud-filtered true-color composite matching the
// outcome's extent and grid dimensions, used as the base imagery under the
// analysis layer.
func FetchBackdrop(ctx context.Context, client analysis.Service, outcome *analysis.Outcome) (image.Image, error) {
	if len(outcome.Grid) == 0 || len(outcome.Grid[0]) == 0 {
		return nil, nil
	}
	width := len(outcome.Grid[0])
	height := len(outcome.Grid)

	bounds := geojson.NewGeometry(outcome.Bound.ToPolygon())
	filter := compute.DataFilter{
		From:          time.Now().AddDate(-1, 0, 0),
		To:            time.Now(),
		MaxCloudCover: 40,
	}
	// Reuse the analysis window when the outcome carries one, so the
	// backdrop shows the same season.
	if outcome.Export != nil {
		if export := outcome.Export.Process; !export.Filter.From.IsZero() {
			filter.From = export.Filter.From
			filter.To = export.Filter.To
		}
	}

	raster, err := client.FetchRaster(ctx, compute.ProcessRequest{
		Dataset:    compute.DatasetS2SR,
		Bounds:     bounds,
		Filter:     filter,
		Evalscript: backdropEvalscript,
		Mosaicking: compute.MosaicMedian,
		Width:      width,
		Height:     height,
	}, []string{"B04", "B03", "B02"})
	if err != nil {
		return nil, err
	}

	red, err := raster.Band("B04")
	if err != nil {
		return nil, err
	}
	green, err := raster.Band("B03")
	if err != nil {
		return nil, err
	}
	blue, err := raster.Band("B02")
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, raster.Width, raster.Height))
	for y := 0; y < raster.Height; y++ {
		for x := 0; x < raster.Width; x++ {
			img.Set(x, y, color.RGBA{
				R: stretch(red[y][x]),
				G: stretch(green[y][x]),
				B: stretch(blue[y][x]),
				A: 255,
			})
		}
	}
	return img, nil
}

func stretch(reflectance float64) uint8 {
	v := reflectance * backdropGain
	if v < 0 || v != v {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(v * 255)
}
