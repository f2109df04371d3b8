package output

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/compute"
	"github.com/terrasight/terrasight/internal/properties"
)

const (
	mapScale     = 3
	legendWidth  = 180
	titleHeight  = 40
	colorbarH    = 46
	maskedShadeR = 0.93
	overlayAlpha = 0.85
)

// RenderMap rasterizes an analysis grid into a PNG with a title bar and
// either a colorbar or a class legend, and returns the output path. When a
// true-color backdrop is given the analysis layer is blended over it and
// masked pixels show the imagery through; without one masked pixels render
// flat gray.
func RenderMap(outcome *analysis.Outcome, backdrop image.Image, name string) (string, error) {
	resultPath := fmt.Sprintf("%s/data/result/maps", properties.RootPath())
	if err := os.MkdirAll(resultPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create result folder: %w", err)
	}
	outputPath := fmt.Sprintf("%s/%s.png", resultPath, name)

	if len(outcome.Grid) == 0 || len(outcome.Grid[0]) == 0 {
		return "", fmt.Errorf("empty grid, nothing to render")
	}

	gridHeight := len(outcome.Grid)
	gridWidth := len(outcome.Grid[0])
	mapW := gridWidth * mapScale
	mapH := gridHeight * mapScale

	footer := colorbarH
	sideLegend := 0
	if outcome.Vis.Categorical {
		footer = 0
		sideLegend = legendWidth
	}

	dc := gg.NewContext(mapW+sideLegend, mapH+titleHeight+footer)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	// Title bar
	dc.SetRGB(0.15, 0.15, 0.15)
	dc.DrawStringAnchored(outcome.Title, float64(mapW+sideLegend)/2, titleHeight/2, 0.5, 0.5)

	// Base imagery
	if backdrop != nil {
		b := backdrop.Bounds()
		dc.Push()
		dc.Translate(0, titleHeight)
		dc.Scale(float64(mapW)/float64(b.Dx()), float64(mapH)/float64(b.Dy()))
		dc.DrawImage(backdrop, 0, 0)
		dc.Pop()
	}

	// Analysis layer
	for y := 0; y < gridHeight; y++ {
		for x := 0; x < gridWidth; x++ {
			value := outcome.Grid[y][x]
			if math.IsNaN(value) {
				if backdrop != nil {
					continue
				}
				dc.SetRGB(maskedShadeR, maskedShadeR, maskedShadeR)
			} else {
				r, g, b := sampleColor(outcome.Vis, value)
				if backdrop != nil {
					dc.SetRGBA(r, g, b, overlayAlpha)
				} else {
					dc.SetRGB(r, g, b)
				}
			}
			dc.DrawRectangle(float64(x*mapScale), float64(titleHeight+y*mapScale), mapScale, mapScale)
			dc.Fill()
		}
	}

	if outcome.Vis.Categorical {
		drawLegend(dc, outcome.Vis, mapW, titleHeight)
	} else {
		drawColorbar(dc, outcome.Vis, mapW, titleHeight+mapH)
	}

	if err := dc.SavePNG(outputPath); err != nil {
		return "", fmt.Errorf("failed to save map image: %w", err)
	}

	fmt.Printf("Map image saved to: %s\n", outputPath)
	return outputPath, nil
}

// sampleColor interpolates the palette linearly for continuous layers and
// snaps to the nearest class color for categorical ones.
func sampleColor(vis compute.VisParams, value float64) (float64, float64, float64) {
	if len(vis.Palette) == 0 {
		return 0, 0, 0
	}

	span := vis.Max - vis.Min
	t := 0.0
	if span > 0 {
		t = (value - vis.Min) / span
	}
	t = math.Max(0, math.Min(1, t))

	if vis.Categorical {
		idx := int(math.Round(t * float64(len(vis.Palette)-1)))
		c := parseHexColor(vis.Palette[idx])
		return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
	}

	pos := t * float64(len(vis.Palette)-1)
	low := int(math.Floor(pos))
	high := int(math.Ceil(pos))
	if high >= len(vis.Palette) {
		high = len(vis.Palette) - 1
	}
	frac := pos - float64(low)

	a := parseHexColor(vis.Palette[low])
	b := parseHexColor(vis.Palette[high])
	r := lerp(float64(a.R), float64(b.R), frac) / 255
	g := lerp(float64(a.G), float64(b.G), frac) / 255
	bl := lerp(float64(a.B), float64(b.B), frac) / 255
	return r, g, bl
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func parseHexColor(hex string) color.RGBA {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{A: 255}
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return color.RGBA{
		R: uint8(value >> 16),
		G: uint8(value >> 8),
		B: uint8(value),
		A: 255,
	}
}

func drawColorbar(dc *gg.Context, vis compute.VisParams, width, top int) {
	barLeft := 20.0
	barTop := float64(top) + 12
	barWidth := float64(width) - 40
	barHeight := 14.0

	steps := int(barWidth)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		value := vis.Min + t*(vis.Max-vis.Min)
		r, g, b := sampleColor(vis, value)
		dc.SetRGB(r, g, b)
		dc.DrawRectangle(barLeft+float64(i), barTop, 1, barHeight)
		dc.Fill()
	}

	dc.SetRGB(0, 0, 0)
	dc.DrawRectangle(barLeft, barTop, barWidth, barHeight)
	dc.SetLineWidth(1)
	dc.Stroke()

	dc.DrawStringAnchored(fmt.Sprintf("%.2f", vis.Min), barLeft, barTop+barHeight+12, 0, 0.5)
	dc.DrawStringAnchored(vis.Label, barLeft+barWidth/2, barTop+barHeight+12, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.2f", vis.Max), barLeft+barWidth, barTop+barHeight+12, 1, 0.5)
}

func drawLegend(dc *gg.Context, vis compute.VisParams, left, top int) {
	legendX := float64(left) + 14
	legendY := float64(top) + 14
	spacing := 22.0

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(vis.Label, legendX, legendY, 0, 0.5)
	legendY += spacing

	for i, name := range vis.ClassNames {
		if i >= len(vis.Palette) {
			break
		}
		c := parseHexColor(vis.Palette[i])
		dc.SetRGB(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
		dc.DrawRectangle(legendX, legendY-7, 14, 14)
		dc.Fill()

		dc.SetRGB(0, 0, 0)
		dc.DrawRectangle(legendX, legendY-7, 14, 14)
		dc.SetLineWidth(1)
		dc.Stroke()
		dc.DrawStringAnchored(name, legendX+20, legendY, 0, 0.5)

		legendY += spacing
	}
}
