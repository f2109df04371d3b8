// Package carbon holds the vegetation-index, biomass and land-cover math of
// the carbon/vegetation modules.
package carbon

import (
	"math"

	"github.com/terrasight/terrasight/internal/compute"
)

func safeDivide(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

// NDVI is the normalized red/NIR difference, the baseline vegetation-vigor
// index.
func NDVI(nir, red float64) float64 {
	return safeDivide(nir-red, nir+red)
}

// EVI is the enhanced vegetation index with the standard MODIS coefficients,
// less saturated than NDVI over dense canopy. Bands are reflectance in
// [0,1].
func EVI(nir, red, blue float64) float64 {
	return 2.5 * safeDivide(nir-red, nir+6*red-7.5*blue+1)
}

// NDWI here is the vegetation-water-content variant (NIR/SWIR).
func NDWI(nir, swir float64) float64 {
	return safeDivide(nir-swir, nir+swir)
}

// Above-ground biomass proxy: a linear NDVI regression calibrated for
// tropical dry-to-moist woodland, clamped at zero below the vegetation
// floor.
const (
	agbSlope     = 250.0 // t/ha per NDVI unit
	agbIntercept = -75.0
)

// CarbonFraction is the IPCC default fraction of dry biomass that is carbon.
const CarbonFraction = 0.47

// AGB estimates above-ground biomass density in t/ha from an NDVI
// composite value.
func AGB(ndvi float64) float64 {
	agb := agbSlope*ndvi + agbIntercept
	if agb < 0 || math.IsNaN(agb) {
		return 0
	}
	return agb
}

// CarbonStock converts biomass density to carbon density in t/ha.
func CarbonStock(agb float64) float64 {
	return agb * CarbonFraction
}

// AGBGrid maps an NDVI grid through the regression.
func AGBGrid(ndvi [][]float64) [][]float64 {
	out := make([][]float64, len(ndvi))
	for y, row := range ndvi {
		out[y] = make([]float64, len(row))
		for x, v := range row {
			out[y][x] = AGB(v)
		}
	}
	return out
}

// LandCoverClass is one ESA WorldCover category.
type LandCoverClass struct {
	ID    int
	Name  string
	Color string
}

// LandCoverClasses lists the WorldCover v100 legend in class order.
func LandCoverClasses() []LandCoverClass {
	return []LandCoverClass{
		{10, "Tree cover", "#006400"},
		{20, "Shrubland", "#ffbb22"},
		{30, "Grassland", "#ffff4c"},
		{40, "Cropland", "#f096ff"},
		{50, "Built-up", "#fa0000"},
		{60, "Bare / sparse vegetation", "#b4b4b4"},
		{70, "Snow and ice", "#f0f0f0"},
		{80, "Permanent water bodies", "#0064c8"},
		{90, "Herbaceous wetland", "#0096a0"},
		{95, "Mangroves", "#00cf75"},
		{100, "Moss and lichen", "#fae6a0"},
	}
}

// ClassAreasHa counts the pixels of each land-cover class and converts them
// to hectares. Classes absent from the grid report zero.
func ClassAreasHa(classGrid [][]float64, pixelAreaM2 float64) map[int]float64 {
	areas := make(map[int]float64, len(LandCoverClasses()))
	for _, c := range LandCoverClasses() {
		areas[c.ID] = 0
	}
	for _, row := range classGrid {
		for _, v := range row {
			id := int(v)
			if _, ok := areas[id]; ok {
				areas[id] += pixelAreaM2 / 10_000
			}
		}
	}
	return areas
}

// NDVIVis is the standard brown-to-green vegetation stretch.
func NDVIVis() compute.VisParams {
	return compute.VisParams{
		Min: 0, Max: 1,
		Palette: []string{"#a52a2a", "#ffff00", "#00ff00", "#006400"},
		Label:   "NDVI",
	}
}

// AGBVis stretches biomass density for display.
func AGBVis() compute.VisParams {
	return compute.VisParams{
		Min: 0, Max: 200,
		Palette: []string{"#ffffe5", "#a1d99b", "#41ab5d", "#00441b"},
		Label:   "Above-Ground Biomass (t/ha)",
	}
}
