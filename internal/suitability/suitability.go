// Package suitability combines five normalized terrain and climate layers
// into a weighted rainwater-harvesting suitability index in [0,1].
package suitability

import (
	"fmt"
	"math"
)

// Structure is the target harvesting structure. It selects which soil
// suitability table applies: storage favors clay-like classes, recharge
// favors sandy and loamy ones.
type Structure int

const (
	StructurePercolationTank Structure = iota // recharge
	StructureCheckDam                         // streams
	StructureFarmPond                         // storage
)

func (s Structure) String() string {
	switch s {
	case StructureCheckDam:
		return "Check Dam (Streams)"
	case StructureFarmPond:
		return "Farm Pond (Storage)"
	default:
		return "Percolation Tank (Recharge)"
	}
}

// HighPotentialThreshold separates high-potential zones for highlighting.
const HighPotentialThreshold = 0.65

// USDA soil texture classes run 1 (clay) through 12 (sand).
var soilStorageTable = []float64{1.0, 0.9, 0.7, 0.6, 0.5, 0.9, 0.5, 0.4, 0.3, 0.4, 0.1, 0.2}
var soilRechargeTable = []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.3, 0.6, 0.7, 0.9, 0.9, 1.0, 0.9}

// SoilSuitability remaps a USDA texture class to a [0,1] score for the given
// structure. Classes outside 1-12 score zero.
func SoilSuitability(class int, s Structure) float64 {
	if class < 1 || class > 12 {
		return 0
	}
	if s == StructureFarmPond {
		return soilStorageTable[class-1]
	}
	return soilRechargeTable[class-1]
}

// ESA WorldCover class scores. Cropland and grassland rank highest, built-up
// and water are excluded.
var landCoverTable = map[int]float64{
	10:  0.6, // tree cover
	20:  0.8, // shrubland
	30:  0.9, // grassland
	40:  1.0, // cropland
	50:  0.0, // built-up
	60:  0.1, // bare / sparse
	70:  0.2, // snow and ice
	80:  0.0, // permanent water
	90:  0.5, // herbaceous wetland
	95:  0.0, // mangroves
	100: 0.1, // moss and lichen
}

// LandCoverSuitability remaps a WorldCover class to a [0,1] score. Unknown
// classes score zero.
func LandCoverSuitability(class int) float64 {
	return landCoverTable[class]
}

// NormalizeRainfall min-max scales a rainfall value, clamped to [0,1].
func NormalizeRainfall(value, min, max float64) float64 {
	if max <= min {
		return 0
	}
	return clamp01((value - min) / (max - min))
}

const maxSlopeDegrees = 30.0

// NormalizeSlope inverts slope so flat terrain scores 1, clamped over the
// 0-30 degree range.
func NormalizeSlope(degrees float64) float64 {
	return clamp01(1 - degrees/maxSlopeDegrees)
}

const maxLogFlowAccumulation = 12.0

// NormalizeDrainage compresses flow accumulation logarithmically and scales
// the 0-12 log range to [0,1].
func NormalizeDrainage(accumulation float64) float64 {
	if accumulation <= 1 {
		return 0
	}
	return clamp01(math.Log(accumulation) / maxLogFlowAccumulation)
}

// Inputs are the five normalized criteria for one pixel, each in [0,1].
type Inputs struct {
	Rain      float64
	Slope     float64
	Soil      float64
	LandCover float64
	Drainage  float64
}

// Combine computes the weighted linear sum of the normalized inputs. With
// normalized weights the result stays in [0,1].
func Combine(in Inputs, w Weights) float64 {
	return in.Rain*w.Rain +
		in.Slope*w.Slope +
		in.Soil*w.Soil +
		in.LandCover*w.LandCover +
		in.Drainage*w.Drainage
}

// Layers are the raw pixel grids the index is built from. All five must be
// present and equally sized; a missing layer aborts the computation rather
// than producing partial scores.
type Layers struct {
	RainfallMM  [][]float64
	SlopeDeg    [][]float64
	SoilClass   [][]float64
	LandCover   [][]float64
	FlowAccum   [][]float64
	RainMinMM   float64
	RainMaxMM   float64
	ZoneWeights Weights
	Structure   Structure
}

// ScoreGrid normalizes every input layer by its fixed rule and combines them
// per pixel. The weights are re-normalized before use.
func ScoreGrid(layers Layers) ([][]float64, error) {
	grids := map[string][][]float64{
		"rainfall":          layers.RainfallMM,
		"slope":             layers.SlopeDeg,
		"soil texture":      layers.SoilClass,
		"land cover":        layers.LandCover,
		"flow accumulation": layers.FlowAccum,
	}
	var height, width int
	for name, grid := range grids {
		if len(grid) == 0 || len(grid[0]) == 0 {
			return nil, fmt.Errorf("missing input layer: %s", name)
		}
		if height == 0 {
			height, width = len(grid), len(grid[0])
		}
		if len(grid) != height || len(grid[0]) != width {
			return nil, fmt.Errorf("input layer %s is %dx%d, expected %dx%d", name, len(grid[0]), len(grid), width, height)
		}
	}

	weights := layers.ZoneWeights.Normalize()

	scores := make([][]float64, height)
	for y := 0; y < height; y++ {
		scores[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			in := Inputs{
				Rain:      NormalizeRainfall(layers.RainfallMM[y][x], layers.RainMinMM, layers.RainMaxMM),
				Slope:     NormalizeSlope(layers.SlopeDeg[y][x]),
				Soil:      SoilSuitability(int(layers.SoilClass[y][x]), layers.Structure),
				LandCover: LandCoverSuitability(int(layers.LandCover[y][x])),
				Drainage:  NormalizeDrainage(layers.FlowAccum[y][x]),
			}
			scores[y][x] = Combine(in, weights)
		}
	}
	return scores, nil
}

// HighPotentialShare reports the fraction of pixels above the highlight
// threshold.
func HighPotentialShare(scores [][]float64) float64 {
	var total, high int
	for _, row := range scores {
		for _, v := range row {
			if math.IsNaN(v) {
				continue
			}
			total++
			if v > HighPotentialThreshold {
				high++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(high) / float64(total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
