// Package waterquality maps each monitored water-quality parameter to its
// band-arithmetic formula, valid display range and summary statistic, and
// applies the combined cloud and water masks.
package waterquality

import (
	"math"
	"sort"

	"github.com/terrasight/terrasight/internal/compute"
	"gonum.org/v1/gonum/stat"
)

// Reducer is the per-parameter summary statistic. Risk indicators assumed
// rare but significant use max; indicators prone to outliers use median.
type Reducer int

const (
	ReduceMean Reducer = iota
	ReduceMedian
	ReduceMax
)

func (r Reducer) String() string {
	switch r {
	case ReduceMedian:
		return "median"
	case ReduceMax:
		return "max"
	default:
		return "mean"
	}
}

// Parameter describes one monitored water-quality indicator.
type Parameter struct {
	Name     string
	Key      string
	Reducer  Reducer
	Vis      compute.VisParams
	Evaluate func(bands map[string]float64) float64
}

func normalizedDifference(a, b float64) float64 {
	if a+b == 0 {
		return math.NaN()
	}
	return (a - b) / (a + b)
}

// Parameters lists the supported indicators in menu order.
func Parameters() []Parameter {
	return []Parameter{
		{
			Name:    "Turbidity (NDTI)",
			Key:     "ndti",
			Reducer: ReduceMean,
			Vis: compute.VisParams{
				Min: -0.15, Max: 0.15,
				Palette: []string{"#0000ff", "#00ffff", "#ffff00", "#ff0000"},
				Label:   "Turbidity Index (NDTI)",
			},
			Evaluate: func(b map[string]float64) float64 {
				return normalizedDifference(b["B04"], b["B03"])
			},
		},
		{
			Name:    "Total Suspended Solids (TSS)",
			Key:     "tss",
			Reducer: ReduceMedian,
			Vis: compute.VisParams{
				Min: 0, Max: 50,
				Palette: []string{"#0000ff", "#00ffff", "#ffff00", "#ff0000", "#5c0000"},
				Label:   "TSS (Est. mg/L)",
			},
			Evaluate: func(b map[string]float64) float64 {
				return 2950 * math.Pow(b["B04"], 1.357)
			},
		},
		{
			Name:    "Cyanobacteria Index",
			Key:     "cyano",
			Reducer: ReduceMax,
			Vis: compute.VisParams{
				Min: 0.8, Max: 1.5,
				Palette: []string{"#0000ff", "#00ff00", "#ff0000"},
				Label:   "Cyano Risk (Ratio > 1)",
			},
			Evaluate: func(b map[string]float64) float64 {
				if b["B04"] == 0 {
					return math.NaN()
				}
				return b["B05"] / b["B04"]
			},
		},
		{
			Name:    "Chlorophyll-a (NDCI)",
			Key:     "ndci",
			Reducer: ReduceMean,
			Vis: compute.VisParams{
				Min: -0.1, Max: 0.2,
				Palette: []string{"#0000ff", "#00ffff", "#00ff00", "#ff0000"},
				Label:   "Chlorophyll-a (NDCI)",
			},
			Evaluate: func(b map[string]float64) float64 {
				return normalizedDifference(b["B05"], b["B04"])
			},
		},
		{
			Name:    "CDOM (Organic Matter)",
			Key:     "cdom",
			Reducer: ReduceMedian,
			Vis: compute.VisParams{
				Min: 0.5, Max: 2.0,
				Palette: []string{"#0000ff", "#ffff00", "#8b4513"},
				Label:   "CDOM Proxy (Green/Blue)",
			},
			Evaluate: func(b map[string]float64) float64 {
				if b["B02"] == 0 {
					return math.NaN()
				}
				return b["B03"] / b["B02"]
			},
		},
	}
}

// NDWI is the water mask basis: normalized green/NIR difference, positive
// over open water.
func NDWI(green, nir float64) float64 {
	return normalizedDifference(green, nir)
}

// PixelUsable reports whether a pixel passes both masks: cloud probability
// at or below the threshold, and NDWI above zero.
func PixelUsable(cloudProbability, cloudThreshold, green, nir float64) bool {
	if cloudProbability > cloudThreshold {
		return false
	}
	ndwi := NDWI(green, nir)
	return !math.IsNaN(ndwi) && ndwi > 0
}

// SceneStatistic reduces the usable pixel values of one scene to the
// parameter's representative statistic. ok is false when no usable samples
// remain.
func SceneStatistic(values []float64, r Reducer) (float64, bool) {
	clean := values[:0:0]
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return 0, false
	}

	switch r {
	case ReduceMedian:
		sort.Float64s(clean)
		return stat.Quantile(0.5, stat.Empirical, clean, nil), true
	case ReduceMax:
		max := clean[0]
		for _, v := range clean[1:] {
			if v > max {
				max = v
			}
		}
		return max, true
	default:
		return stat.Mean(clean, nil), true
	}
}

// BuildSeries drops NaN points and sorts the remainder chronologically.
func BuildSeries(points []compute.SeriesPoint) []compute.SeriesPoint {
	var out []compute.SeriesPoint
	for _, p := range points {
		if math.IsNaN(p.Value) {
			continue
		}
		out = append(out, p)
	}
	compute.SortSeries(out)
	return out
}
