// Package rainfall holds the accumulation and anomaly computations of the
// rainfall module, including the degenerate-baseline guard.
package rainfall

import (
	"errors"
	"fmt"
	"math"

	"github.com/terrasight/terrasight/internal/compute"
)

// ErrDegenerateBaseline means the multi-year baseline mean is zero or near
// zero, so a percentage anomaly is undefined. Callers surface it as a
// handled warning, never as a crash.
var ErrDegenerateBaseline = errors.New("rainfall baseline is zero or near zero, anomaly is undefined")

// baselineEpsilonMM is the cutoff below which a baseline mean (mm over the
// window) counts as degenerate.
const baselineEpsilonMM = 0.5

// BaselineYears is how many prior same-calendar windows form the anomaly
// baseline.
const BaselineYears = 5

// Dataset is one selectable precipitation source.
type Dataset struct {
	Name   string
	ID     string
	Band   string
	ScaleM float64
}

func Datasets() []Dataset {
	return []Dataset{
		{Name: "CHIRPS (Daily Climatology)", ID: compute.DatasetCHIRPSDaily, Band: "precipitation", ScaleM: 5566},
		{Name: "GPM (IMERG Near-Real-Time)", ID: compute.DatasetGPMImerg, Band: "precipitationCal", ScaleM: 10000},
	}
}

// Anomaly computes the percentage deviation of the current window's summed
// precipitation from the baseline mean.
func Anomaly(currentSumMM, baselineMeanMM float64) (float64, error) {
	if math.Abs(baselineMeanMM) < baselineEpsilonMM {
		return 0, fmt.Errorf("baseline mean %.3f mm: %w", baselineMeanMM, ErrDegenerateBaseline)
	}
	return (currentSumMM - baselineMeanMM) / baselineMeanMM * 100, nil
}

// AnomalyGrid computes the per-pixel anomaly. Pixels with a degenerate
// baseline become NaN and are masked out of the display; the whole grid
// being degenerate is an error.
func AnomalyGrid(currentSum, baselineMean [][]float64) ([][]float64, error) {
	if len(currentSum) == 0 || len(currentSum) != len(baselineMean) {
		return nil, fmt.Errorf("anomaly grids are mismatched: %d vs %d rows", len(currentSum), len(baselineMean))
	}

	anyValid := false
	out := make([][]float64, len(currentSum))
	for y := range currentSum {
		if len(currentSum[y]) != len(baselineMean[y]) {
			return nil, fmt.Errorf("anomaly grid row %d is mismatched", y)
		}
		out[y] = make([]float64, len(currentSum[y]))
		for x := range currentSum[y] {
			v, err := Anomaly(currentSum[y][x], baselineMean[y][x])
			if err != nil {
				out[y][x] = math.NaN()
				continue
			}
			out[y][x] = v
			anyValid = true
		}
	}
	if !anyValid {
		return nil, ErrDegenerateBaseline
	}
	return out, nil
}

// AccumulationVis stretches the display range to the observed min/max.
func AccumulationVis(minMM, maxMM float64) compute.VisParams {
	return compute.VisParams{
		Min: minMM, Max: maxMM,
		Palette: []string{"#ffffcc", "#a1dab4", "#41b6c4", "#225ea8", "#081d58"},
		Label:   "Total Rainfall (mm)",
	}
}

// AnomalyVis is the fixed symmetric range for percentage anomalies.
func AnomalyVis() compute.VisParams {
	return compute.VisParams{
		Min: -50, Max: 50,
		Palette: []string{"#ff0000", "#ffa500", "#ffffff", "#00ffff", "#0000ff"},
		Label:   "Rainfall Anomaly (%)",
	}
}
