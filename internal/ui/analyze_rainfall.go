package ui

import (
	"fmt"

	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/rainfall"
)

// AnalyzeRainfall handles the UI for rainfall accumulation and anomaly
// analysis.
func AnalyzeRainfall() {
	if !requireROI() {
		return
	}

	datasets := rainfall.Datasets()
	names := make([]string, 0, len(datasets))
	for _, dataset := range datasets {
		names = append(names, dataset.Name)
	}
	choice, err := ReadChoice("Select the precipitation dataset:", names)
	if err != nil {
		PrintError(err.Error())
		return
	}
	dataset := datasets[choice]

	mode, err := ReadChoice("Select the analysis mode:", []string{
		"Accumulated rainfall over a window",
		fmt.Sprintf("Anomaly against the %d-year baseline", rainfall.BaselineYears),
	})
	if err != nil {
		PrintError(err.Error())
		return
	}

	start, end, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}

	module := &analysis.RainfallModule{
		Client:  computeClient,
		Dataset: dataset,
		Start:   start,
		End:     end,
		Anomaly: mode == 1,
	}
	runModule(module, map[string]any{
		"dataset": dataset.Name,
		"anomaly": mode == 1,
		"start":   start,
		"end":     end,
	})
}
