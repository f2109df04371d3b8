package ui

import (
	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/waterquality"
)

// AnalyzeWaterQuality handles the UI for spectral water quality
// parameter analysis.
func AnalyzeWaterQuality() {
	if !requireROI() {
		return
	}

	parameters := waterquality.Parameters()
	names := make([]string, 0, len(parameters))
	for _, parameter := range parameters {
		names = append(names, parameter.Name)
	}
	choice, err := ReadChoice("Select the water quality parameter:", names)
	if err != nil {
		PrintError(err.Error())
		return
	}
	parameter := parameters[choice]

	start, end, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}

	cloudThreshold, err := readCloudThreshold()
	if err != nil {
		PrintError(err.Error())
		return
	}

	module := &analysis.WaterQualityModule{
		Client:         computeClient,
		Parameter:      parameter,
		Start:          start,
		End:            end,
		CloudThreshold: cloudThreshold,
	}
	runModule(module, map[string]any{
		"parameter":       parameter.Key,
		"start":           start,
		"end":             end,
		"cloud_threshold": cloudThreshold,
	})
}

func readCloudThreshold() (float64, error) {
	return ReadFloat("Max cloud probability per pixel, 5-50 percent (default 20): ", 20, 5, 50)
}
