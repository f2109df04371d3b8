package ui

import (
	"github.com/terrasight/terrasight/internal/analysis"
)

// AnalyzeVegetation handles the UI for vegetation index mapping.
func AnalyzeVegetation() {
	if !requireROI() {
		return
	}

	indices := []string{
		analysis.VegetationNDVI,
		analysis.VegetationEVI,
		analysis.VegetationNDWI,
	}
	choice, err := ReadChoice("Select the vegetation index:", []string{
		"NDVI (greenness)",
		"EVI (canopy, atmosphere corrected)",
		"NDWI (canopy moisture)",
	})
	if err != nil {
		PrintError(err.Error())
		return
	}
	index := indices[choice]

	start, end, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}

	module := &analysis.VegetationModule{
		Client: computeClient,
		Index:  index,
		Start:  start,
		End:    end,
	}
	runModule(module, map[string]any{
		"index": index,
		"start": start,
		"end":   end,
	})
}
