package ui

import (
	"github.com/terrasight/terrasight/internal/analysis"
)

// AnalyzeCarbonStock handles the UI for biomass and carbon stock
// estimation.
func AnalyzeCarbonStock() {
	if !requireROI() {
		return
	}

	PrintWarning("Biomass is estimated from an NDVI composite. Pick a cloud-free growing season window for best results.")

	start, end, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}

	module := &analysis.CarbonStockModule{
		Client: computeClient,
		Start:  start,
		End:    end,
	}
	runModule(module, map[string]any{
		"start": start,
		"end":   end,
	})
}
