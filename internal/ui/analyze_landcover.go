package ui

import (
	"github.com/terrasight/terrasight/internal/analysis"
)

// AnalyzeLandCover handles the UI for land cover classification.
func AnalyzeLandCover() {
	if !requireROI() {
		return
	}

	module := &analysis.LandCoverModule{Client: computeClient}
	runModule(module, nil)
}
