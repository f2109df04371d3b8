package ui

import (
	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/change"
)

// AnalyzeFlood handles the UI for radar flood extent mapping.
func AnalyzeFlood() {
	if !requireROI() {
		return
	}

	PrintWarning("Pick a pre-event window of typical conditions and a post-event window covering the flood peak.")

	PrintInfo("\nPre-event period:\n")
	preStart, preEnd, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}

	PrintInfo("\nPost-event period:\n")
	postStart, postEnd, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}

	orbit, err := readOrbitPass()
	if err != nil {
		PrintError(err.Error())
		return
	}

	threshold, err := ReadFloat("Backscatter ratio threshold, 1.0 to 1.5 (default 1.25): ",
		change.DefaultRatioThreshold, 1.0, 1.5)
	if err != nil {
		PrintError(err.Error())
		return
	}

	module := &analysis.FloodModule{
		Client:         computeClient,
		Orbit:          orbit,
		PreStart:       preStart,
		PreEnd:         preEnd,
		PostStart:      postStart,
		PostEnd:        postEnd,
		RatioThreshold: threshold,
	}
	runModule(module, map[string]any{
		"orbit":      orbit,
		"pre_start":  preStart,
		"pre_end":    preEnd,
		"post_start": postStart,
		"post_end":   postEnd,
		"threshold":  threshold,
	})
}
