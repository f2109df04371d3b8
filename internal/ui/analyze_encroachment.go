package ui

import (
	"github.com/terrasight/terrasight/internal/analysis"
)

// AnalyzeEncroachment handles the UI for water body change detection
// between a baseline and a current period.
func AnalyzeEncroachment() {
	if !requireROI() {
		return
	}

	PrintWarning("The two windows should each be long enough to contain at least one radar acquisition (12 days or more).")

	PrintInfo("\nBaseline period:\n")
	baselineStart, baselineEnd, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}

	PrintInfo("\nCurrent period:\n")
	currentStart, currentEnd, err := ReadDateRange()
	if err != nil {
		PrintError(err.Error())
		return
	}

	orbit, err := readOrbitPass()
	if err != nil {
		PrintError(err.Error())
		return
	}

	module := &analysis.EncroachmentModule{
		Client:        computeClient,
		Orbit:         orbit,
		BaselineStart: baselineStart,
		BaselineEnd:   baselineEnd,
		CurrentStart:  currentStart,
		CurrentEnd:    currentEnd,
	}
	runModule(module, map[string]any{
		"orbit":          orbit,
		"baseline_start": baselineStart,
		"baseline_end":   baselineEnd,
		"current_start":  currentStart,
		"current_end":    currentEnd,
	})
}

func readOrbitPass() (string, error) {
	choice, err := ReadChoice("Select the orbit pass:", []string{
		"Both passes",
		"Ascending (evening overpass)",
		"Descending (morning overpass)",
	})
	if err != nil {
		return "", err
	}
	switch choice {
	case 1:
		return "ASCENDING", nil
	case 2:
		return "DESCENDING", nil
	default:
		return "", nil
	}
}
