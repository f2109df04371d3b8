package ui

import (
	"fmt"

	"github.com/terrasight/terrasight/internal/analysis"
	"github.com/terrasight/terrasight/internal/suitability"
)

// AnalyzeSuitability handles the UI for water harvesting structure
// suitability scoring.
func AnalyzeSuitability() {
	if !requireROI() {
		return
	}

	structures := []suitability.Structure{
		suitability.StructurePercolationTank,
		suitability.StructureCheckDam,
		suitability.StructureFarmPond,
	}
	names := make([]string, 0, len(structures))
	for _, structure := range structures {
		names = append(names, structure.String())
	}
	choice, err := ReadChoice("Select the structure type:", names)
	if err != nil {
		PrintError(err.Error())
		return
	}
	structure := structures[choice]

	zone := suitability.ZoneForRegion(activeSession.DetectedRegion)
	weights := suitability.DefaultWeights(zone)
	fmt.Printf("%sDetected zone: %s. Default weights: rainfall %.2f, slope %.2f, soil %.2f, drainage %.2f, land cover %.2f%s\n",
		ColorBlue, zone, weights.Rain, weights.Slope, weights.Soil, weights.Drainage, weights.LandCover, ColorReset)

	custom := ReadString("Customize the weights? (y/N): ")
	if custom == "y" || custom == "Y" {
		adjusted, err := readWeights(weights)
		if err != nil {
			PrintError(err.Error())
			return
		}
		weights = adjusted
	}

	module := &analysis.SuitabilityModule{
		Client:    computeClient,
		Structure: structure,
		Weights:   weights,
		Zone:      zone,
	}
	runModule(module, map[string]any{
		"structure": structure.String(),
		"zone":      zone.String(),
		"weights":   weights,
	})
}

func readWeights(defaults suitability.Weights) (suitability.Weights, error) {
	PrintInfo("Enter a weight for each factor (empty keeps the default). Weights are normalized before scoring.\n")

	weights := defaults
	prompts := []struct {
		label string
		def   float64
		value *float64
	}{
		{"rainfall", defaults.Rain, &weights.Rain},
		{"slope", defaults.Slope, &weights.Slope},
		{"soil", defaults.Soil, &weights.Soil},
		{"drainage", defaults.Drainage, &weights.Drainage},
		{"land cover", defaults.LandCover, &weights.LandCover},
	}

	for _, prompt := range prompts {
		value, err := ReadFloat(fmt.Sprintf("Weight for %s (default %.2f): ", prompt.label, prompt.def), prompt.def, 0, 1)
		if err != nil {
			return suitability.Weights{}, err
		}
		*prompt.value = value
	}

	return weights, nil
}
