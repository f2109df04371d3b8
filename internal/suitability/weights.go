package suitability

// Zone is the climatic/geomorphic zone the ROI falls in, derived from the
// detected administrative region. It selects the default criteria weights.
type Zone int

const (
	ZoneGeneral Zone = iota // plateau default
	ZoneArid
	ZoneHilly
	ZoneCoastal
	ZonePlains
)

func (z Zone) String() string {
	switch z {
	case ZoneArid:
		return "Arid/Semi-Arid"
	case ZoneHilly:
		return "Hilly/Mountainous"
	case ZoneCoastal:
		return "Coastal/Wet"
	case ZonePlains:
		return "Alluvial Plains"
	default:
		return "General (Plateau)"
	}
}

var zoneByRegion = map[string]Zone{
	"Rajasthan": ZoneArid,
	"Gujarat":   ZoneArid,
	"Haryana":   ZoneArid,

	"Himachal Pradesh":  ZoneHilly,
	"Uttarakhand":       ZoneHilly,
	"Sikkim":            ZoneHilly,
	"Arunachal Pradesh": ZoneHilly,
	"Jammu and Kashmir": ZoneHilly,
	"Ladakh":            ZoneHilly,

	"Kerala": ZoneCoastal,
	"Goa":    ZoneCoastal,
	"Konkan": ZoneCoastal,

	"Uttar Pradesh": ZonePlains,
	"Bihar":         ZonePlains,
	"West Bengal":   ZonePlains,
	"Punjab":        ZonePlains,
}

// ZoneForRegion maps a detected administrative-region name to its zone.
// Unrecognized regions (including "unknown") fall back to the plateau
// default.
func ZoneForRegion(name string) Zone {
	return zoneByRegion[name]
}

// Weights are the relative importance of the five suitability criteria.
type Weights struct {
	Rain      float64
	Slope     float64
	Soil      float64
	LandCover float64
	Drainage  float64
}

// DefaultWeights returns the zone-tuned weight row. Each row sums to 1.0.
func DefaultWeights(z Zone) Weights {
	switch z {
	case ZoneArid:
		return Weights{Rain: 0.35, Slope: 0.15, Soil: 0.25, LandCover: 0.10, Drainage: 0.15}
	case ZoneHilly:
		return Weights{Rain: 0.10, Slope: 0.40, Soil: 0.15, LandCover: 0.10, Drainage: 0.25}
	case ZoneCoastal:
		return Weights{Rain: 0.10, Slope: 0.30, Soil: 0.20, LandCover: 0.20, Drainage: 0.20}
	case ZonePlains:
		return Weights{Rain: 0.20, Slope: 0.10, Soil: 0.15, LandCover: 0.30, Drainage: 0.25}
	default:
		return Weights{Rain: 0.25, Slope: 0.20, Soil: 0.20, LandCover: 0.15, Drainage: 0.20}
	}
}

// Sum returns the raw weight total.
func (w Weights) Sum() float64 {
	return w.Rain + w.Slope + w.Soil + w.LandCover + w.Drainage
}

// Normalize scales the weights to sum exactly to 1.0. An all-zero input
// yields the uniform distribution rather than failing.
func (w Weights) Normalize() Weights {
	total := w.Sum()
	if total == 0 {
		return Weights{Rain: 0.2, Slope: 0.2, Soil: 0.2, LandCover: 0.2, Drainage: 0.2}
	}
	return Weights{
		Rain:      w.Rain / total,
		Slope:     w.Slope / total,
		Soil:      w.Soil / total,
		LandCover: w.LandCover / total,
		Drainage:  w.Drainage / total,
	}
}
