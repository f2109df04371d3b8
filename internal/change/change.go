// Package change classifies per-pixel transitions between two binary water
// masks derived from radar backscatter, and converts class counts to areas.
package change

// WaterThresholdDB is the backscatter cutoff: smoothed VV intensity below it
// is classified as open water.
const WaterThresholdDB = -16.0

// Class is the per-pixel transition outcome. Every pixel lands in exactly
// one of the four classes.
type Class uint8

const (
	ClassNone   Class = iota // water in neither period
	ClassStable              // water in both periods
	ClassLoss                // water initially, dry finally (encroachment)
	ClassGain                // dry initially, water finally
)

func (c Class) String() string {
	switch c {
	case ClassStable:
		return "Stable Water"
	case ClassLoss:
		return "Encroachment"
	case ClassGain:
		return "New Water"
	default:
		return "None"
	}
}

// WaterMask thresholds a smoothed backscatter grid into a water mask.
func WaterMask(backscatterDB [][]float64, thresholdDB float64) [][]bool {
	mask := make([][]bool, len(backscatterDB))
	for y, row := range backscatterDB {
		mask[y] = make([]bool, len(row))
		for x, v := range row {
			mask[y][x] = v < thresholdDB
		}
	}
	return mask
}

// Classify partitions pixels by comparing the initial and final water masks.
// The grids must be equally sized.
func Classify(initial, final [][]bool) [][]Class {
	classes := make([][]Class, len(initial))
	for y := range initial {
		classes[y] = make([]Class, len(initial[y]))
		for x := range initial[y] {
			wasWater := initial[y][x]
			isWater := final[y][x]
			switch {
			case wasWater && isWater:
				classes[y][x] = ClassStable
			case wasWater && !isWater:
				classes[y][x] = ClassLoss
			case !wasWater && isWater:
				classes[y][x] = ClassGain
			default:
				classes[y][x] = ClassNone
			}
		}
	}
	return classes
}

// AreasHa converts per-class pixel counts to hectares. Classes with no
// pixels report zero rather than being absent.
func AreasHa(classes [][]Class, pixelAreaM2 float64) map[Class]float64 {
	counts := map[Class]int{ClassStable: 0, ClassLoss: 0, ClassGain: 0, ClassNone: 0}
	for _, row := range classes {
		for _, c := range row {
			counts[c]++
		}
	}
	areas := make(map[Class]float64, len(counts))
	for c, n := range counts {
		areas[c] = float64(n) * pixelAreaM2 / 10_000
	}
	return areas
}
