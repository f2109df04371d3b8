package change

// Flood detection constants: permanent water is anything the historical
// surface-water occurrence layer marks above 30%, slopes of 5 degrees or
// more are terrain false positives, and patches under 8 connected pixels
// are treated as speckle.
const (
	PermanentWaterOccurrence = 30.0
	FloodMaxSlopeDegrees     = 5.0
	FloodMinConnectedPixels  = 8
	DefaultRatioThreshold    = 1.25
)

// RatioMask thresholds the post/pre backscatter intensity ratio. A pixel is
// a flood candidate when the smoothed post value is at least `threshold`
// times the pre value. Pre values of zero never qualify.
func RatioMask(pre, post [][]float64, threshold float64) [][]bool {
	mask := make([][]bool, len(pre))
	for y, row := range pre {
		mask[y] = make([]bool, len(row))
		for x, preV := range row {
			if preV == 0 {
				continue
			}
			mask[y][x] = post[y][x]/preV > threshold
		}
	}
	return mask
}

// ApplyExclusions removes candidates on historically permanent open water
// and on terrain steeper than the slope cutoff. The input mask is modified
// in place and returned.
func ApplyExclusions(mask [][]bool, waterOccurrence, slopeDeg [][]float64) [][]bool {
	for y, row := range mask {
		for x := range row {
			if !row[x] {
				continue
			}
			if waterOccurrence[y][x] > PermanentWaterOccurrence {
				row[x] = false
				continue
			}
			if slopeDeg[y][x] >= FloodMaxSlopeDegrees {
				row[x] = false
			}
		}
	}
	return mask
}

// FilterSpeckle drops connected components (8-neighbour) smaller than
// minPixels. A valid flood pixel must belong to a patch of at least that
// size.
func FilterSpeckle(mask [][]bool, minPixels int) [][]bool {
	height := len(mask)
	if height == 0 {
		return mask
	}
	width := len(mask[0])

	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	neighbours := [8][2]int{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] || visited[y][x] {
				continue
			}

			var component [][2]int
			stack := [][2]int{{y, x}}
			visited[y][x] = true
			for len(stack) > 0 {
				cur := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				component = append(component, cur)
				for _, d := range neighbours {
					ny, nx := cur[0]+d[0], cur[1]+d[1]
					if ny < 0 || ny >= height || nx < 0 || nx >= width {
						continue
					}
					if mask[ny][nx] && !visited[ny][nx] {
						visited[ny][nx] = true
						stack = append(stack, [2]int{ny, nx})
					}
				}
			}

			if len(component) < minPixels {
				for _, p := range component {
					mask[p[0]][p[1]] = false
				}
			}
		}
	}
	return mask
}

// MaskAreaHa sums the masked pixels into hectares. An empty mask reports
// zero, it is not an error.
func MaskAreaHa(mask [][]bool, pixelAreaM2 float64) float64 {
	count := 0
	for _, row := range mask {
		for _, v := range row {
			if v {
				count++
			}
		}
	}
	return float64(count) * pixelAreaM2 / 10_000
}
