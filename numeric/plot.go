package numeric

import "math"

// Point is one sampled plot coordinate.
type Point struct {
	X float64
	Y float64
}

// SamplePlot samples f across [xMin, xMax] in pixelWidth/xRes equal steps
// (pixelWidth/xRes+1 points, both ends included) and groups the results
// into connected segments. A segment closes where f is
// undefined or non-finite, and before any jump larger than twice the window
// height, so asymptotes do not draw as vertical lines. Segments shorter
// than two points are kept; renderers drop them.
func SamplePlot(f Func, xMin, xMax, yMin, yMax float64, pixelWidth, xRes int) [][]Point {
	if xRes < 1 {
		xRes = 1
	}
	samples := pixelWidth / xRes
	if samples < 1 {
		return nil
	}
	step := (xMax - xMin) / float64(samples)
	jumpLimit := 2 * (yMax - yMin)

	var segments [][]Point
	var cur []Point
	closeSegment := func() {
		if len(cur) > 0 {
			segments = append(segments, cur)
			cur = nil
		}
	}
	for i := 0; i <= samples; i++ {
		x := xMin + float64(i)*step
		y, ok := f(x)
		if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
			closeSegment()
			continue
		}
		if len(cur) > 0 && math.Abs(y-cur[len(cur)-1].Y) > jumpLimit {
			closeSegment()
		}
		cur = append(cur, Point{X: x, Y: y})
	}
	closeSegment()
	return segments
}
