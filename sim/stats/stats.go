// Package stats holds the post-run aggregation helpers for plaza runs.
// Every function returns NaN, never zero, when its input does not define a
// value, so callers can tell "no data" apart from a genuine zero.
package stats

import (
	"math"
	"sort"
)

// Point is one observation of a step function: Value holds from Time until
// the next point.
type Point struct {
	Time  float64
	Value float64
}

type Number interface {
	int | int64 | float64
}

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean[T Number](numbers []T) float64 {
	if len(numbers) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, n := range numbers {
		sum += float64(n)
	}
	return sum / float64(len(numbers))
}

// Percentile returns the p-th percentile (0..100) using linear interpolation
// between closest ranks. The input need not be sorted; it is not modified.
// Empty input yields NaN.
func Percentile[T Number](data []T, p float64) float64 {
	n := len(data)
	if n == 0 {
		return math.NaN()
	}
	sorted := make([]float64, n)
	for i, v := range data {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	rank := p / 100.0 * float64(n-1)
	lowerIdx := int(math.Floor(rank))
	upperIdx := int(math.Ceil(rank))
	if lowerIdx < 0 {
		return sorted[0]
	}
	if upperIdx >= n {
		return sorted[n-1]
	}
	if lowerIdx == upperIdx {
		return sorted[lowerIdx]
	}
	return sorted[lowerIdx] + (sorted[upperIdx]-sorted[lowerIdx])*(rank-float64(lowerIdx))
}

// TimeWeightedMean integrates the step function defined by points and divides
// by the observed span:
//
//	Σ vᵢ·(tᵢ₊₁ − tᵢ) / (t_last − t_first)
//
// The last point only closes the final interval. Fewer than two points or a
// zero span yield NaN.
func TimeWeightedMean(points []Point) float64 {
	if len(points) < 2 {
		return math.NaN()
	}
	span := points[len(points)-1].Time - points[0].Time
	if span <= 0 {
		return math.NaN()
	}
	area := 0.0
	for i := 0; i < len(points)-1; i++ {
		area += points[i].Value * (points[i+1].Time - points[i].Time)
	}
	return area / span
}

// CloseAt returns points extended with a final point at t carrying the last
// value forward, so the last interval is counted up to t. Points at or after
// t are kept as-is. The input is not modified.
func CloseAt(points []Point, t float64) []Point {
	if len(points) == 0 || points[len(points)-1].Time >= t {
		return points
	}
	out := make([]Point, len(points), len(points)+1)
	copy(out, points)
	return append(out, Point{Time: t, Value: points[len(points)-1].Value})
}

// Utilization returns 1 − idle/horizon, where idle is the time in [0, horizon]
// during which the step function was zero, including [0, t_first) before the
// first point. The last value holds until the horizon. An empty series or a
// non-positive horizon yields NaN.
func Utilization(points []Point, horizon float64) float64 {
	if horizon <= 0 || math.IsNaN(horizon) || math.IsInf(horizon, 0) {
		return math.NaN()
	}
	if len(points) == 0 {
		return math.NaN()
	}
	idle := math.Min(points[0].Time, horizon)
	for i, p := range points {
		if p.Time >= horizon {
			break
		}
		end := horizon
		if i+1 < len(points) {
			end = math.Min(points[i+1].Time, horizon)
		}
		if p.Value == 0 {
			idle += end - p.Time
		}
	}
	return 1 - idle/horizon
}

// Area integrates the step function over [t_first, horizon], the last value
// holding until the horizon.
func Area(points []Point, horizon float64) float64 {
	area := 0.0
	for i, p := range points {
		if p.Time >= horizon {
			break
		}
		end := horizon
		if i+1 < len(points) {
			end = math.Min(points[i+1].Time, horizon)
		}
		area += p.Value * (end - p.Time)
	}
	return area
}

// Align pads the shorter of a and b with NaN so both have equal length.
// Arrival and departure sequences differ in length whenever the horizon cuts
// journeys off mid-service; that is expected, not an error.
func Align(a, b []float64) ([]float64, []float64) {
	n := max(len(a), len(b))
	return pad(a, n), pad(b, n)
}

func pad(xs []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, xs)
	for i := len(xs); i < n; i++ {
		out[i] = math.NaN()
	}
	return out
}
