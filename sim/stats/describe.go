package stats

import "math"

// Description summarizes a metric across independent replications.
type Description struct {
	N      int     // Number of defined (non-NaN) observations
	Mean   float64
	StdDev float64 // Sample standard deviation; NaN when N < 2
	Min    float64
	Max    float64
}

// Describe summarizes xs, skipping NaN entries (replications where the metric
// was undefined). All fields are NaN when nothing is defined.
func Describe(xs []float64) Description {
	d := Description{Mean: math.NaN(), StdDev: math.NaN(), Min: math.NaN(), Max: math.NaN()}
	sum := 0.0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		if d.N == 0 || x < d.Min {
			d.Min = x
		}
		if d.N == 0 || x > d.Max {
			d.Max = x
		}
		d.N++
		sum += x
	}
	if d.N == 0 {
		return d
	}
	d.Mean = sum / float64(d.N)
	if d.N < 2 {
		return d
	}
	sq := 0.0
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		sq += (x - d.Mean) * (x - d.Mean)
	}
	d.StdDev = math.Sqrt(sq / float64(d.N-1))
	return d
}
