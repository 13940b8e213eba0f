package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTimeWeightedMean_SyntheticQueue(t *testing.T) {
	// GIVEN queue length samples (0,0),(2,1),(5,0),(10,0)
	points := []Point{{0, 0}, {2, 1}, {5, 0}, {10, 0}}

	// WHEN the time-weighted mean is computed
	got := TimeWeightedMean(points)

	// THEN it equals (0×2 + 1×3 + 0×5) / 10
	assert.InDelta(t, 0.3, got, 1e-12)
}

func TestTimeWeightedMean_UndefinedInputs(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
	}{
		{"empty", nil},
		{"single point", []Point{{3, 2}}},
		{"zero span", []Point{{4, 1}, {4, 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, math.IsNaN(TimeWeightedMean(tt.points)))
		})
	}
}

func TestCloseAt_ExtendsLastValue(t *testing.T) {
	points := []Point{{0, 0}, {2, 3}}
	closed := CloseAt(points, 10)
	require.Len(t, closed, 3)
	assert.Equal(t, Point{10, 3}, closed[2])
	assert.Len(t, points, 2, "input must not be modified")
	assert.InDelta(t, 2.4, TimeWeightedMean(closed), 1e-12)

	// Already closed series are returned unchanged.
	assert.Equal(t, closed, CloseAt(closed, 10))
	assert.Nil(t, CloseAt(nil, 10))
}

func TestUtilization_ContinuouslyBusy(t *testing.T) {
	// GIVEN a single booth occupied from t=0 to the horizon
	points := []Point{{0, 1}}

	// THEN utilization is 100%
	assert.Equal(t, 1.0, Utilization(points, 100))
}

func TestUtilization_CountsIdleBeforeFirstSample(t *testing.T) {
	// Idle on [0,20), busy [20,50), idle [50,80), busy with 2 slots [80,100]
	points := []Point{{20, 1}, {50, 0}, {80, 2}}
	assert.InDelta(t, 0.5, Utilization(points, 100), 1e-12)
}

func TestUtilization_IgnoresSamplesPastHorizon(t *testing.T) {
	points := []Point{{0, 1}, {50, 0}, {150, 1}}
	assert.InDelta(t, 0.5, Utilization(points, 100), 1e-12)
}

func TestUtilization_Undefined(t *testing.T) {
	assert.True(t, math.IsNaN(Utilization(nil, 100)))
	assert.True(t, math.IsNaN(Utilization([]Point{{0, 1}}, 0)))
}

func TestArea_IntegratesToHorizon(t *testing.T) {
	points := []Point{{0, 0}, {10, 2}, {30, 1}}
	// 0×10 + 2×20 + 1×70
	assert.InDelta(t, 110.0, Area(points, 100), 1e-12)
}

func TestMean_EmptyIsUndefined(t *testing.T) {
	assert.True(t, math.IsNaN(Mean([]float64{})))
	assert.Equal(t, 2.0, Mean([]int{1, 2, 3}))
}

func TestPercentile_Interpolates(t *testing.T) {
	data := []float64{4, 1, 3, 2}
	assert.Equal(t, 1.0, Percentile(data, 0))
	assert.Equal(t, 4.0, Percentile(data, 100))
	assert.InDelta(t, 2.5, Percentile(data, 50), 1e-12)
	assert.Equal(t, []float64{4, 1, 3, 2}, data, "input must not be sorted in place")
	assert.True(t, math.IsNaN(Percentile([]float64{}, 50)))
}

func TestAlign_PadsShorterSequence(t *testing.T) {
	arrivals := []float64{1, 2, 3}
	departures := []float64{5}

	a, d := Align(arrivals, departures)

	require.Len(t, a, 3)
	require.Len(t, d, 3)
	assert.Equal(t, arrivals, a)
	assert.Equal(t, 5.0, d[0])
	assert.True(t, math.IsNaN(d[1]))
	assert.True(t, math.IsNaN(d[2]))
}

func TestDescribe_SkipsUndefined(t *testing.T) {
	d := Describe([]float64{2, math.NaN(), 4})
	assert.Equal(t, 2, d.N)
	assert.Equal(t, 3.0, d.Mean)
	assert.InDelta(t, math.Sqrt2, d.StdDev, 1e-12)
	assert.Equal(t, 2.0, d.Min)
	assert.Equal(t, 4.0, d.Max)

	empty := Describe([]float64{math.NaN()})
	assert.Equal(t, 0, empty.N)
	assert.True(t, math.IsNaN(empty.Mean))

	single := Describe([]float64{7})
	assert.Equal(t, 7.0, single.Mean)
	assert.True(t, math.IsNaN(single.StdDev))
}

// The time-weighted mean of a non-negative step function lies between its
// smallest and largest value.
func TestTimeWeightedMean_BoundedByValues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 30).Draw(t, "n")
		points := make([]Point, n)
		now := 0.0
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := range points {
			now += rapid.Float64Range(0.01, 10).Draw(t, "gap")
			v := float64(rapid.IntRange(0, 20).Draw(t, "len"))
			points[i] = Point{Time: now, Value: v}
			if i < n-1 {
				lo, hi = math.Min(lo, v), math.Max(hi, v)
			}
		}
		got := TimeWeightedMean(points)
		if got < lo-1e-9 || got > hi+1e-9 {
			t.Fatalf("mean %g outside [%g, %g]", got, lo, hi)
		}
	})
}

// Utilization is a fraction of the horizon.
func TestUtilization_InUnitInterval(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		horizon := rapid.Float64Range(1, 1000).Draw(t, "horizon")
		n := rapid.IntRange(1, 30).Draw(t, "n")
		points := make([]Point, n)
		now := 0.0
		for i := range points {
			now += rapid.Float64Range(0, horizon/float64(n)).Draw(t, "gap")
			points[i] = Point{Time: now, Value: float64(rapid.IntRange(0, 3).Draw(t, "held"))}
		}
		u := Utilization(points, horizon)
		if u < -1e-9 || u > 1+1e-9 {
			t.Fatalf("utilization %g outside [0, 1]", u)
		}
	})
}

func TestAlign_PadsShorterWithNaN(t *testing.T) {
	// GIVEN three arrivals and one departure
	arrivals := []float64{1, 2, 3}
	departures := []float64{5}

	// WHEN aligned
	a, d := Align(arrivals, departures)

	// THEN both have length three and the missing departures are NaN
	require.Len(t, a, 3)
	require.Len(t, d, 3)
	assert.Equal(t, arrivals, a)
	assert.Equal(t, 5.0, d[0])
	assert.True(t, math.IsNaN(d[1]))
	assert.True(t, math.IsNaN(d[2]))
}
