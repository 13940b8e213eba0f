package variate

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Categorical picks an index with probability proportional to its weight,
// using inverse CDF via binary search.
type Categorical struct {
	cdf []float64
}

// NewCategorical normalizes weights into a cumulative distribution.
// Weights must be finite and non-negative with a positive sum.
func NewCategorical(weights []float64) (*Categorical, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("categorical distribution needs at least one weight")
	}
	total := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("weight[%d] must be finite and non-negative, got %g", i, w)
		}
		total += w
	}
	if total <= 0 {
		return nil, fmt.Errorf("categorical weights must sum to a positive value")
	}
	cdf := make([]float64, len(weights))
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w / total
		cdf[i] = cumulative
	}
	// Ensure last CDF entry is exactly 1.0
	cdf[len(cdf)-1] = 1.0
	return &Categorical{cdf: cdf}, nil
}

// Pick returns an index in [0, len(weights)).
func (c *Categorical) Pick(rng *rand.Rand) int {
	if len(c.cdf) == 1 {
		return 0
	}
	u := rng.Float64()
	// First cdf strictly above u, so zero-weight buckets are never picked.
	idx := sort.Search(len(c.cdf), func(i int) bool { return c.cdf[i] > u })
	if idx >= len(c.cdf) {
		idx = len(c.cdf) - 1
	}
	return idx
}

// Len returns the number of categories.
func (c *Categorical) Len() int {
	return len(c.cdf)
}

// Bernoulli returns true with probability p. The degenerate cases p <= 0 and
// p >= 1 do not consume a draw.
func Bernoulli(rng *rand.Rand, p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return rng.Float64() < p
}

// Exponential returns an exponentially-distributed gap for a Poisson process
// with the given rate (events per second).
func Exponential(rng *rand.Rand, rate float64) float64 {
	return rng.ExpFloat64() / rate
}
