// Package variate supplies the random-variate draws the plaza engine consumes:
// service durations, inter-arrival gaps, lane and vehicle-type picks, and the
// abandonment coin. The engine treats every sampler as an opaque numeric source.
package variate

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Sampler draws a non-negative duration in seconds.
type Sampler interface {
	Sample(rng *rand.Rand) float64
}

// DistSpec parameterizes a duration distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// UniformSampler draws uniformly from [min, max).
type UniformSampler struct {
	min, max float64
}

func (s *UniformSampler) Sample(rng *rand.Rand) float64 {
	return s.min + rng.Float64()*(s.max-s.min)
}

// ExponentialSampler draws exponentially-distributed durations with the given mean.
type ExponentialSampler struct {
	mean float64
}

func (s *ExponentialSampler) Sample(rng *rand.Rand) float64 {
	return rng.ExpFloat64() * s.mean
}

// NormalSampler draws Gaussian durations clamped at zero.
type NormalSampler struct {
	mean, stdDev float64
}

func (s *NormalSampler) Sample(rng *rand.Rand) float64 {
	return math.Max(0, rng.NormFloat64()*s.stdDev+s.mean)
}

// ConstantSampler always returns the same duration.
type ConstantSampler struct {
	value float64
}

func (s *ConstantSampler) Sample(_ *rand.Rand) float64 {
	return s.value
}

// NewConstant returns a sampler fixed at v.
func NewConstant(v float64) *ConstantSampler {
	return &ConstantSampler{value: v}
}

// Valid distribution types.
var validDistTypes = map[string]bool{
	"uniform": true, "exponential": true, "normal": true, "constant": true,
}

// ValidDistTypes returns the accepted distribution type names, sorted.
func ValidDistTypes() []string {
	names := make([]string, 0, len(validDistTypes))
	for k := range validDistTypes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// NewSampler builds a Sampler from spec. Parameters are validated here so a
// bad DistSpec fails before the simulation clock starts.
func NewSampler(spec DistSpec) (Sampler, error) {
	switch spec.Type {
	case "uniform":
		if err := requireParam(spec.Params, "min", "max"); err != nil {
			return nil, err
		}
		lo, hi := spec.Params["min"], spec.Params["max"]
		if err := validateNonNegative("min", lo); err != nil {
			return nil, err
		}
		if hi < lo || math.IsInf(hi, 0) || math.IsNaN(hi) {
			return nil, fmt.Errorf("uniform max must be finite and >= min (%g), got %g", lo, hi)
		}
		return &UniformSampler{min: lo, max: hi}, nil

	case "exponential":
		if err := requireParam(spec.Params, "mean"); err != nil {
			return nil, err
		}
		if err := validateNonNegative("mean", spec.Params["mean"]); err != nil {
			return nil, err
		}
		return &ExponentialSampler{mean: spec.Params["mean"]}, nil

	case "normal":
		if err := requireParam(spec.Params, "mean", "std_dev"); err != nil {
			return nil, err
		}
		if err := validateNonNegative("mean", spec.Params["mean"]); err != nil {
			return nil, err
		}
		if err := validateNonNegative("std_dev", spec.Params["std_dev"]); err != nil {
			return nil, err
		}
		return &NormalSampler{mean: spec.Params["mean"], stdDev: spec.Params["std_dev"]}, nil

	case "constant":
		if err := requireParam(spec.Params, "value"); err != nil {
			return nil, err
		}
		if err := validateNonNegative("value", spec.Params["value"]); err != nil {
			return nil, err
		}
		return &ConstantSampler{value: spec.Params["value"]}, nil

	default:
		return nil, fmt.Errorf("unknown distribution type %q; valid: %v", spec.Type, ValidDistTypes())
	}
}

func requireParam(params map[string]float64, names ...string) error {
	for _, name := range names {
		if _, ok := params[name]; !ok {
			return fmt.Errorf("missing required parameter %q", name)
		}
	}
	return nil
}

func validateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%s must be a finite non-negative number, got %g", name, v)
	}
	return nil
}

// MeanOf returns the expected value of a valid DistSpec, before clamping. Used
// for offered-load estimates.
func MeanOf(spec DistSpec) float64 {
	switch spec.Type {
	case "uniform":
		return (spec.Params["min"] + spec.Params["max"]) / 2
	case "exponential", "normal":
		return spec.Params["mean"]
	case "constant":
		return spec.Params["value"]
	default:
		return math.NaN()
	}
}
