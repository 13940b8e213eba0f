package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/plaza-sim/sim/trace"
	"github.com/inference-sim/plaza-sim/sim/variate"
)

// TrafficPresets maps preset names to arrival rates in vehicles per hour.
var TrafficPresets = map[string]float64{
	"light":    300,
	"moderate": 600,
	"heavy":    1200,
}

// TrafficPresetNames returns the preset names, sorted.
func TrafficPresetNames() []string {
	names := make([]string, 0, len(TrafficPresets))
	for k := range TrafficPresets {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LaneConfig describes one lane class: a group of identical booths sharing a
// FIFO queue.
type LaneConfig struct {
	Name    string           `yaml:"name"`
	Booths  int              `yaml:"booths"`
	Share   float64          `yaml:"share"` // relative weight of the lane choice
	Service variate.DistSpec `yaml:"service"`
}

// VehicleTypeConfig describes a vehicle type. ServiceFactor scales every
// service duration drawn for vehicles of this type.
type VehicleTypeConfig struct {
	Name          string  `yaml:"name"`
	Share         float64 `yaml:"share"`
	ServiceFactor float64 `yaml:"service_factor"`
}

// PlazaConfig is the full run configuration. It is read once before the run
// and never mutated afterwards.
// All top-level fields must be listed to satisfy KnownFields(true) strict parsing.
type PlazaConfig struct {
	Horizon            float64             `yaml:"horizon"`      // simulated seconds
	ArrivalRate        float64             `yaml:"arrival_rate"` // vehicles/hour; 0 with no traffic preset disables the generator
	Traffic            string              `yaml:"traffic,omitempty"`
	AbandonProbability float64             `yaml:"abandon_probability"`
	SampleInterval     float64             `yaml:"sample_interval"` // seconds; 0 disables periodic sampling
	Seed               int64               `yaml:"seed"`
	Trace              string              `yaml:"trace,omitempty"`
	Lanes              []LaneConfig        `yaml:"lanes"`
	VehicleTypes       []VehicleTypeConfig `yaml:"vehicle_types,omitempty"`
}

// DefaultPlazaConfig returns the reference plaza: three manual booths, one
// automatic booth, moderate traffic over one hour.
func DefaultPlazaConfig() PlazaConfig {
	return PlazaConfig{
		Horizon:            3600,
		Traffic:            "moderate",
		AbandonProbability: 0.02,
		SampleInterval:     1,
		Seed:               42,
		Trace:              string(trace.TraceLevelNone),
		Lanes: []LaneConfig{
			{
				Name:    "manual",
				Booths:  3,
				Share:   0.9,
				Service: variate.DistSpec{Type: "uniform", Params: map[string]float64{"min": 10, "max": 30}},
			},
			{
				Name:    "automatic",
				Booths:  1,
				Share:   0.1,
				Service: variate.DistSpec{Type: "uniform", Params: map[string]float64{"min": 5, "max": 10}},
			},
		},
	}
}

// EffectiveArrivalRate returns the arrival rate in vehicles per second. An
// explicit arrival_rate wins over the traffic preset.
func (c *PlazaConfig) EffectiveArrivalRate() float64 {
	if c.ArrivalRate > 0 {
		return c.ArrivalRate / 3600
	}
	if perHour, ok := TrafficPresets[c.Traffic]; ok {
		return perHour / 3600
	}
	return 0
}

// Validate checks every field. Errors name the offending field.
func (c *PlazaConfig) Validate() error {
	if err := validateFinitePositive("horizon", c.Horizon); err != nil {
		return err
	}
	if math.IsNaN(c.ArrivalRate) || math.IsInf(c.ArrivalRate, 0) || c.ArrivalRate < 0 {
		return fmt.Errorf("arrival_rate must be a finite non-negative number, got %f", c.ArrivalRate)
	}
	if c.Traffic != "" {
		if _, ok := TrafficPresets[c.Traffic]; !ok {
			return fmt.Errorf("unknown traffic preset %q; valid: %v", c.Traffic, TrafficPresetNames())
		}
	}
	if math.IsNaN(c.AbandonProbability) || c.AbandonProbability < 0 || c.AbandonProbability > 1 {
		return fmt.Errorf("abandon_probability must be in [0, 1], got %f", c.AbandonProbability)
	}
	if math.IsNaN(c.SampleInterval) || math.IsInf(c.SampleInterval, 0) || c.SampleInterval < 0 {
		return fmt.Errorf("sample_interval must be a finite non-negative number, got %f", c.SampleInterval)
	}
	if !trace.IsValidTraceLevel(c.Trace) {
		return fmt.Errorf("unknown trace level %q; valid: none, transitions", c.Trace)
	}
	if len(c.Lanes) == 0 {
		return fmt.Errorf("at least one lane required")
	}
	seen := make(map[string]bool)
	shareSum := 0.0
	for i, l := range c.Lanes {
		if err := validateLane(&l, i); err != nil {
			return err
		}
		if seen[l.Name] {
			return fmt.Errorf("lanes[%d]: duplicate lane name %q", i, l.Name)
		}
		seen[l.Name] = true
		shareSum += l.Share
	}
	if shareSum <= 0 {
		return fmt.Errorf("lane shares must not all be zero")
	}
	seen = make(map[string]bool)
	shareSum = 0
	for i, v := range c.VehicleTypes {
		prefix := fmt.Sprintf("vehicle_types[%d]", i)
		if v.Name == "" {
			return fmt.Errorf("%s: name required", prefix)
		}
		if seen[v.Name] {
			return fmt.Errorf("%s: duplicate vehicle type %q", prefix, v.Name)
		}
		seen[v.Name] = true
		if err := validateFiniteNonNegative(prefix+".share", v.Share); err != nil {
			return err
		}
		if err := validateFinitePositive(prefix+".service_factor", v.ServiceFactor); err != nil {
			return err
		}
		shareSum += v.Share
	}
	if len(c.VehicleTypes) > 0 && shareSum <= 0 {
		return fmt.Errorf("vehicle type shares must not all be zero")
	}
	return nil
}

func validateLane(l *LaneConfig, idx int) error {
	prefix := fmt.Sprintf("lanes[%d]", idx)
	if l.Name == "" {
		return fmt.Errorf("%s: name required", prefix)
	}
	if l.Booths <= 0 {
		return fmt.Errorf("%s: booths must be positive, got %d", prefix, l.Booths)
	}
	if err := validateFiniteNonNegative(prefix+".share", l.Share); err != nil {
		return err
	}
	if _, err := variate.NewSampler(l.Service); err != nil {
		return fmt.Errorf("%s.service: %w", prefix, err)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) || val < 0 {
		return fmt.Errorf("%s must be a finite non-negative number, got %f", name, val)
	}
	return nil
}

// LoadPlazaConfig reads and parses a YAML plaza configuration file. Fields
// absent from the file keep their DefaultPlazaConfig values.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadPlazaConfig(path string) (*PlazaConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plaza config: %w", err)
	}
	return ParsePlazaConfig(data)
}

// ParsePlazaConfig parses YAML bytes the way LoadPlazaConfig does.
func ParsePlazaConfig(data []byte) (*PlazaConfig, error) {
	cfg := DefaultPlazaConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing plaza config: %w", err)
	}
	return &cfg, nil
}
