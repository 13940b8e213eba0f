package sim

import (
	"testing"

	"github.com/inference-sim/plaza-sim/sim/trace"
	"github.com/inference-sim/plaza-sim/sim/variate"
)

// constantService returns a DistSpec that always yields d seconds.
func constantService(d float64) variate.DistSpec {
	return variate.DistSpec{Type: "constant", Params: map[string]float64{"value": d}}
}

// singleBoothConfig is a one-lane, one-booth plaza with constant service,
// no generator, no abandonment and no periodic sampling. Tests inject
// arrivals explicitly.
func singleBoothConfig(horizon, service float64) PlazaConfig {
	return PlazaConfig{
		Horizon: horizon,
		Seed:    1,
		Trace:   string(trace.TraceLevelTransitions),
		Lanes: []LaneConfig{
			{Name: "booth", Booths: 1, Share: 1, Service: constantService(service)},
		},
	}
}

func mustSimulator(t testing.TB, cfg PlazaConfig) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	return s
}

func mustInject(t testing.TB, s *Simulator, at float64, lane string) {
	t.Helper()
	if err := s.InjectArrival(at, lane); err != nil {
		t.Fatalf("InjectArrival(%g, %s): %v", at, lane, err)
	}
}
