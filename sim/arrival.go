package sim

import (
	"github.com/inference-sim/plaza-sim/sim/variate"
)

// arrivalGenerator is the perpetual process that creates vehicles. Gaps are
// exponential, so arrivals form a Poisson process. It never ends on its own:
// the clock stops resuming it at the horizon.
type arrivalGenerator struct {
	sim  *Simulator
	rate float64 // vehicles per second, > 0
}

func (g *arrivalGenerator) wait(p *Process) {
	gap := variate.Exponential(g.sim.rng.ForSubsystem(SubsystemArrivals), g.rate)
	p.Timeout(gap, g.arrive)
}

func (g *arrivalGenerator) arrive(p *Process) {
	s := g.sim
	lane := s.pickLane()
	s.spawnJourney(lane, s.pickVehicleType())
	g.wait(p)
}
