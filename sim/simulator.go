package sim

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plaza-sim/sim/trace"
	"github.com/inference-sim/plaza-sim/sim/variate"
)

// Lane is one lane class at run time: its booths and service distribution.
type Lane struct {
	Name     string
	Resource *Resource
	Service  variate.Sampler
}

// Simulator is the run context. It owns the clock, the lanes, the recorder,
// the RNG streams and the trace of exactly one run; nothing is shared between
// simulators, so independent runs may execute on different goroutines.
type Simulator struct {
	ID       string // unique per run, used to label exported metrics
	Config   PlazaConfig
	Clock    *Clock
	Recorder *Recorder
	Trace    *trace.SimulationTrace

	rng          *PartitionedRNG
	lanes        []*Lane
	laneChoice   *variate.Categorical
	vehicleTypes []VehicleTypeConfig
	typeChoice   *variate.Categorical

	nextJourneyID int64
	nextProcessID int64
	ran           bool
}

// Result is everything a run produced.
type Result struct {
	RunID      string
	Seed       int64
	Horizon    float64
	Recorder   *Recorder
	Statistics *RunStatistics
	Trace      *trace.SimulationTrace
}

// NewSimulator validates cfg and builds a simulator ready to Run. Every
// configuration error is reported here, before the clock starts.
func NewSimulator(cfg PlazaConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plaza config: %w", err)
	}
	s := &Simulator{
		ID:           xid.New().String(),
		Config:       cfg,
		Clock:        NewClock(),
		Recorder:     NewRecorder(),
		Trace:        trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevel(cfg.Trace)}),
		rng:          NewPartitionedRNG(NewSimulationKey(cfg.Seed)),
		vehicleTypes: cfg.VehicleTypes,
	}

	shares := make([]float64, len(cfg.Lanes))
	for i, lc := range cfg.Lanes {
		res, err := NewResource(s.Clock, lc.Name, lc.Booths)
		if err != nil {
			return nil, err
		}
		sampler, err := variate.NewSampler(lc.Service)
		if err != nil {
			return nil, fmt.Errorf("lane %q: %w", lc.Name, err)
		}
		s.Recorder.Watch(res)
		s.lanes = append(s.lanes, &Lane{Name: lc.Name, Resource: res, Service: sampler})
		shares[i] = lc.Share
	}
	var err error
	if s.laneChoice, err = variate.NewCategorical(shares); err != nil {
		return nil, fmt.Errorf("lane shares: %w", err)
	}
	if len(cfg.VehicleTypes) > 0 {
		weights := make([]float64, len(cfg.VehicleTypes))
		for i, v := range cfg.VehicleTypes {
			weights[i] = v.Share
		}
		if s.typeChoice, err = variate.NewCategorical(weights); err != nil {
			return nil, fmt.Errorf("vehicle type shares: %w", err)
		}
	}

	s.warnOfferedLoad()
	return s, nil
}

// warnOfferedLoad flags lanes whose offered load reaches their booth count;
// their queues grow without bound and steady-state figures are meaningless.
func (s *Simulator) warnOfferedLoad() {
	rate := s.Config.EffectiveArrivalRate()
	if rate == 0 {
		return
	}
	factor := 1.0
	if len(s.vehicleTypes) > 0 {
		weighted, total := 0.0, 0.0
		for _, v := range s.vehicleTypes {
			weighted += v.Share * v.ServiceFactor
			total += v.Share
		}
		factor = weighted / total
	}
	shareTotal := 0.0
	for _, lc := range s.Config.Lanes {
		shareTotal += lc.Share
	}
	for _, lc := range s.Config.Lanes {
		load := rate * lc.Share / shareTotal * variate.MeanOf(lc.Service) * factor
		if load >= float64(lc.Booths) {
			logrus.Warnf("lane %s: offered load %.2f erlangs >= %d booths; its queue will grow without bound",
				lc.Name, load, lc.Booths)
		}
	}
}

// Lanes returns the lanes in configuration order.
func (s *Simulator) Lanes() []*Lane {
	return s.lanes
}

// Lane returns the named lane, or nil.
func (s *Simulator) Lane(name string) *Lane {
	for _, l := range s.lanes {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// SetServiceSampler replaces the service distribution of the named lane.
// Must be called before Run.
func (s *Simulator) SetServiceSampler(lane string, sampler variate.Sampler) error {
	l := s.Lane(lane)
	if l == nil {
		return fmt.Errorf("unknown lane %q", lane)
	}
	l.Service = sampler
	return nil
}

// Spawn creates a process and schedules its first step at the current time.
func (s *Simulator) Spawn(name string, start Step) *Process {
	s.nextProcessID++
	p := NewProcess(s.Clock, s.nextProcessID, name)
	p.Start(start)
	return p
}

// InjectArrival schedules one vehicle to arrive on the named lane at absolute
// time at, bypassing the lane choice. Its vehicle type is still drawn.
func (s *Simulator) InjectArrival(at float64, lane string) error {
	l := s.Lane(lane)
	if l == nil {
		return fmt.Errorf("unknown lane %q", lane)
	}
	if at < s.Clock.Now() {
		return fmt.Errorf("arrival at %g is before the current time %g", at, s.Clock.Now())
	}
	s.Clock.Schedule(at-s.Clock.Now(), func() {
		s.spawnJourney(l, s.pickVehicleType())
	})
	return nil
}

func (s *Simulator) pickLane() *Lane {
	return s.lanes[s.laneChoice.Pick(s.rng.ForSubsystem(SubsystemLaneChoice))]
}

func (s *Simulator) pickVehicleType() VehicleTypeConfig {
	if s.typeChoice == nil {
		return VehicleTypeConfig{ServiceFactor: 1}
	}
	return s.vehicleTypes[s.typeChoice.Pick(s.rng.ForSubsystem(SubsystemVehicleType))]
}

func (s *Simulator) spawnJourney(lane *Lane, vt VehicleTypeConfig) *Journey {
	s.nextJourneyID++
	j := newJourney(s.nextJourneyID, lane.Name, vt.Name, s.Clock.Now())
	jr := &journeyRun{sim: s, j: j, lane: lane, factor: vt.ServiceFactor}
	s.Spawn("vehicle", jr.arrive)
	return j
}

// Run executes the simulation up to the configured horizon and summarizes it.
// A Simulator runs once.
func (s *Simulator) Run() *Result {
	if s.ran {
		panic(fmt.Sprintf("simulator %s: Run called twice", s.ID))
	}
	s.ran = true

	if rate := s.Config.EffectiveArrivalRate(); rate > 0 {
		gen := &arrivalGenerator{sim: s, rate: rate}
		s.Spawn("arrivals", gen.wait)
	}
	if s.Config.SampleInterval > 0 {
		qs := &queueSampler{sim: s, interval: s.Config.SampleInterval}
		s.Spawn("sampler", qs.sample)
	}

	logrus.Infof("[run %s] starting: seed %d, horizon %.0fs, %.1f vehicles/h, %d lanes",
		s.ID, s.Config.Seed, s.Config.Horizon, s.Config.EffectiveArrivalRate()*3600, len(s.lanes))
	s.Clock.Run(s.Config.Horizon)

	st := Summarize(s.Recorder, s.lanes, s.Config.Horizon)
	st.EventsExecuted = s.Clock.Executed()
	logrus.Infof("[run %s] ended at t=%.3f: %d arrivals, %d served, %d abandoned, %d in flight",
		s.ID, s.Clock.Now(), st.Plaza.Arrivals, st.Plaza.Served, st.Plaza.Abandoned, st.Plaza.InFlight)

	return &Result{
		RunID:      s.ID,
		Seed:       s.Config.Seed,
		Horizon:    s.Config.Horizon,
		Recorder:   s.Recorder,
		Statistics: st,
		Trace:      s.Trace,
	}
}
