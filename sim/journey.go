// Defines the Journey struct that models one vehicle passing through the plaza.
// Tracks lane class, vehicle type, state, and the timestamps for queue wait and sojourn.

package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plaza-sim/sim/trace"
	"github.com/inference-sim/plaza-sim/sim/variate"
)

// JourneyState represents the lifecycle state of a vehicle journey.
type JourneyState string

const (
	StateArrived   JourneyState = "arrived"
	StateAbandoned JourneyState = "abandoned"
	StateQueued    JourneyState = "queued"
	StateInService JourneyState = "in_service"
	StateDeparted  JourneyState = "departed"
)

// Journey models a single vehicle's lifecycle in the simulation. It is written
// only by its own process. Timestamps not reached yet are NaN.
type Journey struct {
	ID          int64  // Monotonically increasing, assigned at arrival
	Lane        string // Lane class chosen at arrival; never changes
	VehicleType string // Empty when no vehicle types are configured

	State     JourneyState
	Abandoned bool

	ArrivalTime     float64 // Simulated seconds
	QueueEntryTime  float64
	ServiceStart    float64
	ServiceEnd      float64
	ServiceDuration float64 // Sampled duration, after the vehicle-type factor
}

func newJourney(id int64, lane, vehicleType string, now float64) *Journey {
	nan := math.NaN()
	return &Journey{
		ID:              id,
		Lane:            lane,
		VehicleType:     vehicleType,
		State:           StateArrived,
		ArrivalTime:     now,
		QueueEntryTime:  nan,
		ServiceStart:    nan,
		ServiceEnd:      nan,
		ServiceDuration: nan,
	}
}

// QueueWait returns ServiceStart − ArrivalTime, or NaN before service starts.
func (j *Journey) QueueWait() float64 {
	return j.ServiceStart - j.ArrivalTime
}

// SojournTime returns ServiceEnd − ArrivalTime, or NaN before departure.
func (j *Journey) SojournTime() float64 {
	return j.ServiceEnd - j.ArrivalTime
}

// Terminal reports whether the journey has departed or abandoned.
func (j *Journey) Terminal() bool {
	return j.State == StateDeparted || j.State == StateAbandoned
}

// This method returns a human-readable string representation of a Journey.
func (j Journey) String() string {
	return fmt.Sprintf("Journey: (ID: %d, Lane: %s, State: %s, ArrivalTime: %.3f)", j.ID, j.Lane, j.State, j.ArrivalTime)
}

// journeyRun is the process body of one journey. Each method is a Step.
type journeyRun struct {
	sim    *Simulator
	j      *Journey
	lane   *Lane
	factor float64
}

// arrive decides, once, whether the vehicle abandons. Otherwise it joins the
// lane queue.
func (jr *journeyRun) arrive(p *Process) {
	s, j := jr.sim, jr.j
	s.Recorder.recordArrival(j)
	jr.transition(trace.TransitionArrive)
	logrus.Debugf("[t=%9.3f] vehicle %d arrives, lane %s", p.Now(), j.ID, j.Lane)

	if variate.Bernoulli(s.rng.ForSubsystem(SubsystemAbandon), s.Config.AbandonProbability) {
		j.State = StateAbandoned
		j.Abandoned = true
		s.Recorder.recordAbandon(j)
		jr.transition(trace.TransitionAbandon)
		logrus.Debugf("[t=%9.3f] vehicle %d abandons", p.Now(), j.ID)
		return
	}

	j.State = StateQueued
	j.QueueEntryTime = p.Now()
	p.Request(jr.lane.Resource, jr.serve)
	jr.transition(trace.TransitionQueue)
}

// serve runs once a booth is granted.
func (jr *journeyRun) serve(p *Process) {
	s, j := jr.sim, jr.j
	j.State = StateInService
	j.ServiceStart = p.Now()
	j.ServiceDuration = jr.lane.Service.Sample(s.rng.ForSubsystem(SubsystemService(jr.lane.Name))) * jr.factor
	s.Recorder.recordServiceStart(j)
	jr.transition(trace.TransitionServe)
	logrus.Debugf("[t=%9.3f] vehicle %d enters service on %s after %.3fs, service %.3fs",
		p.Now(), j.ID, j.Lane, j.QueueWait(), j.ServiceDuration)
	p.Timeout(j.ServiceDuration, jr.depart)
}

func (jr *journeyRun) depart(p *Process) {
	s, j := jr.sim, jr.j
	j.State = StateDeparted
	j.ServiceEnd = p.Now()
	p.Release(jr.lane.Resource)
	s.Recorder.recordDeparture(j)
	jr.transition(trace.TransitionDepart)
	logrus.Debugf("[t=%9.3f] vehicle %d departs %s, sojourn %.3fs", p.Now(), j.ID, j.Lane, j.SojournTime())
}

func (jr *journeyRun) transition(tr trace.Transition) {
	if !jr.sim.Trace.Enabled() {
		return
	}
	jr.sim.Trace.RecordTransition(trace.TransitionRecord{
		Clock:      jr.sim.Clock.Now(),
		JourneyID:  jr.j.ID,
		Lane:       jr.j.Lane,
		Transition: tr,
		QueueLen:   jr.lane.Resource.QueueLen(),
	})
}
