package trace

import "sort"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTransitions int
	UniqueJourneys   int
	ByTransition     map[Transition]int
	ByLane           map[string]int // lane → journeys that arrived on it
	MaxQueueLen      map[string]int // lane → longest queue seen in a record
	FirstClock       float64
	LastClock        float64
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		ByTransition: make(map[Transition]int),
		ByLane:       make(map[string]int),
		MaxQueueLen:  make(map[string]int),
	}
	if st == nil || len(st.Transitions) == 0 {
		return summary
	}

	journeys := make(map[int64]struct{})
	summary.TotalTransitions = len(st.Transitions)
	summary.FirstClock = st.Transitions[0].Clock
	for _, r := range st.Transitions {
		summary.ByTransition[r.Transition]++
		journeys[r.JourneyID] = struct{}{}
		if r.Transition == TransitionArrive {
			summary.ByLane[r.Lane]++
		}
		if r.QueueLen > summary.MaxQueueLen[r.Lane] {
			summary.MaxQueueLen[r.Lane] = r.QueueLen
		}
		if r.Clock > summary.LastClock {
			summary.LastClock = r.Clock
		}
	}
	summary.UniqueJourneys = len(journeys)

	return summary
}

// Lanes returns the lanes seen in the summary, sorted.
func (s *TraceSummary) Lanes() []string {
	lanes := make([]string, 0, len(s.ByLane))
	for lane := range s.ByLane {
		lanes = append(lanes, lane)
	}
	sort.Strings(lanes)
	return lanes
}
