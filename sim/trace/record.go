// Package trace provides transition recording for toll-plaza runs.
// This package has no dependencies on sim/. It stores pure data types.
package trace

// Transition names a journey state change.
type Transition string

const (
	TransitionArrive  Transition = "arrive"
	TransitionAbandon Transition = "abandon"
	TransitionQueue   Transition = "queue"
	TransitionServe   Transition = "serve"
	TransitionDepart  Transition = "depart"
)

// TransitionRecord captures one journey state change.
type TransitionRecord struct {
	Clock      float64 // simulated seconds
	JourneyID  int64
	Lane       string
	Transition Transition
	QueueLen   int // waiting vehicles on the lane right after the transition
}
