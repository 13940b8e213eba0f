package sim

import (
	"github.com/inference-sim/plaza-sim/sim/stats"
)

// QueueSample is the queue length of one lane at one instant.
type QueueSample struct {
	Time     float64
	Resource string
	Length   int
}

// OccupancySample is the number of busy booths of one lane at one instant.
type OccupancySample struct {
	Time     float64
	Resource string
	Held     int
}

// Interval is a closed busy period [Start, End] of one booth.
type Interval struct {
	Start float64
	End   float64
}

// Recorder collects the raw observations of one run. It is registered as a
// Hook on every lane resource, so queue-length and occupancy samples are taken
// on each transition rather than by polling. Samples are appended in
// execution order, which makes them time-ordered across all lanes.
type Recorder struct {
	Arrivals        []float64 // arrival timestamps, all vehicles
	Departures      []float64 // departure timestamps, served vehicles
	QueueSamples    []QueueSample
	PeriodicSamples []QueueSample
	Occupancy       []OccupancySample
	BusyIntervals   map[string][]Interval // lane → service periods
	Journeys        []*Journey            // every journey, by ID
	Abandoned       int
	InService       int // vehicles currently in service
	PeakInService   int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		BusyIntervals: make(map[string][]Interval),
	}
}

// Watch registers the recorder on r and seeds both series with r's state at
// the current time.
func (rec *Recorder) Watch(r *Resource) {
	r.AcceptHook(rec)
	now := r.clock.Now()
	rec.QueueSamples = append(rec.QueueSamples, QueueSample{Time: now, Resource: r.ID, Length: r.QueueLen()})
	rec.Occupancy = append(rec.Occupancy, OccupancySample{Time: now, Resource: r.ID, Held: r.Held()})
}

// Func implements Hook.
func (rec *Recorder) Func(ctx HookCtx) {
	r, ok := ctx.Domain.(*Resource)
	if !ok {
		return
	}
	st := ctx.Detail.(ResourceState)
	switch ctx.Pos {
	case HookPosEnqueue, HookPosWithdraw:
		rec.QueueSamples = append(rec.QueueSamples, QueueSample{Time: ctx.Now, Resource: r.ID, Length: st.QueueLen})
	case HookPosRelease:
		rec.Occupancy = append(rec.Occupancy, OccupancySample{Time: ctx.Now, Resource: r.ID, Held: st.Held})
	case HookPosGrant:
		rec.QueueSamples = append(rec.QueueSamples, QueueSample{Time: ctx.Now, Resource: r.ID, Length: st.QueueLen})
		rec.Occupancy = append(rec.Occupancy, OccupancySample{Time: ctx.Now, Resource: r.ID, Held: st.Held})
	}
}

func (rec *Recorder) recordArrival(j *Journey) {
	rec.Arrivals = append(rec.Arrivals, j.ArrivalTime)
	rec.Journeys = append(rec.Journeys, j)
}

func (rec *Recorder) recordAbandon(_ *Journey) {
	rec.Abandoned++
}

func (rec *Recorder) recordServiceStart(_ *Journey) {
	rec.InService++
	rec.PeakInService = max(rec.PeakInService, rec.InService)
}

func (rec *Recorder) recordDeparture(j *Journey) {
	rec.InService--
	rec.Departures = append(rec.Departures, j.ServiceEnd)
	rec.BusyIntervals[j.Lane] = append(rec.BusyIntervals[j.Lane], Interval{Start: j.ServiceStart, End: j.ServiceEnd})
}

// QueueSeries returns the transition-driven queue-length series of one lane.
func (rec *Recorder) QueueSeries(lane string) []stats.Point {
	var pts []stats.Point
	for _, s := range rec.QueueSamples {
		if s.Resource == lane {
			pts = append(pts, stats.Point{Time: s.Time, Value: float64(s.Length)})
		}
	}
	return pts
}

// OccupancySeries returns the busy-booth series of one lane.
func (rec *Recorder) OccupancySeries(lane string) []stats.Point {
	var pts []stats.Point
	for _, s := range rec.Occupancy {
		if s.Resource == lane {
			pts = append(pts, stats.Point{Time: s.Time, Value: float64(s.Held)})
		}
	}
	return pts
}

// TotalQueueSeries returns the plaza-wide queue length (summed over lanes).
func (rec *Recorder) TotalQueueSeries() []stats.Point {
	current := make(map[string]int)
	total := 0
	pts := make([]stats.Point, 0, len(rec.QueueSamples))
	for _, s := range rec.QueueSamples {
		total += s.Length - current[s.Resource]
		current[s.Resource] = s.Length
		pts = append(pts, stats.Point{Time: s.Time, Value: float64(total)})
	}
	return pts
}

// TotalOccupancySeries returns the plaza-wide busy-booth count.
func (rec *Recorder) TotalOccupancySeries() []stats.Point {
	current := make(map[string]int)
	total := 0
	pts := make([]stats.Point, 0, len(rec.Occupancy))
	for _, s := range rec.Occupancy {
		total += s.Held - current[s.Resource]
		current[s.Resource] = s.Held
		pts = append(pts, stats.Point{Time: s.Time, Value: float64(total)})
	}
	return pts
}

// PeriodicSeries returns the fixed-interval samples of one lane.
func (rec *Recorder) PeriodicSeries(lane string) []stats.Point {
	var pts []stats.Point
	for _, s := range rec.PeriodicSamples {
		if s.Resource == lane {
			pts = append(pts, stats.Point{Time: s.Time, Value: float64(s.Length)})
		}
	}
	return pts
}

// AlignedTimestamps returns arrivals and departures padded with NaN to equal
// length.
func (rec *Recorder) AlignedTimestamps() (arrivals, departures []float64) {
	return stats.Align(rec.Arrivals, rec.Departures)
}
