// Derives the end-of-run summary from a Recorder: waits, sojourns,
// time-weighted queue lengths, utilization and abandonment, per lane and for
// the plaza as a whole.

package sim

import (
	"fmt"
	"io"
	"math"

	"github.com/inference-sim/plaza-sim/sim/stats"
)

// PlazaLane is the name under which plaza-wide figures are reported.
const PlazaLane = "plaza"

// LaneStatistics aggregates one lane class (or the whole plaza). Undefined
// figures are NaN.
type LaneStatistics struct {
	Lane   string
	Booths int

	Arrivals    int
	Served      int // departed before the horizon
	Abandoned   int
	InFlight    int // queued or in service at the horizon
	AbandonRate float64

	MeanQueueWait float64 // seconds, served vehicles only
	P50QueueWait  float64
	P95QueueWait  float64
	MeanSojourn   float64 // seconds, served vehicles only

	MeanQueueLength float64 // time-weighted over [0, horizon]
	MaxQueueLength  int

	// Utilization is the fraction of the horizon during which at least one
	// booth was busy.
	Utilization float64
	// SlotUtilization is busy booth-seconds over booths·horizon.
	SlotUtilization float64
	// QueueNonEmptyFraction is the fraction of the horizon with at least one
	// vehicle waiting.
	QueueNonEmptyFraction float64
}

// RunStatistics is the read-only summary of one run.
type RunStatistics struct {
	Horizon        float64
	EventsExecuted uint64
	InService      int // vehicles in service at the horizon
	PeakInService  int
	Plaza          LaneStatistics
	Lanes          []LaneStatistics // in configuration order
}

// Lane returns the statistics of the named lane, or nil.
func (rs *RunStatistics) Lane(name string) *LaneStatistics {
	for i := range rs.Lanes {
		if rs.Lanes[i].Lane == name {
			return &rs.Lanes[i]
		}
	}
	return nil
}

// Summarize computes RunStatistics from rec. lanes gives each lane's name and
// booth count, in reporting order.
func Summarize(rec *Recorder, lanes []*Lane, horizon float64) *RunStatistics {
	rs := &RunStatistics{
		Horizon:       horizon,
		InService:     rec.InService,
		PeakInService: rec.PeakInService,
	}
	totalBooths := 0
	for _, l := range lanes {
		totalBooths += l.Resource.Capacity()
		ls := summarizeJourneys(rec.Journeys, func(j *Journey) bool { return j.Lane == l.Name })
		ls.Lane = l.Name
		ls.Booths = l.Resource.Capacity()
		fillSeries(&ls, rec.QueueSeries(l.Name), rec.OccupancySeries(l.Name), horizon)
		rs.Lanes = append(rs.Lanes, ls)
	}
	rs.Plaza = summarizeJourneys(rec.Journeys, func(*Journey) bool { return true })
	rs.Plaza.Lane = PlazaLane
	rs.Plaza.Booths = totalBooths
	fillSeries(&rs.Plaza, rec.TotalQueueSeries(), rec.TotalOccupancySeries(), horizon)
	return rs
}

func summarizeJourneys(journeys []*Journey, include func(*Journey) bool) LaneStatistics {
	var ls LaneStatistics
	var waits, sojourns []float64
	for _, j := range journeys {
		if !include(j) {
			continue
		}
		ls.Arrivals++
		switch j.State {
		case StateAbandoned:
			ls.Abandoned++
		case StateDeparted:
			ls.Served++
			waits = append(waits, j.QueueWait())
			sojourns = append(sojourns, j.SojournTime())
		default:
			ls.InFlight++
		}
	}
	ls.AbandonRate = math.NaN()
	if ls.Arrivals > 0 {
		ls.AbandonRate = float64(ls.Abandoned) / float64(ls.Arrivals)
	}
	ls.MeanQueueWait = stats.Mean(waits)
	ls.P50QueueWait = stats.Percentile(waits, 50)
	ls.P95QueueWait = stats.Percentile(waits, 95)
	ls.MeanSojourn = stats.Mean(sojourns)
	return ls
}

func fillSeries(ls *LaneStatistics, queue, occupancy []stats.Point, horizon float64) {
	ls.MeanQueueLength = stats.TimeWeightedMean(stats.CloseAt(queue, horizon))
	for _, p := range queue {
		ls.MaxQueueLength = max(ls.MaxQueueLength, int(p.Value))
	}
	ls.QueueNonEmptyFraction = stats.Utilization(queue, horizon)
	ls.Utilization = stats.Utilization(occupancy, horizon)
	ls.SlotUtilization = math.NaN()
	if ls.Booths > 0 && horizon > 0 {
		ls.SlotUtilization = stats.Area(occupancy, horizon) / (float64(ls.Booths) * horizon)
	}
}

// Print writes the summary in a fixed human-readable layout. Undefined values
// print as n/a.
func (rs *RunStatistics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Horizon              : %.0f s\n", rs.Horizon)
	fmt.Fprintf(w, "Events Executed      : %d\n", rs.EventsExecuted)
	fmt.Fprintf(w, "In Service At End    : %d (peak %d)\n", rs.InService, rs.PeakInService)
	for _, ls := range append([]LaneStatistics{rs.Plaza}, rs.Lanes...) {
		fmt.Fprintf(w, "--- %s (%d booths) ---\n", ls.Lane, ls.Booths)
		fmt.Fprintf(w, "Arrivals             : %d\n", ls.Arrivals)
		fmt.Fprintf(w, "Served               : %d\n", ls.Served)
		fmt.Fprintf(w, "Abandoned            : %d (%s)\n", ls.Abandoned, percent(ls.AbandonRate))
		fmt.Fprintf(w, "In Flight            : %d\n", ls.InFlight)
		fmt.Fprintf(w, "Mean Queue Wait      : %s\n", seconds(ls.MeanQueueWait))
		fmt.Fprintf(w, "P50 / P95 Queue Wait : %s / %s\n", seconds(ls.P50QueueWait), seconds(ls.P95QueueWait))
		fmt.Fprintf(w, "Mean Sojourn         : %s\n", seconds(ls.MeanSojourn))
		fmt.Fprintf(w, "Mean Queue Length    : %s (max %d)\n", number(ls.MeanQueueLength), ls.MaxQueueLength)
		fmt.Fprintf(w, "Utilization          : %s\n", percent(ls.Utilization))
		fmt.Fprintf(w, "Slot Utilization     : %s\n", percent(ls.SlotUtilization))
		fmt.Fprintf(w, "Queue Non-Empty      : %s\n", percent(ls.QueueNonEmptyFraction))
	}
}

func seconds(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f s", v)
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func number(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}
