// Package promexport publishes the summary of plaza runs as Prometheus gauges
// and writes them in the text exposition format, for node_exporter's textfile
// collector or any other scraper of static files.
package promexport

import (
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inference-sim/plaza-sim/sim"
)

var labels = []string{"run_id", "lane"}

// Collector bundles the per-lane run gauges. Every gauge is labeled by run ID
// and lane; plaza-wide figures use lane "plaza".
type Collector struct {
	gatherer prometheus.Gatherer

	Arrivals        *prometheus.GaugeVec
	Served          *prometheus.GaugeVec
	Abandoned       *prometheus.GaugeVec
	InFlight        *prometheus.GaugeVec
	MeanQueueWait   *prometheus.GaugeVec
	MeanSojourn     *prometheus.GaugeVec
	MeanQueueLength *prometheus.GaugeVec
	Utilization     *prometheus.GaugeVec
	SlotUtilization *prometheus.GaugeVec
	HorizonSeconds  *prometheus.GaugeVec
}

// NewCollector registers the plaza gauges against reg, defaulting to the
// global Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	for _, spec := range []struct {
		dst  **prometheus.GaugeVec
		name string
		help string
	}{
		{&c.Arrivals, "plaza_arrivals", "Vehicles that arrived during the run."},
		{&c.Served, "plaza_served", "Vehicles that departed before the horizon."},
		{&c.Abandoned, "plaza_abandoned", "Vehicles that left without joining a queue."},
		{&c.InFlight, "plaza_in_flight", "Vehicles queued or in service at the horizon."},
		{&c.MeanQueueWait, "plaza_queue_wait_seconds_mean", "Mean queue wait of served vehicles."},
		{&c.MeanSojourn, "plaza_sojourn_seconds_mean", "Mean time in system of served vehicles."},
		{&c.MeanQueueLength, "plaza_queue_length_mean", "Time-weighted mean queue length."},
		{&c.Utilization, "plaza_utilization_ratio", "Fraction of the horizon with at least one busy booth."},
		{&c.SlotUtilization, "plaza_slot_utilization_ratio", "Busy booth-seconds over booths times horizon."},
		{&c.HorizonSeconds, "plaza_horizon_seconds", "Simulated horizon of the run."},
	} {
		vec, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: spec.name,
			Help: spec.help,
		}, labels), spec.name)
		if err != nil {
			return nil, err
		}
		*spec.dst = vec
	}
	return c, nil
}

// Observe sets the gauges from one run. Undefined (NaN) figures are left
// unset rather than exported as NaN.
func (c *Collector) Observe(res *sim.Result) {
	if c == nil || res == nil || res.Statistics == nil {
		return
	}
	st := res.Statistics
	for _, ls := range append([]sim.LaneStatistics{st.Plaza}, st.Lanes...) {
		set := func(vec *prometheus.GaugeVec, v float64) {
			if math.IsNaN(v) {
				return
			}
			vec.WithLabelValues(res.RunID, ls.Lane).Set(v)
		}
		set(c.Arrivals, float64(ls.Arrivals))
		set(c.Served, float64(ls.Served))
		set(c.Abandoned, float64(ls.Abandoned))
		set(c.InFlight, float64(ls.InFlight))
		set(c.MeanQueueWait, ls.MeanQueueWait)
		set(c.MeanSojourn, ls.MeanSojourn)
		set(c.MeanQueueLength, ls.MeanQueueLength)
		set(c.Utilization, ls.Utilization)
		set(c.SlotUtilization, ls.SlotUtilization)
		set(c.HorizonSeconds, st.Horizon)
	}
}

// WriteTextfile writes everything registered with the collector's gatherer to
// path in the text exposition format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
