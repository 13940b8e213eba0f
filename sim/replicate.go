package sim

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/plaza-sim/sim/stats"
)

// RunReplications runs n independent simulations of cfg, replication i using
// seed cfg.Seed+i. Each replication owns its Simulator and runs on its own
// goroutine. Results are indexed by replication, so the output order does not
// depend on scheduling.
func RunReplications(cfg PlazaConfig, n int) ([]*Result, error) {
	if n <= 0 {
		return nil, fmt.Errorf("replications must be positive, got %d", n)
	}
	sims := make([]*Simulator, n)
	for i := range sims {
		c := cfg
		c.Seed = cfg.Seed + int64(i)
		s, err := NewSimulator(c)
		if err != nil {
			return nil, fmt.Errorf("replication %d: %w", i, err)
		}
		sims[i] = s
	}

	results := make([]*Result, n)
	var wg sync.WaitGroup
	for i, s := range sims {
		i, s := i, s
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.Run()
		}()
	}
	wg.Wait()
	logrus.Infof("%d replications finished", n)
	return results, nil
}

// ReplicationSummary describes the spread of key plaza-wide figures across
// replications. Replications where a figure is undefined are skipped for
// that figure.
type ReplicationSummary struct {
	Replications    int
	MeanQueueWait   stats.Description
	MeanSojourn     stats.Description
	MeanQueueLength stats.Description
	Utilization     stats.Description
	AbandonRate     stats.Description
	Served          stats.Description
}

// SummarizeReplications aggregates the plaza-wide statistics of results.
func SummarizeReplications(results []*Result) ReplicationSummary {
	var wait, sojourn, qlen, util, abandon, served []float64
	for _, r := range results {
		p := r.Statistics.Plaza
		wait = append(wait, p.MeanQueueWait)
		sojourn = append(sojourn, p.MeanSojourn)
		qlen = append(qlen, p.MeanQueueLength)
		util = append(util, p.Utilization)
		abandon = append(abandon, p.AbandonRate)
		served = append(served, float64(p.Served))
	}
	return ReplicationSummary{
		Replications:    len(results),
		MeanQueueWait:   stats.Describe(wait),
		MeanSojourn:     stats.Describe(sojourn),
		MeanQueueLength: stats.Describe(qlen),
		Utilization:     stats.Describe(util),
		AbandonRate:     stats.Describe(abandon),
		Served:          stats.Describe(served),
	}
}

// Print writes one line per figure: mean, standard deviation, min and max.
func (rs ReplicationSummary) Print(w io.Writer) {
	fmt.Fprintf(w, "=== Replication Summary (%d runs) ===\n", rs.Replications)
	fmt.Fprintf(w, "%-18s %10s %10s %10s %10s\n", "metric", "mean", "stddev", "min", "max")
	for _, row := range []struct {
		name string
		d    stats.Description
	}{
		{"queue wait (s)", rs.MeanQueueWait},
		{"sojourn (s)", rs.MeanSojourn},
		{"queue length", rs.MeanQueueLength},
		{"utilization", rs.Utilization},
		{"abandon rate", rs.AbandonRate},
		{"served", rs.Served},
	} {
		fmt.Fprintf(w, "%-18s %10s %10s %10s %10s\n", row.name,
			cell(row.d.Mean), cell(row.d.StdDev), cell(row.d.Min), cell(row.d.Max))
	}
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.3f", v)
}
