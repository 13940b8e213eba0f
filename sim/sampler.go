package sim

// queueSampler records every lane's queue length at a fixed interval,
// starting at time zero. Unlike the transition-driven samples kept by the
// Recorder, these are evenly spaced and suit plotting.
type queueSampler struct {
	sim      *Simulator
	interval float64
}

func (q *queueSampler) sample(p *Process) {
	for _, lane := range q.sim.lanes {
		q.sim.Recorder.PeriodicSamples = append(q.sim.Recorder.PeriodicSamples, QueueSample{
			Time:     p.Now(),
			Resource: lane.Name,
			Length:   lane.Resource.QueueLen(),
		})
	}
	p.Timeout(q.interval, q.sample)
}
