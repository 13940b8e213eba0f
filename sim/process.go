package sim

import (
	"fmt"
)

// Step is one segment of a process, run by the clock between two suspension
// points. A step suspends by calling exactly one of Process.Timeout or
// Process.Request before returning; a step that returns without suspending
// ends the process.
type Step func(p *Process)

// Process is a cooperative unit of logical execution (a vehicle journey, the
// arrival generator, the queue sampler). Processes never run concurrently:
// the clock resumes them one at a time.
//
// A process owns the resource requests it issues. When it ends, by returning
// from a step without suspending or by panicking, every slot it still holds
// is released and every request still waiting is withdrawn, so an
// acquisition is always paired with a release.
type Process struct {
	ID   int64
	Name string

	clock     *Clock
	tokens    []*Token
	running   bool
	suspended bool
	done      bool
}

// NewProcess creates a process bound to clock. It does nothing until Start.
func NewProcess(clock *Clock, id int64, name string) *Process {
	return &Process{ID: id, Name: name, clock: clock}
}

// Start schedules the first step at the current simulated time.
func (p *Process) Start(step Step) {
	if step == nil {
		panic("Start: step must not be nil")
	}
	p.clock.Schedule(0, func() { p.resume(step) })
}

// Now returns the current simulated time.
func (p *Process) Now() float64 {
	return p.clock.Now()
}

// Done reports whether the process has ended.
func (p *Process) Done() bool {
	return p.done
}

// Timeout suspends the process for d seconds, then runs next.
func (p *Process) Timeout(d float64, next Step) {
	p.suspend()
	p.clock.Schedule(d, func() { p.resume(next) })
}

// Request suspends the process until r grants it a slot, then runs next.
// The granted token is available through Token(r).
func (p *Process) Request(r *Resource, next Step) {
	p.suspend()
	tok := r.Request(func(*Token) { p.resume(next) })
	p.tokens = append(p.tokens, tok)
}

// Token returns the token the process currently holds or awaits on r, or nil.
func (p *Process) Token(r *Resource) *Token {
	for i := len(p.tokens) - 1; i >= 0; i-- {
		if p.tokens[i].resource == r {
			return p.tokens[i]
		}
	}
	return nil
}

// Release frees the process's slot on r (or withdraws its waiting request).
// It is a no-op if the process has nothing outstanding on r.
func (p *Process) Release(r *Resource) {
	for i := len(p.tokens) - 1; i >= 0; i-- {
		if p.tokens[i].resource == r {
			tok := p.tokens[i]
			p.tokens = append(p.tokens[:i], p.tokens[i+1:]...)
			tok.Release()
			return
		}
	}
}

func (p *Process) String() string {
	return fmt.Sprintf("%s#%d", p.Name, p.ID)
}

func (p *Process) suspend() {
	if !p.running {
		panic(fmt.Sprintf("process %s: suspension outside of a running step", p))
	}
	if p.suspended {
		panic(fmt.Sprintf("process %s: suspended twice in one step", p))
	}
	p.suspended = true
}

func (p *Process) resume(step Step) {
	if p.done {
		panic(fmt.Sprintf("process %s: resumed after it ended", p))
	}
	p.running = true
	p.suspended = false
	defer func() {
		p.running = false
		if !p.suspended {
			p.finish()
		}
	}()
	step(p)
}

// finish releases outstanding tokens in reverse acquisition order.
func (p *Process) finish() {
	for i := len(p.tokens) - 1; i >= 0; i-- {
		p.tokens[i].Release()
	}
	p.tokens = nil
	p.done = true
}
