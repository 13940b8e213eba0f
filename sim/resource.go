package sim

import (
	"fmt"
)

// TokenState is the lifecycle state of a resource request.
type TokenState string

const (
	TokenWaiting   TokenState = "waiting"
	TokenHeld      TokenState = "held"
	TokenReleased  TokenState = "released"
	TokenWithdrawn TokenState = "withdrawn"
)

// Token is one request for a slot of a Resource. It is granted at most once
// and released at most once.
type Token struct {
	resource *Resource
	onGrant  func(*Token)
	state    TokenState

	RequestedAt float64 // Simulated time the request was issued
	GrantedAt   float64 // Simulated time the slot was handed over
	ReleasedAt  float64 // Simulated time the slot was freed or the request withdrawn
}

// Resource returns the resource this token was issued by.
func (t *Token) Resource() *Resource {
	return t.resource
}

// State returns the token's lifecycle state.
func (t *Token) State() TokenState {
	return t.state
}

// Release frees the slot held by t, or withdraws t from the wait queue if it
// has not been granted yet. Releasing a token a second time does nothing.
func (t *Token) Release() {
	t.resource.release(t)
}

func (t *Token) String() string {
	return fmt.Sprintf("Token(%s, %s, requested=%.3f)", t.resource.ID, t.state, t.RequestedAt)
}

// Resource is a pool of identical slots (toll booths of one lane class) with a
// FIFO wait queue. All mutation happens on the clock's goroutine.
type Resource struct {
	HookableBase

	ID       string
	clock    *Clock
	capacity int
	held     int
	waitQ    WaitQueue
	grants   int
}

// NewResource creates a resource with capacity slots.
func NewResource(clock *Clock, id string, capacity int) (*Resource, error) {
	if clock == nil {
		return nil, fmt.Errorf("resource %q: clock must not be nil", id)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("resource %q: capacity must be positive, got %d", id, capacity)
	}
	return &Resource{ID: id, clock: clock, capacity: capacity}, nil
}

// Capacity returns the number of slots.
func (r *Resource) Capacity() int { return r.capacity }

// Held returns the number of occupied slots.
func (r *Resource) Held() int { return r.held }

// QueueLen returns the number of requests waiting for a slot.
func (r *Resource) QueueLen() int { return r.waitQ.Len() }

// Grants returns the number of slots handed out so far.
func (r *Resource) Grants() int { return r.grants }

// Request asks for one slot. When a slot is free it is reserved at once and
// onGrant runs at the current simulated time; otherwise the request waits in
// FIFO order and onGrant runs when a release hands it the slot. Requests never
// fail.
func (r *Resource) Request(onGrant func(*Token)) *Token {
	tok := &Token{
		resource:    r,
		onGrant:     onGrant,
		state:       TokenWaiting,
		RequestedAt: r.clock.Now(),
	}
	if r.held < r.capacity && r.waitQ.Len() == 0 {
		r.grant(tok)
		return tok
	}
	r.waitQ.Enqueue(tok)
	r.invoke(HookPosEnqueue, tok)
	return tok
}

func (r *Resource) grant(tok *Token) {
	r.held++
	if r.held > r.capacity {
		panic(fmt.Sprintf("resource %s: held %d exceeds capacity %d", r.ID, r.held, r.capacity))
	}
	r.grants++
	tok.state = TokenHeld
	tok.GrantedAt = r.clock.Now()
	r.invoke(HookPosGrant, tok)
	if tok.onGrant != nil {
		cb := tok.onGrant
		r.clock.Schedule(0, func() { cb(tok) })
	}
}

func (r *Resource) release(tok *Token) {
	if tok.resource != r {
		panic(fmt.Sprintf("resource %s: token belongs to %s", r.ID, tok.resource.ID))
	}
	switch tok.state {
	case TokenWaiting:
		if !r.waitQ.Remove(tok) {
			panic(fmt.Sprintf("resource %s: waiting token missing from queue", r.ID))
		}
		tok.state = TokenWithdrawn
		tok.ReleasedAt = r.clock.Now()
		r.invoke(HookPosWithdraw, tok)
	case TokenHeld:
		r.held--
		if r.held < 0 {
			panic(fmt.Sprintf("resource %s: negative held count", r.ID))
		}
		tok.state = TokenReleased
		tok.ReleasedAt = r.clock.Now()
		r.invoke(HookPosRelease, tok)
		if next := r.waitQ.Dequeue(); next != nil {
			r.grant(next)
		}
	}
}

func (r *Resource) invoke(pos *HookPos, tok *Token) {
	if len(r.Hooks) == 0 {
		return
	}
	r.InvokeHook(HookCtx{
		Domain: r,
		Pos:    pos,
		Now:    r.clock.Now(),
		Item:   tok,
		Detail: ResourceState{QueueLen: r.waitQ.Len(), Held: r.held, Capacity: r.capacity},
	})
}
