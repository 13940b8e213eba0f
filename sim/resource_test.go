package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func mustResource(t testing.TB, c *Clock, id string, capacity int) *Resource {
	t.Helper()
	r, err := NewResource(c, id, capacity)
	if err != nil {
		t.Fatalf("NewResource: %v", err)
	}
	return r
}

func TestNewResource_RejectsBadCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1} {
		_, err := NewResource(NewClock(), "booth", capacity)
		assert.Error(t, err, "capacity %d", capacity)
	}
	_, err := NewResource(nil, "booth", 1)
	assert.Error(t, err)
}

func TestResource_Request_FreeSlotGrantsImmediately(t *testing.T) {
	// GIVEN an empty resource with two slots
	c := NewClock()
	r := mustResource(t, c, "booth", 2)
	var grantedAt []float64

	// WHEN two requests arrive at t=0
	a := r.Request(func(*Token) { grantedAt = append(grantedAt, c.Now()) })
	b := r.Request(func(*Token) { grantedAt = append(grantedAt, c.Now()) })

	// THEN both are held at once and callbacks run at t=0
	assert.Equal(t, TokenHeld, a.State())
	assert.Equal(t, TokenHeld, b.State())
	assert.Equal(t, 2, r.Held())
	assert.Equal(t, 0, r.QueueLen())
	c.Run(1)
	assert.Equal(t, []float64{0, 0}, grantedAt)
}

func TestResource_FullResourceQueuesFIFO(t *testing.T) {
	// GIVEN a single slot held by one request
	c := NewClock()
	r := mustResource(t, c, "booth", 1)
	first := r.Request(nil)
	var order []int
	waiters := make([]*Token, 3)
	for i := range waiters {
		i := i
		waiters[i] = r.Request(func(*Token) { order = append(order, i) })
	}
	require.Equal(t, 3, r.QueueLen())

	// WHEN the slot is released repeatedly at increasing times
	c.Schedule(1, first.Release)
	c.Schedule(2, func() { waiters[0].Release() })
	c.Schedule(3, func() { waiters[1].Release() })
	c.Run(10)

	// THEN waiters get the slot in request order, at the release instant
	assert.Equal(t, []int{0, 1, 2}, order)
	assert.Equal(t, 1.0, waiters[0].GrantedAt)
	assert.Equal(t, 2.0, waiters[1].GrantedAt)
	assert.Equal(t, 3.0, waiters[2].GrantedAt)
	assert.Equal(t, 1, r.Held())
	assert.Equal(t, 4, r.Grants())
}

func TestResource_ReleaseWaitingTokenWithdraws(t *testing.T) {
	// GIVEN a held slot and two waiters
	c := NewClock()
	r := mustResource(t, c, "booth", 1)
	holder := r.Request(nil)
	quitter := r.Request(func(*Token) { t.Error("withdrawn request must not be granted") })
	stayer := r.Request(nil)

	// WHEN the first waiter withdraws and the holder then releases
	quitter.Release()
	holder.Release()

	// THEN the slot skips the withdrawn request
	assert.Equal(t, TokenWithdrawn, quitter.State())
	assert.Equal(t, TokenHeld, stayer.State())
	assert.Equal(t, 0, r.QueueLen())
	c.Run(1)
}

func TestResource_DoubleReleaseIsNoop(t *testing.T) {
	c := NewClock()
	r := mustResource(t, c, "booth", 1)
	tok := r.Request(nil)
	tok.Release()
	tok.Release()
	assert.Equal(t, 0, r.Held())
	assert.Equal(t, TokenReleased, tok.State())
}

func TestResource_HooksObserveTransitions(t *testing.T) {
	// GIVEN a hook recording every position and snapshot
	c := NewClock()
	r := mustResource(t, c, "booth", 1)
	var seen []string
	r.AcceptHook(HookFunc(func(ctx HookCtx) {
		st := ctx.Detail.(ResourceState)
		seen = append(seen, fmt.Sprintf("%s q=%d h=%d", ctx.Pos.Name, st.QueueLen, st.Held))
		assert.Same(t, r, ctx.Domain)
	}))

	// WHEN one request is granted, one waits and then the first releases
	a := r.Request(nil)
	r.Request(nil)
	a.Release()

	// THEN every transition is observed with post-transition state
	assert.Equal(t, []string{
		"Grant q=0 h=1",
		"Enqueue q=1 h=1",
		"Release q=1 h=0",
		"Grant q=0 h=1",
	}, seen)
}

// Under any interleaving of requests and releases, held never exceeds
// capacity and a free slot never coexists with a waiter.
func TestResource_StateMachine(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewClock()
		capacity := rapid.IntRange(1, 4).Draw(t, "capacity")
		r, err := NewResource(c, "booth", capacity)
		if err != nil {
			t.Fatal(err)
		}
		r.AcceptHook(HookFunc(func(ctx HookCtx) {
			st := ctx.Detail.(ResourceState)
			if st.Held > st.Capacity || st.Held < 0 {
				t.Fatalf("held %d outside [0, %d]", st.Held, st.Capacity)
			}
		}))

		var live []*Token
		t.Repeat(map[string]func(*rapid.T){
			"request": func(t *rapid.T) {
				live = append(live, r.Request(func(*Token) {}))
			},
			"release": func(t *rapid.T) {
				if len(live) == 0 {
					t.Skip("nothing to release")
				}
				i := rapid.IntRange(0, len(live)-1).Draw(t, "victim")
				tok := live[i]
				live = append(live[:i], live[i+1:]...)
				tok.Release()
			},
			"": func(t *rapid.T) {
				if r.Held() > r.Capacity() {
					t.Fatalf("held %d > capacity %d", r.Held(), r.Capacity())
				}
				if r.Held() < r.Capacity() && r.QueueLen() > 0 {
					t.Fatalf("free slot with %d waiting", r.QueueLen())
				}
				held := 0
				for _, tok := range live {
					if tok.State() == TokenHeld {
						held++
					}
				}
				if held != r.Held() {
					t.Fatalf("tokens report %d held, resource reports %d", held, r.Held())
				}
			},
		})
	})
}
