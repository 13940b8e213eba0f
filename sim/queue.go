// Implements the WaitQueue, which holds the requests waiting for a booth.
// Requests are enqueued when no slot is free and leave in arrival order.

package sim

import (
	"fmt"
	"strings"

	"github.com/gammazero/deque"
)

// WaitQueue is a strict FIFO queue of pending resource requests. There is no
// priority and no reordering.
type WaitQueue struct {
	queue deque.Deque[*Token]
}

// Enqueue adds a request to the back of the wait queue.
func (wq *WaitQueue) Enqueue(t *Token) {
	if t == nil {
		panic("Enqueue: token must not be nil")
	}
	wq.queue.PushBack(t)
}

func (wq *WaitQueue) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < wq.queue.Len(); i++ {
		sb.WriteString(fmt.Sprint(wq.queue.At(i)))
		if i < wq.queue.Len()-1 {
			sb.WriteString(" ")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// Len returns the number of requests in the queue.
func (wq *WaitQueue) Len() int {
	return wq.queue.Len()
}

// Peek returns the request at the front of the queue without removing it.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Peek() *Token {
	if wq.queue.Len() == 0 {
		return nil
	}
	return wq.queue.Front()
}

// Dequeue removes and returns the request at the front of the queue.
// Returns nil if the queue is empty.
func (wq *WaitQueue) Dequeue() *Token {
	if wq.queue.Len() == 0 {
		return nil
	}
	return wq.queue.PopFront()
}

// Remove takes t out of the queue wherever it is, preserving the order of the
// others. Reports whether t was queued.
func (wq *WaitQueue) Remove(t *Token) bool {
	idx := wq.queue.Index(func(item *Token) bool { return item == t })
	if idx < 0 {
		return false
	}
	wq.queue.Remove(idx)
	return true
}
