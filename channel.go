package gochan

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by [Channel.Send] and [Channel.AsyncSend] when the
// channel has been closed. Receiving from a closed channel is never an
// error: [Channel.Receive] keeps draining buffered values and reports
// exhaustion through its boolean result instead.
var ErrClosed = errors.New("gochan: send on closed channel")

// Channel is a goroutine-safe FIFO message channel with a fixed capacity.
//
// A capacity of zero creates a rendezvous channel: [Channel.Send] blocks
// until a receiver is waiting and returns once the value has been committed
// to one. A positive capacity creates a bounded buffer: sends block only
// while the buffer is full, receives only while it is empty.
//
// Closing is one-way and idempotent. After [Channel.Close], sends fail with
// [ErrClosed] while receives continue to drain whatever was buffered; only
// when the buffer is empty does [Channel.Receive] report exhaustion.
//
// The zero Channel is not usable; create one with [New].
type Channel[T any] struct {
	mu       sync.Mutex
	sendCond *sync.Cond // room appeared, a receiver arrived, or the channel closed
	recvCond *sync.Cond // a value arrived or the channel closed

	queue    []T
	capacity int
	closed   bool

	// waitingReceivers counts goroutines blocked in Receive on a rendezvous
	// channel. Each queued element claims one of them, so a sender may only
	// proceed while waitingReceivers exceeds the queue depth. The counter is
	// owned by receivers: every Receive decrements exactly what it
	// incremented, on every exit path.
	waitingReceivers int

	// selectors holds a non-owning reference per registered selector entry,
	// in registration order. Notification snapshots this list and runs after
	// the channel lock is released.
	selectors []*Selector

	sent       atomic.Int64
	received   atomic.Int64
	sendErrors atomic.Int64
}

// New creates a channel with the given capacity. A capacity of zero yields
// rendezvous semantics; see [Channel]. New panics if capacity is negative.
func New[T any](capacity int) *Channel[T] {
	if capacity < 0 {
		panic("gochan: New requires capacity >= 0")
	}
	c := &Channel[T]{capacity: capacity}
	c.sendCond = sync.NewCond(&c.mu)
	c.recvCond = sync.NewCond(&c.mu)
	return c
}

// Send delivers v to the channel, blocking until it is accepted.
//
// On a buffered channel, Send blocks while the buffer is full. On a
// rendezvous channel, Send blocks until a receiver is waiting; when Send
// returns nil the value is already committed to that receiver.
//
// Send returns [ErrClosed] if the channel is closed on entry or closes
// while Send is blocked.
func (c *Channel[T]) Send(v T) error {
	c.mu.Lock()
	if c.capacity == 0 {
		// Wait for a receiver that no in-flight element has claimed yet.
		for !c.closed && c.waitingReceivers <= len(c.queue) {
			c.sendCond.Wait()
		}
	} else {
		for !c.closed && len(c.queue) >= c.capacity {
			c.sendCond.Wait()
		}
	}
	if c.closed {
		c.mu.Unlock()
		c.sendErrors.Add(1)
		return ErrClosed
	}
	sels := c.enqueueLocked(v)
	c.mu.Unlock()

	notifySelectors(sels)
	return nil
}

// TrySend attempts to deliver v without blocking and reports whether the
// value was accepted. TrySend returns false on a closed channel.
//
// On a rendezvous channel, TrySend succeeds when a receiver is already
// waiting. With no receiver present it falls back to a single-element
// hand-off slot: one value may be parked for the next receiver, after which
// TrySend returns false until the slot is taken. This keeps TrySend useful
// for opportunistic producers while bounding a rendezvous channel to one
// in-flight element.
func (c *Channel[T]) TrySend(v T) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	if c.capacity == 0 {
		if c.waitingReceivers <= len(c.queue) && len(c.queue) > 0 {
			c.mu.Unlock()
			return false
		}
	} else if len(c.queue) >= c.capacity {
		c.mu.Unlock()
		return false
	}
	sels := c.enqueueLocked(v)
	c.mu.Unlock()

	notifySelectors(sels)
	return true
}

// Receive takes the next value from the channel, blocking until one is
// available. It returns the value and true, or the zero value and false
// once the channel is closed and fully drained. Buffered values always win
// over closure: a closed channel keeps delivering until it is empty.
func (c *Channel[T]) Receive() (T, bool) {
	c.mu.Lock()
	if c.capacity == 0 {
		c.waitingReceivers++
		c.sendCond.Signal()
		for len(c.queue) == 0 && !c.closed {
			c.recvCond.Wait()
		}
		c.waitingReceivers--
	} else {
		for len(c.queue) == 0 && !c.closed {
			c.recvCond.Wait()
		}
	}
	if len(c.queue) == 0 {
		c.mu.Unlock()
		var zero T
		return zero, false
	}
	v := c.dequeueLocked()
	c.mu.Unlock()
	return v, true
}

// TryReceive takes a buffered value without blocking. It reports false when
// the channel is empty, whether or not it is closed.
func (c *Channel[T]) TryReceive() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		var zero T
		return zero, false
	}
	return c.dequeueLocked(), true
}

// Close marks the channel closed and wakes every blocked sender, receiver,
// and selector. Close is idempotent. Values already buffered remain
// receivable; see [Channel.Receive].
func (c *Channel[T]) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.sendCond.Broadcast()
	c.recvCond.Broadcast()
	sels := c.snapshotSelectorsLocked()
	c.mu.Unlock()

	notifySelectors(sels)
}

// IsClosed reports whether the channel has been closed. Like every
// observation of a live channel, the answer may be stale by the time the
// caller acts on it.
func (c *Channel[T]) IsClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// IsEmpty reports whether the channel currently buffers no values.
func (c *Channel[T]) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue) == 0
}

// Len returns the number of values currently buffered.
func (c *Channel[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// Cap returns the capacity the channel was created with. Zero means
// rendezvous.
func (c *Channel[T]) Cap() int {
	return c.capacity
}

// enqueueLocked appends v, accounts for it, wakes one receiver, and returns
// the selector snapshot to notify once the lock is released.
func (c *Channel[T]) enqueueLocked(v T) []*Selector {
	c.queue = append(c.queue, v)
	c.sent.Add(1)
	c.recvCond.Signal()
	return c.snapshotSelectorsLocked()
}

// dequeueLocked removes and returns the head of the queue, which must be
// non-empty, and wakes one sender. The vacated slot is zeroed so the queue
// does not pin the value after delivery.
func (c *Channel[T]) dequeueLocked() T {
	v := c.queue[0]
	var zero T
	c.queue[0] = zero
	c.queue = c.queue[1:]
	c.received.Add(1)
	c.sendCond.Signal()
	return v
}

func (c *Channel[T]) snapshotSelectorsLocked() []*Selector {
	if len(c.selectors) == 0 {
		return nil
	}
	return append([]*Selector(nil), c.selectors...)
}

// notifySelectors wakes each selector in the snapshot. It must run without
// any channel lock held so a concurrently scanning selector can poll the
// channel without deadlock.
func notifySelectors(sels []*Selector) {
	for _, s := range sels {
		s.notify()
	}
}

// registerSelector adds one notification registration for s. A selector
// registers once per entry, so duplicates are expected when one selector
// watches the same channel through several callbacks.
func (c *Channel[T]) registerSelector(s *Selector) {
	c.mu.Lock()
	c.selectors = append(c.selectors, s)
	c.mu.Unlock()
}

// unregisterSelector removes one registration of s.
func (c *Channel[T]) unregisterSelector(s *Selector) {
	c.mu.Lock()
	for i, reg := range c.selectors {
		if reg == s {
			c.selectors = append(c.selectors[:i], c.selectors[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
}

// pollReceive is the selector's non-blocking probe. It dequeues a value when
// one is buffered, reports done when the channel is closed and drained, and
// otherwise reports not ready. The entry's callback runs later in Select,
// after both this lock and the selector's lock are released.
func (c *Channel[T]) pollReceive() (T, pollOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) > 0 {
		return c.dequeueLocked(), pollFired
	}
	var zero T
	if c.closed {
		return zero, pollClosed
	}
	return zero, pollNotReady
}
