package gochan

import "sync"

// pollOutcome is the result of one non-blocking probe of a channel by a
// [Selector].
type pollOutcome int

const (
	// pollNotReady means the channel had nothing to deliver and is still open.
	pollNotReady pollOutcome = iota

	// pollFired means a value was dequeued and bound to the entry's callback.
	pollFired

	// pollClosed means the channel is closed and drained; the entry retires.
	pollClosed
)

// A Selector multiplexes receives across channels of differing element
// types. Register interest with [AddReceive], then call [Selector.Select]
// in a loop: each call delivers at most one value to its channel's
// callback, blocking until some registered channel becomes ready.
//
// A channel that is closed and fully drained retires from the selector;
// once every entry has retired, Select returns false and the loop can end.
// [Selector.Stop] forces the same outcome early.
//
// All methods are safe for concurrent use. Select may be called from
// several goroutines at once, with each ready value delivered to exactly
// one caller; concurrent calls may run their callbacks concurrently. A
// callback runs with no selector or channel lock held, so it may operate
// on any channel, including the ones this selector watches.
type Selector struct {
	mu      sync.Mutex
	cond    *sync.Cond
	entries []selectorEntry
	stopped bool
}

// selectorEntry is one registered receive, type-erased behind closures so
// channels of unlike element types can share the entries slice.
type selectorEntry struct {
	// poll probes the channel once. On pollFired it returns the callback
	// bound to the dequeued value, to be run after the selector unlocks.
	poll   func() (func(), pollOutcome)
	detach func()
}

// NewSelector creates an empty selector.
func NewSelector() *Selector {
	s := &Selector{}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// AddReceive registers fn to be called with values received from ch.
// Entries are polled in registration order, so earlier registrations win
// when several channels are ready at once.
//
// A rendezvous channel is fed through its hand-off slot here: a selector
// does not count as a blocked receiver, so producers pair with it via
// [Channel.TrySend] rather than a blocking [Channel.Send].
//
// AddReceive is a package-level function rather than a method because
// methods cannot introduce type parameters. Adding to a stopped selector is
// a no-op.
func AddReceive[T any](s *Selector, ch *Channel[T], fn func(T)) {
	if ch == nil {
		panic("gochan: AddReceive requires a non-nil channel")
	}
	if fn == nil {
		panic("gochan: AddReceive requires a non-nil callback")
	}

	ch.registerSelector(s)
	entry := selectorEntry{
		poll: func() (func(), pollOutcome) {
			v, outcome := ch.pollReceive()
			if outcome != pollFired {
				return nil, outcome
			}
			return func() { fn(v) }, pollFired
		},
		detach: func() { ch.unregisterSelector(s) },
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		ch.unregisterSelector(s)
		return
	}
	s.entries = append(s.entries, entry)
	// A Select blocked before this entry existed must wake and consider it.
	s.cond.Broadcast()
	s.mu.Unlock()
}

// Select waits until a registered channel is ready, dequeues one value,
// invokes that channel's callback with it, and returns true. The callback
// runs on the calling goroutine after the selector has released its own
// lock, so it may use any channel, including the one that fired. Retiring
// the entry of a drained closed channel also counts as one event and
// returns true; the callback is not invoked for it.
//
// Select returns false when no entries remain or the selector is stopped.
func (s *Selector) Select() bool {
	s.mu.Lock()

	for {
		if s.stopped || len(s.entries) == 0 {
			s.mu.Unlock()
			return false
		}
		if fire, ok := s.scanLocked(); ok {
			// The value is already dequeued; the callback must run after
			// the unlock because a channel it touches will call notify,
			// which takes this mutex.
			s.mu.Unlock()
			if fire != nil {
				fire()
			}
			return true
		}
		// notify, AddReceive, and Stop all take the mutex before waking
		// waiters, so no wakeup can slip between the scan above and this
		// wait.
		s.cond.Wait()
	}
}

// scanLocked polls entries in registration order and reports whether an
// event was consumed: one dequeued value or one retired entry. On a
// dequeue it also returns the fired entry's bound callback for the caller
// to run once the selector lock is released.
func (s *Selector) scanLocked() (func(), bool) {
	for i := 0; i < len(s.entries); i++ {
		fire, outcome := s.entries[i].poll()
		switch outcome {
		case pollFired:
			return fire, true
		case pollClosed:
			entry := s.entries[i]
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			entry.detach()
			return nil, true
		}
	}
	return nil, false
}

// Stop makes every current and future Select call return false promptly
// and detaches all entries from their channels. Stop is idempotent.
func (s *Selector) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	entries := s.entries
	s.entries = nil
	s.cond.Broadcast()
	s.mu.Unlock()

	for _, e := range entries {
		e.detach()
	}
}

// notify wakes blocked Select calls so they re-poll their channels.
// Channels call it after enqueueing a value or closing, never while holding
// their own lock. Taking the selector mutex before broadcasting is what
// rules out a lost wakeup against a scan that is about to wait.
func (s *Selector) notify() {
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}
