// Package gochan provides a generic, goroutine-safe message channel with
// explicit rendezvous and buffered modes, and a selector that multiplexes
// receives across channels of different element types.
//
// Unlike a native chan, a [Channel] is built on an explicit mutex and
// condition-variable protocol. That makes its semantics inspectable and
// extensible: sends on a closed channel return an error instead of
// panicking, closed channels drain before reporting exhaustion, and
// channels of unlike element types can be multiplexed by one [Selector]
// without reflection.
//
// # Channels
//
// Create a channel with [New]. A capacity of zero gives rendezvous
// semantics: [Channel.Send] blocks until a receiver is waiting and returns
// only after the value has been committed to one. A positive capacity gives
// a bounded FIFO buffer: sends block while full, receives block while
// empty.
//
//	ch := gochan.New[int](2)
//	if err := ch.Send(1); err != nil { ... }
//	v, ok := ch.Receive()
//
// # Closing
//
// [Channel.Close] is idempotent and one-way. After close, sends fail with
// [ErrClosed]; receives keep draining buffered values and report exhaustion
// through their boolean result only once the buffer is empty. Exhaustion is
// not an error.
//
// # Non-Blocking and Asynchronous Variants
//
//   - [Channel.TrySend] and [Channel.TryReceive]: single-attempt variants
//     that never block.
//   - [Channel.AsyncSend] and [Channel.AsyncReceive]: run the blocking
//     operation on its own goroutine and return a [SendResult] or
//     [ReceiveResult] handle with Wait and Done.
//
// The blocking operations carry no timeout or cancellation of their own.
// A caller that needs a deadline builds it from the non-blocking variants,
// or combines an async handle's Done channel with a native select and a
// timer.
//
// # Selector
//
// A [Selector] waits on several channels at once. Register a per-channel
// callback with [AddReceive], then loop over [Selector.Select]: each call
// delivers one ready value to its callback, blocking when nothing is ready.
// Entries retire as their channels become closed and drained; Select
// returns false once none remain or after [Selector.Stop].
//
//	sel := gochan.NewSelector()
//	gochan.AddReceive(sel, numbers, func(n int) { ... })
//	gochan.AddReceive(sel, words, func(w string) { ... })
//	for sel.Select() {
//	}
//
// # Observability
//
// [Channel.Stats] snapshots cumulative counters and current depth. The
// [github.com/baxromumarov/gochan/metrics] subpackage exposes the same
// numbers as a Prometheus collector.
//
// # Utilities
//
// The [github.com/baxromumarov/gochan/chanx] subpackage provides channel
// combinators built on the core API: Drain, Merge (selector-backed fan-in),
// Map, and Filter.
package gochan
