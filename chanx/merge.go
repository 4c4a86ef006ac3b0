package chanx

import "github.com/baxromumarov/gochan"

// Merge combines several channels into one (fan-in). Values appear on the
// returned channel in whatever order the sources deliver them; capacity
// sets the output's buffer, with zero giving a rendezvous output. The
// output is closed once every source is closed and drained.
//
// A single forwarding goroutine multiplexes the sources through a
// [gochan.Selector], so one value is in flight at a time and a slow
// consumer applies backpressure to all sources equally. Merge with no
// sources returns a channel that is already closed.
func Merge[T any](capacity int, srcs ...*gochan.Channel[T]) *gochan.Channel[T] {
	out := gochan.New[T](capacity)

	sel := gochan.NewSelector()
	// Each callback stashes its value for the loop below, which forwards
	// it and handles a closed output in one place.
	var pending T
	var fired bool
	for _, src := range srcs {
		gochan.AddReceive(sel, src, func(v T) {
			pending = v
			fired = true
		})
	}

	go func() {
		defer out.Close()
		for sel.Select() {
			if !fired {
				continue // a drained source retired; nothing to forward
			}
			fired = false
			if err := out.Send(pending); err != nil {
				// The consumer closed the output under us. Detach from the
				// sources and stop forwarding.
				sel.Stop()
				return
			}
		}
	}()

	return out
}
