package chanx

import "github.com/baxromumarov/gochan"

// Drain receives from c until it is closed and exhausted and returns every
// value it delivered, in order. Drain blocks while c stays open, so call it
// once the producing side has closed the channel, or from a goroutine that
// owns the consuming end during shutdown.
func Drain[T any](c *gochan.Channel[T]) []T {
	var out []T
	for {
		v, ok := c.Receive()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

// DiscardAll receives and drops values from c until it is closed and
// exhausted, and returns how many were dropped. Use it to unblock producers
// of a channel whose values no longer matter.
func DiscardAll[T any](c *gochan.Channel[T]) int {
	var n int
	for {
		if _, ok := c.Receive(); !ok {
			return n
		}
		n++
	}
}
