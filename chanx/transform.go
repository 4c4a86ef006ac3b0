package chanx

import "github.com/baxromumarov/gochan"

// Map feeds every value of in through fn and delivers the results on the
// returned channel, preserving order. capacity sets the output's buffer,
// with zero giving a rendezvous stage that hands results directly to the
// consumer. The output is closed once in is closed and drained.
func Map[T, R any](in *gochan.Channel[T], capacity int, fn func(T) R) *gochan.Channel[R] {
	out := gochan.New[R](capacity)
	go func() {
		defer out.Close()
		for {
			v, ok := in.Receive()
			if !ok {
				return
			}
			if out.Send(fn(v)) != nil {
				return // consumer closed the output early
			}
		}
	}()
	return out
}

// Filter delivers only the values of in for which fn returns true,
// preserving their order. capacity sets the output's buffer. The output is
// closed once in is closed and drained.
func Filter[T any](in *gochan.Channel[T], capacity int, fn func(T) bool) *gochan.Channel[T] {
	out := gochan.New[T](capacity)
	go func() {
		defer out.Close()
		for {
			v, ok := in.Receive()
			if !ok {
				return
			}
			if !fn(v) {
				continue
			}
			if out.Send(v) != nil {
				return
			}
		}
	}()
	return out
}
