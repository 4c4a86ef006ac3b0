package gochan

// SendResult is the completion handle of an [Channel.AsyncSend]. Create one
// only through AsyncSend.
type SendResult struct {
	done chan struct{}
	err  error
}

// Wait blocks until the send completes and returns its error: nil on
// delivery, [ErrClosed] if the channel closed first. Wait may be called any
// number of times and from any goroutine.
func (r *SendResult) Wait() error {
	<-r.done
	return r.err
}

// Done returns a channel that is closed when the send completes. Use it to
// combine the handle with other select cases; call [SendResult.Wait] for
// the outcome.
func (r *SendResult) Done() <-chan struct{} {
	return r.done
}

// ReceiveResult is the completion handle of an [Channel.AsyncReceive].
// Create one only through AsyncReceive.
type ReceiveResult[T any] struct {
	done chan struct{}
	val  T
	ok   bool
}

// Wait blocks until the receive completes and returns its outcome, with the
// same meaning as [Channel.Receive]. Wait may be called any number of times
// and from any goroutine.
func (r *ReceiveResult[T]) Wait() (T, bool) {
	<-r.done
	return r.val, r.ok
}

// Done returns a channel that is closed when the receive completes.
func (r *ReceiveResult[T]) Done() <-chan struct{} {
	return r.done
}

// AsyncSend runs [Channel.Send] on its own goroutine and returns a handle
// resolving to the send's error. The value occupies no channel space until
// the underlying Send accepts it; on a rendezvous channel the goroutine
// simply blocks until a receiver arrives or the channel closes.
func (c *Channel[T]) AsyncSend(v T) *SendResult {
	r := &SendResult{done: make(chan struct{})}
	go func() {
		r.err = c.Send(v)
		close(r.done)
	}()
	return r
}

// AsyncReceive runs [Channel.Receive] on its own goroutine and returns a
// handle resolving to the received value.
func (c *Channel[T]) AsyncReceive() *ReceiveResult[T] {
	r := &ReceiveResult[T]{done: make(chan struct{})}
	go func() {
		r.val, r.ok = c.Receive()
		close(r.done)
	}()
	return r
}
