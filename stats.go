package gochan

// ChannelStats is a point-in-time snapshot of a channel's counters, taken
// with [Channel.Stats]. Counters are cumulative over the channel's
// lifetime.
type ChannelStats struct {
	// Sent counts values accepted by Send, TrySend, or AsyncSend.
	Sent int64

	// Received counts values delivered through Receive, TryReceive,
	// AsyncReceive, or a selector callback.
	Received int64

	// SendErrors counts sends rejected with ErrClosed.
	SendErrors int64

	// Len is the number of values buffered at snapshot time.
	Len int

	// Cap is the configured capacity; zero means rendezvous.
	Cap int

	// Closed reports whether the channel was closed at snapshot time.
	Closed bool
}

// Stats returns a snapshot of the channel's counters. Like every
// observation of a live channel it may be stale as soon as it is taken; it
// exists for monitoring and tests, not for coordination.
func (c *Channel[T]) Stats() ChannelStats {
	c.mu.Lock()
	length, closed := len(c.queue), c.closed
	c.mu.Unlock()

	return ChannelStats{
		Sent:       c.sent.Load(),
		Received:   c.received.Load(),
		SendErrors: c.sendErrors.Load(),
		Len:        length,
		Cap:        c.capacity,
		Closed:     closed,
	}
}
