package gochan_test

import (
	"fmt"
	"testing"

	"github.com/baxromumarov/gochan"
)

// BenchmarkSendReceiveBuffered measures one send plus one receive through a
// buffered channel, across buffer sizes.
func BenchmarkSendReceiveBuffered(b *testing.B) {
	for _, capacity := range []int{1, 16, 256} {
		b.Run(capName(capacity), func(b *testing.B) {
			ch := gochan.New[int](capacity)
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = ch.Send(i)
				_, _ = ch.Receive()
			}
		})
	}
}

// BenchmarkRendezvousPair measures a full hand-off: a blocked receiver, a
// send committing to it, and the receiver waking with the value.
func BenchmarkRendezvousPair(b *testing.B) {
	ch := gochan.New[int](0)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, ok := ch.Receive(); !ok {
				return
			}
		}
	}()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ch.Send(i)
	}
	b.StopTimer()
	ch.Close()
	<-done
}

// BenchmarkTryOps measures the non-blocking fast path: TrySend into room,
// TryReceive from a non-empty buffer.
func BenchmarkTryOps(b *testing.B) {
	ch := gochan.New[int](1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		ch.TrySend(i)
		ch.TryReceive()
	}
}

// BenchmarkAsyncSendWait measures the cost of the goroutine-and-handle
// wrapper relative to a plain Send.
func BenchmarkAsyncSendWait(b *testing.B) {
	ch := gochan.New[int](1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		r := ch.AsyncSend(i)
		_ = r.Wait()
		_, _ = ch.Receive()
	}
}

// BenchmarkSelectorDispatch measures one Select dispatch with n registered
// channels, the last of which is the ready one, so every scan walks the
// whole entry list.
func BenchmarkSelectorDispatch(b *testing.B) {
	for _, n := range []int{1, 4, 16} {
		b.Run(channelCountName(n), func(b *testing.B) {
			sel := gochan.NewSelector()
			chans := make([]*gochan.Channel[int], n)
			for i := range chans {
				chans[i] = gochan.New[int](1)
				gochan.AddReceive(sel, chans[i], func(int) {})
			}
			ready := chans[n-1]

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ready.TrySend(i)
				sel.Select()
			}
		})
	}
}

// BenchmarkStats measures the snapshot cost, which monitoring paths pay on
// every scrape.
func BenchmarkStats(b *testing.B) {
	ch := gochan.New[int](8)
	_ = ch.Send(1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = ch.Stats()
	}
}

func capName(c int) string {
	return fmt.Sprintf("cap=%d", c)
}

func channelCountName(n int) string {
	return fmt.Sprintf("channels=%d", n)
}
