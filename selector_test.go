package gochan

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorDeliversFromMultipleTypes(t *testing.T) {
	numbers := New[int](5)
	words := New[string](5)

	var gotNums []int
	var gotWords []string

	sel := NewSelector()
	AddReceive(sel, numbers, func(n int) { gotNums = append(gotNums, n) })
	AddReceive(sel, words, func(w string) { gotWords = append(gotWords, w) })

	require.NoError(t, numbers.Send(7))
	require.NoError(t, words.Send("seven"))

	require.True(t, sel.Select())
	require.True(t, sel.Select())

	assert.Equal(t, []int{7}, gotNums)
	assert.Equal(t, []string{"seven"}, gotWords)
}

func TestSelectorRegistrationOrderWins(t *testing.T) {
	first := New[int](1)
	second := New[int](1)

	var order []string
	sel := NewSelector()
	AddReceive(sel, first, func(int) { order = append(order, "first") })
	AddReceive(sel, second, func(int) { order = append(order, "second") })

	// Both ready before the scan: the earlier registration must fire first.
	require.NoError(t, first.Send(1))
	require.NoError(t, second.Send(2))

	require.True(t, sel.Select())
	require.True(t, sel.Select())
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestSelectorOneEventPerSelect(t *testing.T) {
	ch := New[int](5)
	for i := range 3 {
		require.NoError(t, ch.Send(i))
	}

	var calls int
	sel := NewSelector()
	AddReceive(sel, ch, func(int) { calls++ })

	require.True(t, sel.Select())
	assert.Equal(t, 1, calls, "each Select should deliver exactly one value")
	require.True(t, sel.Select())
	require.True(t, sel.Select())
	assert.Equal(t, 3, calls)
	assert.True(t, ch.IsEmpty())
}

func TestSelectorBlocksUntilReady(t *testing.T) {
	ch := New[int](1)

	var got atomic.Int32
	sel := NewSelector()
	AddReceive(sel, ch, func(v int) { got.Store(int32(v)) })

	selectDone := make(chan bool, 1)
	go func() {
		selectDone <- sel.Select()
	}()

	select {
	case <-selectDone:
		t.Fatal("Select should block while no channel is ready")
	case <-time.After(50 * time.Millisecond):
	}

	require.True(t, ch.TrySend(99))

	select {
	case ok := <-selectDone:
		assert.True(t, ok)
		assert.Equal(t, int32(99), got.Load())
	case <-time.After(time.Second):
		t.Fatal("a send should wake the blocked Select")
	}
}

func TestSelectorDrainsClosedChannelResidue(t *testing.T) {
	ch := New[int](5)
	require.NoError(t, ch.Send(1))
	require.NoError(t, ch.Send(2))
	require.NoError(t, ch.Send(3))
	ch.Close()

	var got []int
	sel := NewSelector()
	AddReceive(sel, ch, func(v int) { got = append(got, v) })

	// Three deliveries, then one retirement event, then termination.
	require.True(t, sel.Select())
	require.True(t, sel.Select())
	require.True(t, sel.Select())
	assert.Equal(t, []int{1, 2, 3}, got, "residue of a closed channel must drain before retirement")

	require.True(t, sel.Select(), "retiring the drained entry is itself one event")
	assert.Len(t, got, 3, "retirement must not invoke the callback")

	assert.False(t, sel.Select(), "no entries remain after retirement")
}

func TestSelectorTerminatesWhenAllRetired(t *testing.T) {
	a := New[int](1)
	b := New[string](1)

	var calls atomic.Int32
	sel := NewSelector()
	AddReceive(sel, a, func(int) { calls.Add(1) })
	AddReceive(sel, b, func(string) { calls.Add(1) })

	a.Close()
	b.Close()

	assert.True(t, sel.Select(), "first retirement")
	assert.True(t, sel.Select(), "second retirement")
	assert.False(t, sel.Select(), "all entries retired")
	assert.Zero(t, calls.Load(), "closing without data should never fire callbacks")
}

func TestSelectorEmpty(t *testing.T) {
	sel := NewSelector()
	assert.False(t, sel.Select(), "a selector with no entries should return immediately")
}

func TestSelectorStopUnblocksSelect(t *testing.T) {
	ch := New[int](1)

	sel := NewSelector()
	AddReceive(sel, ch, func(int) {})

	selectDone := make(chan bool, 1)
	go func() {
		selectDone <- sel.Select()
	}()

	time.Sleep(20 * time.Millisecond) // let Select block
	sel.Stop()

	select {
	case ok := <-selectDone:
		assert.False(t, ok, "Stop should make a blocked Select return false")
	case <-time.After(time.Second):
		t.Fatal("Stop should unblock Select")
	}

	assert.False(t, sel.Select(), "Select after Stop should return false")

	ch.mu.Lock()
	regs := len(ch.selectors)
	ch.mu.Unlock()
	assert.Zero(t, regs, "Stop should detach the selector from its channels")
}

func TestSelectorStopIdempotent(t *testing.T) {
	sel := NewSelector()
	AddReceive(sel, New[int](1), func(int) {})

	sel.Stop()
	sel.Stop()
	assert.False(t, sel.Select())
}

func TestSelectorAddReceiveAfterStop(t *testing.T) {
	sel := NewSelector()
	sel.Stop()

	ch := New[int](1)
	AddReceive(sel, ch, func(int) {})

	assert.False(t, sel.Select())

	ch.mu.Lock()
	regs := len(ch.selectors)
	ch.mu.Unlock()
	assert.Zero(t, regs, "registering on a stopped selector should leave no trace on the channel")
}

func TestSelectorAddReceiveWakesBlockedSelect(t *testing.T) {
	quiet := New[int](1)

	var got atomic.Int32
	sel := NewSelector()
	AddReceive(sel, quiet, func(int) {})

	selectDone := make(chan bool, 1)
	go func() {
		selectDone <- sel.Select()
	}()

	time.Sleep(20 * time.Millisecond) // let Select block on the quiet channel

	// The late entry is ready immediately; AddReceive must wake the scan.
	ready := New[int](1)
	require.NoError(t, ready.Send(5))
	AddReceive(sel, ready, func(v int) { got.Store(int32(v)) })

	select {
	case ok := <-selectDone:
		assert.True(t, ok)
		assert.Equal(t, int32(5), got.Load())
	case <-time.After(time.Second):
		t.Fatal("AddReceive should wake a blocked Select to consider the new entry")
	}
}

func TestSelectorRendezvousDeposit(t *testing.T) {
	ch := New[int](0)

	var got []int
	sel := NewSelector()
	AddReceive(sel, ch, func(v int) { got = append(got, v) })

	// A selector is not a blocked receiver, so a rendezvous channel is fed
	// through its hand-off slot.
	require.True(t, ch.TrySend(1))
	require.True(t, sel.Select())
	require.True(t, ch.TrySend(2))
	require.True(t, sel.Select())

	assert.Equal(t, []int{1, 2}, got)
}

func TestSelectorCallbackMayUseChannels(t *testing.T) {
	ch := New[int](2)

	// The callback runs with no selector or channel lock held, so feeding
	// the watched channel from inside it must not deadlock against the
	// notify path.
	var seen []int
	sel := NewSelector()
	AddReceive(sel, ch, func(v int) {
		seen = append(seen, v)
		if v > 0 {
			ch.TrySend(v - 1)
		}
	})

	require.NoError(t, ch.Send(3))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 4 {
			sel.Select()
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Select deadlocked while its callback fed the watched channel")
	}
	assert.Equal(t, []int{3, 2, 1, 0}, seen, "every re-sent value should arrive through the selector")
}

func TestSelectorCallbackMayCloseChannel(t *testing.T) {
	ch := New[int](1)

	var fired int
	sel := NewSelector()
	AddReceive(sel, ch, func(int) {
		fired++
		ch.Close() // closing the watched channel notifies this selector
	})

	require.NoError(t, ch.Send(1))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for sel.Select() {
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Select deadlocked while its callback closed the watched channel")
	}
	assert.Equal(t, 1, fired, "only the buffered value should fire the callback")
	assert.True(t, ch.IsClosed())
}

func TestSelectorNilArgsPanic(t *testing.T) {
	sel := NewSelector()

	mustPanic(t, "AddReceive requires a non-nil channel", func() {
		AddReceive[int](sel, nil, func(int) {})
	})
	mustPanic(t, "AddReceive requires a non-nil callback", func() {
		AddReceive(sel, New[int](1), nil)
	})
}

func TestSelectorTrySendProducers(t *testing.T) {
	numbers := New[int](5)
	words := New[string](5)

	const perProducer = 10

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range perProducer {
			for !numbers.TrySend(i) {
				time.Sleep(time.Millisecond)
			}
		}
		numbers.Close()
	}()
	go func() {
		defer wg.Done()
		for i := range perProducer {
			w := string(rune('a' + i))
			for !words.TrySend(w) {
				time.Sleep(time.Millisecond)
			}
		}
		words.Close()
	}()

	var gotNums, gotWords int
	sel := NewSelector()
	AddReceive(sel, numbers, func(int) { gotNums++ })
	AddReceive(sel, words, func(string) { gotWords++ })

	// The loop ends on its own once both producers close and both entries
	// retire.
	for sel.Select() {
	}
	wg.Wait()

	assert.Equal(t, perProducer, gotNums, "every number should be delivered")
	assert.Equal(t, perProducer, gotWords, "every word should be delivered")
}

func TestSelectorConcurrentSelectCallers(t *testing.T) {
	ch := New[int](64)
	const total = 200

	var delivered atomic.Int32
	sel := NewSelector()
	AddReceive(sel, ch, func(int) { delivered.Add(1) })

	var wg sync.WaitGroup
	wg.Add(2)
	for range 2 {
		go func() {
			defer wg.Done()
			for sel.Select() {
			}
		}()
	}

	for i := range total {
		require.NoError(t, ch.Send(i))
	}
	ch.Close()
	wg.Wait()

	assert.Equal(t, int32(total), delivered.Load(),
		"each value should be delivered to exactly one Select caller")
}
