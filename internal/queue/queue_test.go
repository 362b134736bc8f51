package queue

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestPushThenLenMatchesSemaphoreAvailability(t *testing.T) {
	q := New()
	q.Push(StreamRemote, []*Message{{Type: 200}, {Type: 201}})
	q.Push(StreamLocal, []*Message{{Type: 200}})

	if got := q.Len(); got != 3 {
		t.Fatalf("Len() = %d, want 3", got)
	}

	// Invariant: semaphore value == combined queue length at rest.
	// Draining via AcquireWait must succeed exactly Len() times
	// without blocking.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		if err := q.AcquireWait(ctx); err != nil {
			t.Fatalf("AcquireWait() #%d: %v", i, err)
		}
	}
}

func TestLocalPreemptsRemote(t *testing.T) {
	// S1 Intake ordering scenario: remote message R1 pushed first,
	// then local L1; paint thread must pick local first.
	q := New()
	q.Push(StreamRemote, []*Message{{Type: 200, ContextID: 1}})
	q.Push(StreamLocal, []*Message{{Type: 200, ContextID: 2}})

	ctx := context.Background()
	if err := q.AcquireWait(ctx); err != nil {
		t.Fatal(err)
	}
	q.Lock()
	stream, ok := q.PickStream()
	if !ok {
		t.Fatal("PickStream() found nothing")
	}
	if stream != StreamLocal {
		t.Fatalf("PickStream() = %v, want StreamLocal", stream)
	}
	m := q.PopFront(stream)
	q.Unlock()

	if m.ContextID != 2 {
		t.Fatalf("popped message ContextID = %d, want 2 (the local one)", m.ContextID)
	}
}

func TestPeekAndTryDecrementForBatching(t *testing.T) {
	q := New()
	msgs := []*Message{
		{Type: 200, Dabs: []Dab{{SizeKind: DabSizePixel, Size: 1}}},
		{Type: 200, Dabs: []Dab{{SizeKind: DabSizePixel, Size: 1}}},
	}
	q.Push(StreamLocal, msgs)

	ctx := context.Background()
	if err := q.AcquireWait(ctx); err != nil {
		t.Fatal(err)
	}
	q.Lock()
	stream, _ := q.PickStream()
	first := q.PopFront(stream)
	if first == nil {
		t.Fatal("PopFront returned nil")
	}

	peeked := q.PeekFront(stream)
	if peeked == nil {
		t.Fatal("PeekFront returned nil, expected second message")
	}
	if !q.TryDecrement() {
		t.Fatal("TryDecrement should succeed: producer already posted for the peeked item")
	}
	second := q.PopFront(stream)
	q.Unlock()

	if second != peeked {
		t.Fatal("PopFront after TryDecrement should return the peeked message")
	}
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", q.Len())
	}
}

func TestCloseWakesWaiterWithRunningFalse(t *testing.T) {
	q := New()
	done := make(chan bool, 1)

	go func() {
		ctx := context.Background()
		_ = q.AcquireWait(ctx)
		q.Lock()
		running := q.Running()
		q.Unlock()
		done <- running
	}()

	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case running := <-done:
		if running {
			t.Fatal("Running() should be false after Close()")
		}
	case <-time.After(time.Second):
		t.Fatal("waiter did not wake after Close()")
	}
}

func TestDrainReturnsAllPendingInOrder(t *testing.T) {
	q := New()
	q.Push(StreamLocal, []*Message{{Type: 1}, {Type: 2}})
	q.Push(StreamRemote, []*Message{{Type: 3}})

	all := q.Drain()
	if len(all) != 3 {
		t.Fatalf("Drain() returned %d messages, want 3", len(all))
	}
	if all[0].Type != 1 || all[1].Type != 2 || all[2].Type != 3 {
		t.Fatalf("Drain() order = %v, want local-then-remote FIFO order", all)
	}
	if q.Len() != 0 {
		t.Fatal("queue should be empty after Drain")
	}
}

func TestConcurrentPushersPreserveSemaphoreLenInvariant(t *testing.T) {
	q := New()
	var wg sync.WaitGroup
	const producers = 20
	const perProducer = 10

	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.Push(StreamRemote, []*Message{{Type: 200, ContextID: int32(id)}})
			}
		}(p)
	}
	wg.Wait()

	want := producers * perProducer
	if q.Len() != want {
		t.Fatalf("Len() = %d, want %d", q.Len(), want)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < want; i++ {
		if err := q.AcquireWait(ctx); err != nil {
			t.Fatalf("AcquireWait() #%d: %v", i, err)
		}
	}
}

func TestDabAreaEstimatesMatchSizeKindRules(t *testing.T) {
	cases := []struct {
		name string
		dab  Dab
		want uint64
	}{
		{"classic", Dab{SizeKind: DabSizeClassic, Size: 512}, 4},  // diameter 2 -> area 4
		{"mypaint quirk", Dab{SizeKind: DabSizeMyPaint, Size: 512}, 4}, // same divisor as classic, intentionally
		{"pixel", Dab{SizeKind: DabSizePixel, Size: 10}, 100},
		{"zero floors to one", Dab{SizeKind: DabSizePixel, Size: 0}, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.dab.Area(); got != c.want {
				t.Errorf("Area() = %d, want %d", got, c.want)
			}
		})
	}
}

func TestNonDabMessageAreaExceedsThreshold(t *testing.T) {
	m := &Message{Type: 200}
	if m.Area() <= MaxMultidabArea {
		t.Fatalf("Area() = %d, want > MaxMultidabArea for a non-dab message", m.Area())
	}
}
