package inbox

import (
	"context"
	"testing"
	"time"
)

func TestBoundedTrySendFull(t *testing.T) {
	ib := New[int](Bounded(1))
	if !ib.TrySend(1) {
		t.Fatalf("first TrySend into capacity-1 inbox failed")
	}
	if ib.TrySend(2) {
		t.Fatalf("second TrySend into full capacity-1 inbox succeeded")
	}
	if got := <-ib.C(); got != 1 {
		t.Fatalf("received %d; want 1", got)
	}
}

func TestBoundedSendBlocksThenUnblocks(t *testing.T) {
	ib := New[int](Bounded(0))
	done := make(chan struct{})
	go func() {
		ib.Send(context.Background(), 1)
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("Send on a full rendezvous inbox returned before a receiver arrived")
	case <-time.After(20 * time.Millisecond):
	}
	<-ib.C()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Send never unblocked after a receiver read the value")
	}
}

func TestBoundedSendRespectsContext(t *testing.T) {
	ib := New[int](Bounded(0))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if ib.Send(ctx, 1) {
		t.Fatalf("Send with an already-cancelled context returned true")
	}
}

func TestUnboundedNeverBlocksAndPreservesOrder(t *testing.T) {
	ib := New[int](Unbounded())
	for i := 0; i < 1000; i++ {
		if !ib.TrySend(i) {
			t.Fatalf("TrySend(%d) on unbounded inbox failed", i)
		}
	}
	for i := 0; i < 1000; i++ {
		if got := <-ib.C(); got != i {
			t.Fatalf("received %d at position %d; want %d", got, i, i)
		}
	}
}

func TestUnboundedCloseDrainsThenCloses(t *testing.T) {
	ib := New[int](Unbounded())
	ib.TrySend(1)
	ib.TrySend(2)
	ib.Close()

	if got := <-ib.C(); got != 1 {
		t.Fatalf("first drained value = %d; want 1", got)
	}
	if got := <-ib.C(); got != 2 {
		t.Fatalf("second drained value = %d; want 2", got)
	}
	if _, ok := <-ib.C(); ok {
		t.Fatalf("channel still open after closed inbox fully drained")
	}
	if ib.TrySend(3) {
		t.Fatalf("TrySend succeeded on a closed inbox")
	}
}

func TestBoundedCloseClosesChannel(t *testing.T) {
	ib := New[int](Bounded(2))
	ib.Close()
	if _, ok := <-ib.C(); ok {
		t.Fatalf("channel still open after Close on empty bounded inbox")
	}
}

func TestLen(t *testing.T) {
	ib := New[int](Bounded(4))
	ib.TrySend(1)
	ib.TrySend(2)
	if got := ib.Len(); got != 2 {
		t.Fatalf("Len() = %d; want 2", got)
	}
}
