package syncq

import (
	"context"
	"testing"
	"time"
)

func TestAttributeQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewAttributeQueue[int](2)
	q.Push(1)
	q.Push(2)
	q.Push(3) // queue full at 1,2 -> drops 1, keeps 2,3

	first, ok := q.TryPop()
	if !ok || first != 2 {
		t.Fatalf("first pop = (%v, %v), want (2, true)", first, ok)
	}
	second, ok := q.TryPop()
	if !ok || second != 3 {
		t.Fatalf("second pop = (%v, %v), want (3, true)", second, ok)
	}
	if _, ok := q.TryPop(); ok {
		t.Fatalf("pop from an empty queue reported ok")
	}
}

func TestAttributeQueue_LenTracksPending(t *testing.T) {
	q := NewAttributeQueue[string](4)
	if q.Len() != 0 {
		t.Fatalf("Len() = %d on a fresh queue, want 0", q.Len())
	}
	q.Push("a")
	q.Push("b")
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	q.TryPop()
	if q.Len() != 1 {
		t.Fatalf("Len() after one pop = %d, want 1", q.Len())
	}
}

func TestReactionQueue_PushThenPopRoundTrips(t *testing.T) {
	q := NewReactionQueue[int](4)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if err := q.PushBlocking(ctx, i); err != nil {
			t.Fatalf("PushBlocking(%d): %v", i, err)
		}
	}
	for i := 0; i < 4; i++ {
		v, ok := q.TryPop()
		if !ok || v != i {
			t.Fatalf("TryPop() = (%v, %v), want (%d, true)", v, ok, i)
		}
	}
	if _, ok := q.TryPop(); ok {
		t.Fatalf("pop from a drained queue reported ok")
	}
}

func TestReactionQueue_PushBlocksOnceFull(t *testing.T) {
	q := NewReactionQueue[int](1)
	ctx := context.Background()
	if err := q.PushBlocking(ctx, 1); err != nil {
		t.Fatalf("first PushBlocking: %v", err)
	}

	ctx2, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := q.PushBlocking(ctx2, 2); err == nil {
		t.Fatalf("PushBlocking onto a full capacity-1 queue should have blocked until timeout")
	}

	if v, ok := q.TryPop(); !ok || v != 1 {
		t.Fatalf("TryPop() = (%v, %v), want (1, true)", v, ok)
	}
	if err := q.PushBlocking(ctx, 2); err != nil {
		t.Fatalf("PushBlocking after draining: %v", err)
	}
}
