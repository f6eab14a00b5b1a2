// Package syncq provides bounded, single-producer/single-consumer queues
// for crossing the control/audio thread boundary: the control side
// (host UI, MIDI, file loader) pushes Attributes updates and pops
// Reaction telemetry; the audio callback does the opposite, and must
// never block.
package syncq

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// AttributeQueue carries dsp.Attributes values from a control goroutine
// to the audio callback. Capacity is fixed at construction; a full queue
// drops the oldest pending value rather than blocking the producer, since
// only the latest Attributes matter by the time the audio callback reads
// one.
type AttributeQueue[T any] struct {
	slots []T
	head  int
	tail  int
	count int
}

// NewAttributeQueue returns a queue holding up to capacity pending
// values.
func NewAttributeQueue[T any](capacity int) *AttributeQueue[T] {
	return &AttributeQueue[T]{slots: make([]T, capacity)}
}

// Push enqueues a value, dropping the oldest pending one if the queue is
// already full. Called only from the control goroutine.
func (q *AttributeQueue[T]) Push(v T) {
	if q.count == len(q.slots) {
		q.head = (q.head + 1) % len(q.slots)
		q.count--
	}
	q.slots[q.tail] = v
	q.tail = (q.tail + 1) % len(q.slots)
	q.count++
}

// TryPop removes and returns the oldest pending value, reporting false
// if the queue is empty. Called only from the audio callback; never
// blocks.
func (q *AttributeQueue[T]) TryPop() (T, bool) {
	var zero T
	if q.count == 0 {
		return zero, false
	}
	v := q.slots[q.head]
	q.head = (q.head + 1) % len(q.slots)
	q.count--
	return v, true
}

// Len reports the number of pending values.
func (q *AttributeQueue[T]) Len() int { return q.count }

// ReactionQueue carries dsp.Reaction values from the audio callback to a
// control goroutine that drains it on its own schedule (UI refresh,
// metering, MIDI feedback). Unlike AttributeQueue, a full ReactionQueue
// blocks the producer via a weighted semaphore bounded by capacity, so a
// slow consumer applies backpressure instead of silently losing
// telemetry; callers on the audio thread must size the queue generously
// enough that PushBlocking never actually blocks in practice.
type ReactionQueue[T any] struct {
	slots []T
	head  int
	tail  int

	empty *semaphore.Weighted // counts free slots
	full  *semaphore.Weighted // counts filled slots
}

// NewReactionQueue returns a queue holding up to capacity pending
// values.
func NewReactionQueue[T any](capacity int) *ReactionQueue[T] {
	full := semaphore.NewWeighted(int64(capacity))
	_ = full.Acquire(context.Background(), int64(capacity))
	return &ReactionQueue[T]{
		slots: make([]T, capacity),
		empty: semaphore.NewWeighted(int64(capacity)),
		full:  full,
	}
}

// PushBlocking enqueues a value, blocking only if the consumer has
// fallen capacity values behind.
func (q *ReactionQueue[T]) PushBlocking(ctx context.Context, v T) error {
	if err := q.empty.Acquire(ctx, 1); err != nil {
		return err
	}
	q.slots[q.tail] = v
	q.tail = (q.tail + 1) % len(q.slots)
	q.full.Release(1)
	return nil
}

// TryPop removes and returns the oldest pending value, reporting false
// if the queue is empty.
func (q *ReactionQueue[T]) TryPop() (T, bool) {
	var zero T
	if !q.full.TryAcquire(1) {
		return zero, false
	}
	v := q.slots[q.head]
	q.head = (q.head + 1) % len(q.slots)
	q.empty.Release(1)
	return v, true
}
