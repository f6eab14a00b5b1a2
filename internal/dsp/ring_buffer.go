package dsp

// RingBuffer is power-of-two circular storage with relative indexing,
// modeled on the masked head/tail indexing the reference APU ring buffer
// uses for its sample queues, generalized to peek-in-the-past semantics.
type RingBuffer struct {
	data       []float32
	mask       uint32
	writeIndex uint32
}

// NewRingBuffer wraps a slice whose length must be a power of two.
func NewRingBuffer(backing []float32) *RingBuffer {
	n := len(backing)
	if n == 0 || n&(n-1) != 0 {
		panic("dsp: ring buffer length must be a power of two")
	}
	return &RingBuffer{data: backing, mask: uint32(n - 1)}
}

// Len reports the buffer's fixed capacity.
func (r *RingBuffer) Len() int { return len(r.data) }

// Write stores x at the current write index then advances it by one,
// modulo the buffer length.
func (r *RingBuffer) Write(x float32) {
	r.data[r.writeIndex&r.mask] = x
	r.writeIndex++
}

// Peek returns the sample written k+1 steps ago; k=0 is the most recently
// written sample. k may be any non-negative int; indexing wraps modulo N.
func (r *RingBuffer) Peek(k int) float32 {
	idx := (r.writeIndex - 1 - uint32(k)) & r.mask
	return r.data[idx]
}

// PeekMut returns a pointer to the slot Peek(k) would read, so callers can
// sum feedback into it in place.
func (r *RingBuffer) PeekMut(k int) *float32 {
	idx := (r.writeIndex - 1 - uint32(k)) & r.mask
	return &r.data[idx]
}

// WriteIndex exposes the raw, ever-increasing write cursor (not masked).
func (r *RingBuffer) WriteIndex() uint32 { return r.writeIndex }
