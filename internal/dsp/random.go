package dsp

// Random is the single dynamic-dispatch point allowed in the hot path.
// The caller supplies an implementation once per Process call; the engine
// calls it a small bounded number of times per block (flutter gating,
// impulse-probability trials, Ornstein-Uhlenbeck noise).
type Random interface {
	// Normal returns a finite-magnitude noise sample. The engine does not
	// constrain its distribution beyond that.
	Normal() float32
}
