package fpenv

import "testing"

func TestGuard_RestoreIsCallableAndIdempotent(t *testing.T) {
	restore := Guard()
	restore()
	restore() // must not panic if called twice
}

func TestSupported_DoesNotPanic(t *testing.T) {
	_ = Supported()
}
