// Package fpenv holds the engine's denormals hook: Supported reports
// whether the host CPU has SSE2 or ASIMD, and Guard is called around each
// block. Guard leaves the floating-point environment unchanged, so
// subnormal results are not flushed to zero.
package fpenv

import "golang.org/x/sys/cpu"

// Supported reports whether this host has SSE2 (amd64) or ASIMD (arm64),
// as detected by golang.org/x/sys/cpu. Guard does not act on the result.
func Supported() bool {
	return cpu.X86.HasSSE2 || cpu.ARM64.HasASIMD
}

// Guard is called once per audio block, not per filter tick, and returns
// a restore function to call when the block is done.
//
// Go's runtime does not expose MXCSR/FPCR manipulation without assembly
// or cgo, which this module does not carry; Guard therefore changes
// nothing on any platform and its restore function does nothing.
func Guard() (restore func()) {
	return func() {}
}
