// Package device provides the execution backend for per-tick recording
// operations. A Device owns the growable storage that recorders append into
// and compiles declarative operation templates into executable operations,
// so that the recorders themselves stay independent of how and where the
// work is executed.
package device

// A Series is an append-only sequence of float64 samples owned by a device.
// Appends are amortized O(1) and preserve insertion order. Readers only ever
// see independent copies: mutating a slice returned by CopyOut never affects
// the series, and later appends never show up in previously returned slices.
type Series interface {
	// Len returns the number of samples appended so far. O(1).
	Len() int

	// Append adds one sample at the end of the series.
	Append(v float64)

	// CopyOut returns a newly allocated copy of all samples in insertion
	// order.
	CopyOut() []float64

	// Reset truncates the series to length zero and releases the backing
	// storage.
	Reset()
}

// hostSeries keeps samples in process memory, growing geometrically through
// the built-in append.
type hostSeries struct {
	label string
	data  []float64
}

func (s *hostSeries) Len() int {
	return len(s.data)
}

func (s *hostSeries) Append(v float64) {
	s.data = append(s.data, v)
}

func (s *hostSeries) CopyOut() []float64 {
	out := make([]float64, len(s.data))
	copy(out, s.data)
	return out
}

func (s *hostSeries) Reset() {
	s.data = nil
}
