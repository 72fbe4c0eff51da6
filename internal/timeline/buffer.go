package timeline

import "sync"

// DefaultMaxSamples bounds the value history kept for chart rendering.
const DefaultMaxSamples = 400

// Buffer holds the bounded sample history and the sparse intrusion markers
// of one trap session. Samples evict oldest-first once maxSamples is
// reached; intrusion markers are unbounded unless maxIntrusions is set.
//
// Buffer is safe for concurrent use so views can snapshot while the
// honeypot appends.
type Buffer struct {
	mu            sync.Mutex
	maxSamples    int
	maxIntrusions int
	samples       []Sample
	intrusions    []Intrusion
}

// NewBuffer creates a Buffer. maxSamples <= 0 falls back to
// DefaultMaxSamples; maxIntrusions <= 0 leaves markers unbounded.
func NewBuffer(maxSamples, maxIntrusions int) *Buffer {
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}
	if maxIntrusions < 0 {
		maxIntrusions = 0
	}
	return &Buffer{maxSamples: maxSamples, maxIntrusions: maxIntrusions}
}

// AppendSample records a sample, evicting the oldest entries once the
// buffer is full.
func (b *Buffer) AppendSample(s Sample) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.samples) >= b.maxSamples {
		drop := len(b.samples) - b.maxSamples + 1
		b.samples = append(b.samples[:0], b.samples[drop:]...)
	}
	b.samples = append(b.samples, s)
}

// MarkIntrusion records an intrusion marker.
func (b *Buffer) MarkIntrusion(i Intrusion) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.maxIntrusions > 0 && len(b.intrusions) >= b.maxIntrusions {
		drop := len(b.intrusions) - b.maxIntrusions + 1
		b.intrusions = append(b.intrusions[:0], b.intrusions[drop:]...)
	}
	b.intrusions = append(b.intrusions, i)
}

// Snapshot returns copies of the current samples and intrusion markers in
// insertion order. Mutating the returned slices does not affect the buffer.
func (b *Buffer) Snapshot() ([]Sample, []Intrusion) {
	b.mu.Lock()
	defer b.mu.Unlock()
	samples := make([]Sample, len(b.samples))
	copy(samples, b.samples)
	intrusions := make([]Intrusion, len(b.intrusions))
	copy(intrusions, b.intrusions)
	return samples, intrusions
}

// Counts reports the number of stored samples and intrusion markers.
func (b *Buffer) Counts() (samples, intrusions int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.samples), len(b.intrusions)
}

// Clear drops all samples and markers, used on trap reset.
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.samples = nil
	b.intrusions = nil
}

// MaxSamples returns the configured sample capacity.
func (b *Buffer) MaxSamples() int {
	return b.maxSamples
}
