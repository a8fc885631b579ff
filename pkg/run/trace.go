package run

import (
	"sync"
	"time"
)

const (
	traceSamplesDefault   = 240
	defaultTraceThreshold = 16667 * time.Microsecond
)

// PhaseTimings captures time spent in each phase of a cycle.
type PhaseTimings struct {
	Run     time.Duration `json:"run"`
	Sync    time.Duration `json:"sync"`
	Rebuild time.Duration `json:"rebuild"`
}

// Total returns the summed phase time.
func (p PhaseTimings) Total() time.Duration {
	return p.Run + p.Sync + p.Rebuild
}

// CycleSample describes one completed cycle of a run loop.
type CycleSample struct {
	// Cycle is the 1-based cycle number.
	Cycle uint64 `json:"cycle"`
	// Timestamp is when the loop woke for this cycle.
	Timestamp time.Time `json:"ts"`
	// Phases holds per-phase durations. Rebuild is zero when Done.
	Phases PhaseTimings `json:"phases"`
	// Events is the number of events delivered during the run pass.
	Events uint64 `json:"events"`
	// Done reports that sync ended the loop in this cycle.
	Done bool `json:"done,omitempty"`
}

// Timeline is a chronological copy of a TraceBuffer.
type Timeline struct {
	Samples   []CycleSample `json:"samples"`
	Slow      int           `json:"slow"`
	Threshold time.Duration `json:"threshold"`
}

// TraceBuffer stores recent cycle samples in a ring buffer and counts cycles
// slower than a threshold. It is safe for concurrent use.
type TraceBuffer struct {
	mu        sync.RWMutex
	samples   []CycleSample
	index     int
	count     int
	slow      int
	threshold time.Duration
}

// NewTraceBuffer creates a trace buffer. Non-positive arguments select the
// defaults (240 samples, 16.67ms).
func NewTraceBuffer(capacity int, threshold time.Duration) *TraceBuffer {
	if capacity <= 0 {
		capacity = traceSamplesDefault
	}
	if threshold <= 0 {
		threshold = defaultTraceThreshold
	}
	return &TraceBuffer{
		samples:   make([]CycleSample, capacity),
		threshold: threshold,
	}
}

// Capacity returns the buffer capacity.
func (b *TraceBuffer) Capacity() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.samples)
}

// Add records a sample.
func (b *TraceBuffer) Add(sample CycleSample) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	if sample.Phases.Total() > b.threshold {
		b.slow++
	}
	b.mu.Unlock()
}

// Snapshot returns the stored samples, oldest first.
func (b *TraceBuffer) Snapshot() Timeline {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return Timeline{Threshold: b.threshold}
	}

	result := make([]CycleSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		// Buffer full - oldest sample is at b.index
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}

	return Timeline{
		Samples:   result,
		Slow:      b.slow,
		Threshold: b.threshold,
	}
}
