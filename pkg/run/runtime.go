package run

import (
	"context"
	"runtime"
	"sync"
	"time"
)

const (
	runtimeSampleIntervalDefault = 5 * time.Second
	runtimeSampleWindowDefault   = 60 * time.Second
	runtimeSampleMaxSamples      = 120
)

// RuntimeSample is a snapshot of Go runtime memory and GC stats.
type RuntimeSample struct {
	Timestamp    int64  `json:"ts"`
	Goroutines   int    `json:"goroutines"`
	HeapAlloc    uint64 `json:"heapAlloc"`
	HeapInuse    uint64 `json:"heapInuse"`
	NumGC        uint32 `json:"numGC"`
	PauseTotalNs uint64 `json:"pauseTotalNs"`
	LastPauseNs  uint64 `json:"lastPauseNs"`
}

// RuntimeBuffer stores recent runtime samples in a ring buffer.
type RuntimeBuffer struct {
	mu       sync.RWMutex
	samples  []RuntimeSample
	index    int
	count    int
	interval time.Duration
}

// NewRuntimeBuffer creates a buffer holding window/interval samples, capped
// at 120. Non-positive arguments select 5s and 60s.
func NewRuntimeBuffer(window, interval time.Duration) *RuntimeBuffer {
	if interval <= 0 {
		interval = runtimeSampleIntervalDefault
	}
	if window <= 0 {
		window = runtimeSampleWindowDefault
	}
	capacity := min(max(int(window/interval), 1), runtimeSampleMaxSamples)
	return &RuntimeBuffer{
		samples:  make([]RuntimeSample, capacity),
		interval: interval,
	}
}

// Interval returns the sampling interval.
func (b *RuntimeBuffer) Interval() time.Duration {
	return b.interval
}

// Add stores a sample.
func (b *RuntimeBuffer) Add(sample RuntimeSample) {
	b.mu.Lock()
	b.samples[b.index] = sample
	b.index = (b.index + 1) % len(b.samples)
	if b.count < len(b.samples) {
		b.count++
	}
	b.mu.Unlock()
}

// Snapshot returns samples oldest first.
func (b *RuntimeBuffer) Snapshot() []RuntimeSample {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}
	result := make([]RuntimeSample, b.count)
	if b.count < len(b.samples) {
		copy(result, b.samples[:b.count])
	} else {
		copy(result, b.samples[b.index:])
		copy(result[len(b.samples)-b.index:], b.samples[:b.index])
	}
	return result
}

// Sample records one sample immediately and then one per interval until ctx
// is done. It blocks; run it on its own goroutine.
func (b *RuntimeBuffer) Sample(ctx context.Context) {
	b.Add(ReadRuntimeSample())

	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			b.Add(ReadRuntimeSample())
		case <-ctx.Done():
			return
		}
	}
}

// ReadRuntimeSample reads the current runtime stats.
func ReadRuntimeSample() RuntimeSample {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	lastPause := uint64(0)
	if stats.NumGC > 0 {
		lastPause = stats.PauseNs[(stats.NumGC+255)%256]
	}

	return RuntimeSample{
		Timestamp:    time.Now().UnixMilli(),
		Goroutines:   runtime.NumGoroutine(),
		HeapAlloc:    stats.HeapAlloc,
		HeapInuse:    stats.HeapInuse,
		NumGC:        stats.NumGC,
		PauseTotalNs: stats.PauseTotalNs,
		LastPauseNs:  lastPause,
	}
}
