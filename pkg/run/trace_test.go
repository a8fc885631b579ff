package run

import (
	"testing"
	"time"
)

func TestTraceBuffer_Wraps(t *testing.T) {
	b := NewTraceBuffer(3, 10*time.Millisecond)
	for i := 1; i <= 5; i++ {
		b.Add(CycleSample{Cycle: uint64(i), Phases: PhaseTimings{Run: time.Duration(i) * 3 * time.Millisecond}})
	}

	tl := b.Snapshot()
	if len(tl.Samples) != 3 {
		t.Fatalf("len(Samples) = %d, want 3", len(tl.Samples))
	}
	for i, want := range []uint64{3, 4, 5} {
		if tl.Samples[i].Cycle != want {
			t.Errorf("Samples[%d].Cycle = %d, want %d", i, tl.Samples[i].Cycle, want)
		}
	}
	// 12ms and 15ms exceed the threshold.
	if tl.Slow != 2 {
		t.Errorf("Slow = %d, want 2", tl.Slow)
	}
}

func TestTraceBuffer_Defaults(t *testing.T) {
	b := NewTraceBuffer(0, 0)
	if b.Capacity() != traceSamplesDefault {
		t.Errorf("Capacity = %d, want %d", b.Capacity(), traceSamplesDefault)
	}
	tl := b.Snapshot()
	if tl.Samples != nil || tl.Threshold != defaultTraceThreshold {
		t.Errorf("empty snapshot = %+v", tl)
	}
}

func TestPhaseTimings_Total(t *testing.T) {
	p := PhaseTimings{Run: time.Millisecond, Sync: 2 * time.Millisecond, Rebuild: 3 * time.Millisecond}
	if p.Total() != 6*time.Millisecond {
		t.Errorf("Total = %v", p.Total())
	}
}
