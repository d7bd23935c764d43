package llm

import (
	"testing"
	"time"
)

func TestLatencyStatsSnapshot(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	stats.Record(100, true)
	stats.Record(200, true)
	stats.Record(300, false)
	stats.Record(400, true)
	stats.Record(500, true)

	snap := stats.Snapshot()
	if snap.Calls != 5 || snap.Failures != 1 {
		t.Fatalf("calls=%d failures=%d, want 5 and 1", snap.Calls, snap.Failures)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("avg=%f, want 300", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("p50=%f, want 300", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("p95=%f, want 480", snap.P95Ms)
	}
}

func TestLatencyStatsEmpty(t *testing.T) {
	snap := NewLatencyStats(time.Hour).Snapshot()
	if snap != (StatsSnapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", snap)
	}
}

func TestLatencyStatsPrunesExpired(t *testing.T) {
	stats := NewLatencyStats(10 * time.Millisecond)
	stats.Record(100, true)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Calls != 0 {
		t.Fatalf("expected expired sample to be pruned, got %d calls", snap.Calls)
	}

	stats.Record(200, false)
	snap := stats.Snapshot()
	if snap.Calls != 1 || snap.Failures != 1 || snap.MinMs != 200 {
		t.Fatalf("unexpected snapshot after fresh sample: %+v", snap)
	}
}

func TestLatencyStatsClampsNegative(t *testing.T) {
	stats := NewLatencyStats(time.Hour)
	stats.Record(-10, true)
	if snap := stats.Snapshot(); snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration, got %+v", snap)
	}
}
