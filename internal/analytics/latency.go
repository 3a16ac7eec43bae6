package analytics

import (
	"slices"

	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

// LatencyStats summarizes recorded accept-to-fill latencies in microseconds.
type LatencyStats struct {
	Count int
	AvgUs int64
	P50Us int64
	P95Us int64
}

// LatencyTracker records accept-to-fill latencies converted from clock
// ticks to microseconds.
type LatencyTracker struct {
	freq    int64
	samples []int64
}

// NewLatencyTracker returns a tracker for a clock running at freq ticks per
// second.
func NewLatencyTracker(freq int64) (*LatencyTracker, error) {
	if freq <= 0 {
		return nil, core.InvalidArgument("clock frequency must be positive, got %d", freq)
	}
	return &LatencyTracker{freq: freq}, nil
}

// Record stores fillTs-acceptTs. Non-positive deltas are dropped and the
// method reports whether the sample was kept.
func (l *LatencyTracker) Record(acceptTs, fillTs int64) bool {
	delta := fillTs - acceptTs
	if delta <= 0 {
		return false
	}
	l.samples = append(l.samples, ticksToMicros(delta, l.freq))
	return true
}

// ticksToMicros floors delta*1e6/freq without overflowing on long deltas.
func ticksToMicros(delta, freq int64) int64 {
	return delta/freq*1_000_000 + delta%freq*1_000_000/freq
}

// RecordTrade records the latency carried by tr.
func (l *LatencyTracker) RecordTrade(tr core.Trade) bool {
	return l.Record(tr.AcceptTime, tr.FillTime)
}

// Stats returns count, integer mean, p50 and p95. Percentiles index the
// sorted samples at floor((count-1)*p).
func (l *LatencyTracker) Stats() LatencyStats {
	n := len(l.samples)
	if n == 0 {
		return LatencyStats{}
	}

	sorted := slices.Clone(l.samples)
	slices.Sort(sorted)

	var sum int64
	for _, v := range sorted {
		sum += v
	}

	return LatencyStats{
		Count: n,
		AvgUs: sum / int64(n),
		P50Us: sorted[(n-1)*50/100],
		P95Us: sorted[(n-1)*95/100],
	}
}

// Len returns the number of samples kept.
func (l *LatencyTracker) Len() int { return len(l.samples) }
