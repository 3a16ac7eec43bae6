package clock

import (
	"sync"
	"time"
)

// Clock supplies monotonically increasing integer ticks and the number of
// ticks per second.
type Clock interface {
	Now() int64
	Frequency() int64
}

// Monotonic reads Go's monotonic clock with nanosecond ticks.
type Monotonic struct {
	start time.Time
}

// NewMonotonic creates a Monotonic clock anchored at the current instant.
func NewMonotonic() *Monotonic {
	return &Monotonic{start: time.Now()}
}

// Now returns nanoseconds elapsed since the clock was created.
func (m *Monotonic) Now() int64 { return int64(time.Since(m.start)) }

// Frequency returns ticks per second.
func (m *Monotonic) Frequency() int64 { return int64(time.Second) }

// Manual is a deterministic clock. Every Now call returns the current value
// and then advances it by Step. Safe for concurrent use.
type Manual struct {
	mu   sync.Mutex
	now  int64
	step int64
	freq int64
}

// NewManual creates a Manual clock starting at start, advancing by step on
// each read, reporting freq ticks per second.
func NewManual(start, step, freq int64) *Manual {
	if freq <= 0 {
		freq = int64(time.Second)
	}
	return &Manual{now: start, step: step, freq: freq}
}

// Now implements Clock.
func (m *Manual) Now() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now
	m.now += m.step
	return t
}

// Frequency implements Clock.
func (m *Manual) Frequency() int64 { return m.freq }

// Advance moves the clock forward by d ticks without a read.
func (m *Manual) Advance(d int64) {
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()
}

// Set pins the next value returned by Now.
func (m *Manual) Set(t int64) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

// Peek returns the next value Now would return without advancing.
func (m *Manual) Peek() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
