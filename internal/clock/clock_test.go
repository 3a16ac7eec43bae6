package clock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualAdvancesOnRead(t *testing.T) {
	c := NewManual(100, 5, 1000)

	assert.Equal(t, int64(100), c.Now())
	assert.Equal(t, int64(105), c.Now())
	assert.Equal(t, int64(110), c.Peek())
	assert.Equal(t, int64(1000), c.Frequency())

	c.Advance(90)
	assert.Equal(t, int64(200), c.Now())

	c.Set(7)
	assert.Equal(t, int64(7), c.Now())
}

func TestManualDefaultsFrequency(t *testing.T) {
	c := NewManual(0, 1, 0)
	assert.Equal(t, int64(time.Second), c.Frequency())
}

func TestManualConcurrentReadsAreUnique(t *testing.T) {
	c := NewManual(1, 1, 1)

	const readers = 8
	const reads = 500

	var mu sync.Mutex
	seen := make(map[int64]struct{}, readers*reads)

	var wg sync.WaitGroup
	wg.Add(readers)
	for i := 0; i < readers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < reads; j++ {
				v := c.Now()
				mu.Lock()
				seen[v] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, readers*reads)
}

func TestMonotonicNeverGoesBackwards(t *testing.T) {
	c := NewMonotonic()
	prev := c.Now()
	for i := 0; i < 1000; i++ {
		now := c.Now()
		require.GreaterOrEqual(t, now, prev)
		prev = now
	}
	assert.Equal(t, int64(time.Second), c.Frequency())
}
