package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

func TestPnLLongThenPartialSell(t *testing.T) {
	p := NewPnL()
	require.NoError(t, p.ApplyFill(core.SideBuy, 10000, 10))
	require.NoError(t, p.ApplyFill(core.SideSell, 10100, 4))

	assert.Equal(t, int64(6), p.Position())
	assert.Equal(t, core.PriceTicks(10000), p.AvgCost())
	assert.Equal(t, int64(400), p.Realized())
}

func TestPnLFlips(t *testing.T) {
	tests := []struct {
		name         string
		first, flip  core.Side
		firstPx      core.PriceTicks
		flipPx       core.PriceTicks
		wantPosition int64
		wantAvg      core.PriceTicks
	}{
		{"long to short", core.SideBuy, core.SideSell, 10000, 10100, -3, 10100},
		{"short to long", core.SideSell, core.SideBuy, 10000, 9900, 3, 9900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPnL()
			require.NoError(t, p.ApplyFill(tt.first, tt.firstPx, 5))
			require.NoError(t, p.ApplyFill(tt.flip, tt.flipPx, 8))

			assert.Equal(t, int64(500), p.Realized())
			assert.Equal(t, tt.wantPosition, p.Position())
			assert.Equal(t, tt.wantAvg, p.AvgCost())
			assert.Equal(t, int64(2), p.Fills())
		})
	}
}

func TestPnLWeightedAverageTruncates(t *testing.T) {
	p := NewPnL()
	require.NoError(t, p.ApplyFill(core.SideBuy, 100, 1))
	require.NoError(t, p.ApplyFill(core.SideBuy, 101, 2))

	// (100*1 + 101*2) / 3 = 100.67
	assert.Equal(t, core.PriceTicks(100), p.AvgCost())
	assert.Equal(t, int64(3), p.Position())

	p = NewPnL()
	require.NoError(t, p.ApplyFill(core.SideSell, 200, 3))
	require.NoError(t, p.ApplyFill(core.SideSell, 210, 1))
	assert.Equal(t, core.PriceTicks(202), p.AvgCost())
	assert.Equal(t, int64(-4), p.Position())
}

func TestPnLExactCloseLeavesFlat(t *testing.T) {
	p := NewPnL()
	require.NoError(t, p.ApplyFill(core.SideSell, 10000, 4))
	require.NoError(t, p.ApplyFill(core.SideBuy, 10050, 4))

	assert.Zero(t, p.Position())
	assert.Equal(t, int64(-200), p.Realized())
	require.NoError(t, p.UpdateMark(99999))
	assert.Zero(t, p.Unrealized())
	assert.Equal(t, int64(-200), p.Total())
}

func TestPnLUnrealizedAndTotal(t *testing.T) {
	p := NewPnL()
	require.NoError(t, p.ApplyFill(core.SideBuy, 10100, 7))
	require.NoError(t, p.UpdateMark(10075))

	assert.Equal(t, int64(-175), p.Unrealized())
	assert.Equal(t, int64(-175), p.Total())

	require.NoError(t, p.ApplyFill(core.SideSell, 10200, 2))
	assert.Equal(t, int64(200), p.Realized())
	assert.Equal(t, int64(5), p.Position())
	assert.Equal(t, PnLSnapshot{
		Position:   5,
		AvgCost:    10100,
		Realized:   200,
		Mark:       10075,
		Unrealized: -125,
		Total:      75,
		Fills:      2,
	}, p.Snapshot())

	p = NewPnL()
	require.NoError(t, p.ApplyFill(core.SideSell, 10000, 2))
	require.NoError(t, p.UpdateMark(9990))
	assert.Equal(t, int64(20), p.Unrealized())
}

func TestPnLRejectsWithoutMutation(t *testing.T) {
	p := NewPnL()
	require.NoError(t, p.ApplyFill(core.SideBuy, 10000, 3))
	require.NoError(t, p.UpdateMark(10010))
	before := p.Snapshot()

	require.ErrorIs(t, p.ApplyFill(core.SideSell, 10000, 0), core.ErrInvalidArgument)
	require.ErrorIs(t, p.ApplyFill(core.SideSell, 10000, -2), core.ErrInvalidArgument)
	require.ErrorIs(t, p.ApplyFill(core.Side(9), 10000, 1), core.ErrInvalidArgument)
	require.ErrorIs(t, p.UpdateMark(0), core.ErrInvalidArgument)
	require.ErrorIs(t, p.UpdateMark(-1), core.ErrInvalidArgument)

	assert.Equal(t, before, p.Snapshot())
}

func TestMarkPriceCascade(t *testing.T) {
	m := NewMarkPrice()

	m.UpdateFromBook(core.Quote{}, core.Quote{}, 9800)
	assert.Equal(t, core.PriceTicks(9800), m.Current())
	_, ok := m.LastTrade()
	assert.False(t, ok)

	m.UpdateFromBook(core.Quote{Price: 10000, Size: 1, OK: true}, core.Quote{Price: 10201, Size: 1, OK: true}, 9900)
	assert.Equal(t, core.PriceTicks(10100), m.Current())

	m.OnTrade(core.Trade{Price: 10300, Size: 1})
	assert.Equal(t, core.PriceTicks(10300), m.Current())
	last, ok := m.LastTrade()
	require.True(t, ok)
	assert.Equal(t, core.PriceTicks(10300), last)

	m.UpdateFromBook(core.Quote{Price: 10000, Size: 1, OK: true}, core.Quote{}, 9900)
	assert.Equal(t, core.PriceTicks(10300), m.Current())

	m.UpdateFromBook(core.Quote{}, core.Quote{Price: 10500, Size: 1, OK: true}, 9900)
	assert.Equal(t, core.PriceTicks(10300), m.Current())

	m.UpdateFromBook(core.Quote{Price: 10000, Size: 1, OK: true}, core.Quote{Price: 10002, Size: 1, OK: true}, 9900)
	assert.Equal(t, core.PriceTicks(10001), m.Current())
}

func TestLatencyConvertsTicksToMicroseconds(t *testing.T) {
	const freq = 10_000_000
	l, err := NewLatencyTracker(freq)
	require.NoError(t, err)

	assert.True(t, l.Record(1_000, 1_000+freq))
	assert.True(t, l.Record(0, 25))

	st := l.Stats()
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, int64(2), st.P50Us)
	assert.Equal(t, int64(2), st.P95Us)
	assert.Equal(t, int64(500_001), st.AvgUs)
}

func TestLatencyLongDeltaDoesNotOverflow(t *testing.T) {
	const freq = 1_000_000_000
	l, err := NewLatencyTracker(freq)
	require.NoError(t, err)

	tenHours := int64(10 * 3600 * freq)
	require.True(t, l.Record(7, 7+tenHours))
	assert.Equal(t, int64(36_000_000_000), l.Stats().AvgUs)
}

func TestTicksToMicrosFloors(t *testing.T) {
	tests := []struct {
		delta, freq, want int64
	}{
		{delta: 5, freq: 3, want: 1_666_666},
		{delta: 1, freq: 3, want: 333_333},
		{delta: 25, freq: 10_000_000, want: 2},
		{delta: 1_500, freq: 1_000_000, want: 1_500},
		{delta: 2_500_000_001, freq: 1_000_000_000, want: 2_500_000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ticksToMicros(tt.delta, tt.freq), "delta=%d freq=%d", tt.delta, tt.freq)
	}
}

func TestLatencyPercentiles(t *testing.T) {
	const freq = 1_000_000_000
	l, err := NewLatencyTracker(freq)
	require.NoError(t, err)

	accept := int64(10_000)
	for _, secs := range []int64{5, 1, 3, 2, 4} {
		require.True(t, l.Record(accept, accept+secs*freq))
	}
	assert.False(t, l.Record(10, 5))
	assert.False(t, l.Record(10, 10))

	assert.Equal(t, LatencyStats{
		Count: 5,
		AvgUs: 3_000_000,
		P50Us: 3_000_000,
		P95Us: 4_000_000,
	}, l.Stats())
}

func TestLatencyEmptyAndTrade(t *testing.T) {
	l, err := NewLatencyTracker(1_000_000)
	require.NoError(t, err)
	assert.Equal(t, LatencyStats{}, l.Stats())

	assert.True(t, l.RecordTrade(core.Trade{AcceptTime: 10, FillTime: 35}))
	assert.Equal(t, LatencyStats{Count: 1, AvgUs: 25, P50Us: 25, P95Us: 25}, l.Stats())
	assert.Equal(t, 1, l.Len())
}

func TestNewLatencyTrackerRejectsBadFrequency(t *testing.T) {
	_, err := NewLatencyTracker(0)
	require.ErrorIs(t, err, core.ErrInvalidArgument)
}
