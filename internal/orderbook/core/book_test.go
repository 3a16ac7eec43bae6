package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limit(id OrderID, side Side, price PriceTicks, size Size) Order {
	return Order{ID: id, Side: side, Kind: OrderKindLimit, Price: price, Size: size, Time: int64(id)}
}

func TestBookEmpty(t *testing.T) {
	b := NewBook()

	_, ok := b.BestBidPrice()
	assert.False(t, ok)
	_, ok = b.BestAskPrice()
	assert.False(t, ok)
	assert.Nil(t, b.PeekBestBidLevel())
	assert.Nil(t, b.PeekBestAskLevel())
	assert.Equal(t, Top{}, b.Top())
	assert.Zero(t, b.RestingCount())
}

func TestBookOrdersBidsDescendingAsksAscending(t *testing.T) {
	b := NewBook()
	require.NoError(t, b.AddLimit(limit(1, SideBuy, 9900, 1)))
	require.NoError(t, b.AddLimit(limit(2, SideBuy, 10000, 2)))
	require.NoError(t, b.AddLimit(limit(3, SideBuy, 9800, 3)))
	require.NoError(t, b.AddLimit(limit(4, SideSell, 10200, 4)))
	require.NoError(t, b.AddLimit(limit(5, SideSell, 10100, 5)))
	require.NoError(t, b.AddLimit(limit(6, SideSell, 10300, 6)))

	bid, ok := b.BestBidPrice()
	require.True(t, ok)
	assert.Equal(t, PriceTicks(10000), bid)

	ask, ok := b.BestAskPrice()
	require.True(t, ok)
	assert.Equal(t, PriceTicks(10100), ask)

	assert.Equal(t, []LevelInfo{
		{Price: 10000, Size: 2, Orders: 1},
		{Price: 9900, Size: 1, Orders: 1},
		{Price: 9800, Size: 3, Orders: 1},
	}, b.Depth(SideBuy, 0))
	assert.Equal(t, []LevelInfo{
		{Price: 10100, Size: 5, Orders: 1},
		{Price: 10200, Size: 4, Orders: 1},
	}, b.Depth(SideSell, 2))
	assert.Equal(t, 6, b.RestingCount())
}

func TestBookAddLimitAggregatesAndKeepsFIFO(t *testing.T) {
	b := NewBook()
	require.NoError(t, b.AddLimit(limit(1, SideSell, 10100, 5)))
	require.NoError(t, b.AddLimit(limit(2, SideSell, 10100, 3)))
	require.NoError(t, b.AddLimit(limit(3, SideSell, 10100, 7)))

	l := b.PeekBestAskLevel()
	require.NotNil(t, l)
	assert.Equal(t, PriceTicks(10100), l.Price())
	assert.Equal(t, Size(15), l.TotalSize())
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 1, b.LevelCount(SideSell))

	ids := make([]OrderID, 0, 3)
	for _, o := range l.Orders() {
		ids = append(ids, o.ID)
	}
	assert.Equal(t, []OrderID{1, 2, 3}, ids)
}

func TestBookAddLimitRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		order Order
	}{
		{"zero price", limit(1, SideBuy, 0, 5)},
		{"negative price", limit(1, SideSell, -10, 5)},
		{"zero size", limit(1, SideBuy, 100, 0)},
		{"zero id", limit(0, SideBuy, 100, 1)},
		{"market kind", Order{ID: 1, Side: SideBuy, Kind: OrderKindMarket, Size: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBook()
			err := b.AddLimit(tt.order)
			require.ErrorIs(t, err, ErrInvalidArgument)
			assert.Zero(t, b.RestingCount())
			assert.Zero(t, b.LevelCount(SideBuy))
			assert.Zero(t, b.LevelCount(SideSell))
		})
	}
}

func TestBookDequeueAtRemovesEmptyLevel(t *testing.T) {
	b := NewBook()
	require.NoError(t, b.AddLimit(limit(1, SideBuy, 10000, 4)))
	require.NoError(t, b.AddLimit(limit(2, SideBuy, 10000, 6)))
	require.NoError(t, b.AddLimit(limit(3, SideBuy, 9900, 1)))

	o, ok := b.DequeueAt(10000, SideBuy)
	require.True(t, ok)
	assert.Equal(t, OrderID(1), o.ID)
	assert.Equal(t, Size(4), o.Size)

	l := b.PeekBestBidLevel()
	require.NotNil(t, l)
	assert.Equal(t, PriceTicks(10000), l.Price())
	assert.Equal(t, Size(6), l.TotalSize())

	o, ok = b.DequeueAt(10000, SideBuy)
	require.True(t, ok)
	assert.Equal(t, OrderID(2), o.ID)

	bid, ok := b.BestBidPrice()
	require.True(t, ok)
	assert.Equal(t, PriceTicks(9900), bid)
	_, ok = b.Level(SideBuy, 10000)
	assert.False(t, ok)

	_, ok = b.DequeueAt(10000, SideBuy)
	assert.False(t, ok)
	_, ok = b.DequeueAt(9900, SideSell)
	assert.False(t, ok)
	assert.Equal(t, 1, b.RestingCount())
}

func TestPriceLevelSnapshotsDoNotAlias(t *testing.T) {
	b := NewBook()
	require.NoError(t, b.AddLimit(limit(1, SideSell, 10100, 5)))

	l := b.PeekBestAskLevel()
	head, ok := l.Head()
	require.True(t, ok)
	head.Size = 1

	again, _ := l.Head()
	assert.Equal(t, Size(5), again.Size)
	assert.Equal(t, Size(5), l.TotalSize())
}

func TestPeekedLevelReflectsMatching(t *testing.T) {
	b := NewBook()
	e := NewEngine(b, newTestClock())
	require.NoError(t, b.AddLimit(limit(1, SideSell, 10100, 5)))

	l := b.PeekBestAskLevel()
	_, err := e.Process(Order{ID: 2, Side: SideBuy, Kind: OrderKindMarket, Size: 2}, 1)
	require.NoError(t, err)

	assert.Equal(t, Size(3), l.TotalSize())
	head, _ := l.Head()
	assert.Equal(t, Size(3), head.Size)
}

func TestNewPriceLevelRejectsNonPositivePrice(t *testing.T) {
	_, err := newPriceLevel(SideBuy, 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}
