package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/tickmatch/internal/analytics"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

func TestCollectorCountsOrdersAndTrades(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.ObserveOrder(core.Order{Side: core.SideBuy, Kind: core.OrderKindMarket})
	c.ObserveOrder(core.Order{Side: core.SideBuy, Kind: core.OrderKindMarket})
	c.ObserveOrder(core.Order{Side: core.SideSell, Kind: core.OrderKindLimit})
	c.ObserveReject("invalid_argument")
	c.ObserveRested()
	c.ObserveTrade(core.Trade{Size: 5, AcceptTime: 100, FillTime: 200}, 1_000_000_000)
	c.ObserveTrade(core.Trade{Size: 2, AcceptTime: 100, FillTime: 100}, 1_000_000_000)
	c.ObserveDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ordersProcessed.WithLabelValues("BUY", "MARKET")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ordersProcessed.WithLabelValues("SELL", "LIMIT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ordersRejected.WithLabelValues("invalid_argument")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ordersRested))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.trades))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.tradedVolume))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.droppedEvents))

	expected := `
# HELP tickmatch_trades_total Fills produced by the matching engine.
# TYPE tickmatch_trades_total counter
tickmatch_trades_total 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "tickmatch_trades_total"))

	var m dto.Metric
	require.NoError(t, c.fillLatency.Write(&m))
	assert.Equal(t, uint64(1), m.GetHistogram().GetSampleCount())
	assert.InDelta(t, 1e-7, m.GetHistogram().GetSampleSum(), 1e-12)
}

func TestCollectorGauges(t *testing.T) {
	c := New(prometheus.NewRegistry())

	c.SetBook(core.Top{Bid: core.Quote{Price: 10050, Size: 5, OK: true}}, 3)
	assert.Equal(t, 10050.0, testutil.ToFloat64(c.bestPrice.WithLabelValues("BUY")))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.bestPrice.WithLabelValues("SELL")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.restingOrder))

	c.SetPnL(analytics.PnLSnapshot{Position: -3, Realized: 500, Mark: 10075, Total: 575})
	assert.Equal(t, -3.0, testutil.ToFloat64(c.position))
	assert.Equal(t, 500.0, testutil.ToFloat64(c.realized))
	assert.Equal(t, 10075.0, testutil.ToFloat64(c.mark))
	assert.Equal(t, 575.0, testutil.ToFloat64(c.total))
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveOrder(core.Order{})
		c.ObserveReject("x")
		c.ObserveRested()
		c.ObserveTrade(core.Trade{Size: 1}, 1)
		c.ObserveDropped()
		c.SetBook(core.Top{}, 0)
		c.SetPnL(analytics.PnLSnapshot{})
	})
}

func TestNewPanicsOnDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
