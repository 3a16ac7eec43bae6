// Package metrics exposes Prometheus collectors for the matching core,
// the simulation account and the service front door.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/zappabad/tickmatch/internal/analytics"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

const namespace = "tickmatch"

// Config controls the metrics endpoint.
type Config struct {
	// Addr is the listen address for /metrics. Empty disables the endpoint.
	Addr string `mapstructure:"addr"`
}

func DefaultConfig() Config { return Config{} }

// Collector holds every metric. A nil *Collector is valid and records
// nothing.
type Collector struct {
	ordersProcessed *prometheus.CounterVec
	ordersRejected  *prometheus.CounterVec
	ordersRested    prometheus.Counter
	trades          prometheus.Counter
	tradedVolume    prometheus.Counter
	fillLatency     prometheus.Histogram
	droppedEvents   prometheus.Counter

	bestPrice    *prometheus.GaugeVec
	restingOrder prometheus.Gauge

	mark     prometheus.Gauge
	position prometheus.Gauge
	realized prometheus.Gauge
	total    prometheus.Gauge
}

// New registers all collectors with reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		ordersProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_processed_total",
			Help:      "Orders accepted by the matching engine.",
		}, []string{"side", "kind"}),
		ordersRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Orders rejected before matching.",
		}, []string{"reason"}),
		ordersRested: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rested_total",
			Help:      "Limit orders whose remainder was added to the book.",
		}),
		trades: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Fills produced by the matching engine.",
		}),
		tradedVolume: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "traded_volume_total",
			Help:      "Quantity filled across all trades.",
		}),
		fillLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fill_latency_seconds",
			Help:      "Time between order acceptance and fill.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}),
		droppedEvents: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events not delivered to the external subscriber channel.",
		}),
		bestPrice: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "best_price_ticks",
			Help:      "Best price per side in ticks, 0 when the side is empty.",
		}, []string{"side"}),
		restingOrder: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resting_orders",
			Help:      "Orders currently resting on the book.",
		}),
		mark: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "mark_price_ticks",
			Help:      "Current mark price in ticks.",
		}),
		position: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "position",
			Help:      "Signed position of the simulated account.",
		}),
		realized: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "realized_pnl_ticks",
			Help:      "Realized PnL in ticks.",
		}),
		total: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "total_pnl_ticks",
			Help:      "Realized plus unrealized PnL in ticks.",
		}),
	}
}

// ObserveOrder counts an order that passed validation.
func (c *Collector) ObserveOrder(o core.Order) {
	if c == nil {
		return
	}
	c.ordersProcessed.WithLabelValues(o.Side.String(), o.Kind.String()).Inc()
}

// ObserveReject counts a rejected order under reason.
func (c *Collector) ObserveReject(reason string) {
	if c == nil {
		return
	}
	c.ordersRejected.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveRested() {
	if c == nil {
		return
	}
	c.ordersRested.Inc()
}

// ObserveTrade records one fill. freq is the clock frequency the trade
// timestamps were taken with.
func (c *Collector) ObserveTrade(tr core.Trade, freq int64) {
	if c == nil {
		return
	}
	c.trades.Inc()
	c.tradedVolume.Add(float64(tr.Size))
	if d := tr.FillTime - tr.AcceptTime; d > 0 && freq > 0 {
		c.fillLatency.Observe(float64(d) / float64(freq))
	}
}

func (c *Collector) ObserveDropped() {
	if c == nil {
		return
	}
	c.droppedEvents.Inc()
}

// SetBook publishes the top of book and resting order count.
func (c *Collector) SetBook(top core.Top, resting int) {
	if c == nil {
		return
	}
	c.bestPrice.WithLabelValues(core.SideBuy.String()).Set(quotePrice(top.Bid))
	c.bestPrice.WithLabelValues(core.SideSell.String()).Set(quotePrice(top.Ask))
	c.restingOrder.Set(float64(resting))
}

// SetPnL publishes the account state.
func (c *Collector) SetPnL(s analytics.PnLSnapshot) {
	if c == nil {
		return
	}
	c.mark.Set(float64(s.Mark))
	c.position.Set(float64(s.Position))
	c.realized.Set(float64(s.Realized))
	c.total.Set(float64(s.Total))
}

func quotePrice(q core.Quote) float64 {
	if !q.OK {
		return 0
	}
	return float64(q.Price)
}
