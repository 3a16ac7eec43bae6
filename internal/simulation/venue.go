// Package simulation drives strategies against a matching venue and keeps
// score for the simulated account.
package simulation

import (
	"context"

	"github.com/zappabad/tickmatch/internal/clock"
	"github.com/zappabad/tickmatch/internal/metrics"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

// Venue accepts orders and reports the top of book. The concurrent
// orderbook service and Direct both satisfy it.
type Venue interface {
	Submit(ctx context.Context, o core.Order) ([]core.Trade, error)
	Top() core.Top
}

// Direct is a Venue calling the engine inline on the caller's goroutine.
// It is not safe for concurrent use.
type Direct struct {
	engine  *core.Engine
	clock   clock.Clock
	metrics *metrics.Collector
}

// NewDirect creates a Direct venue over a fresh book. m may be nil.
func NewDirect(clk clock.Clock, m *metrics.Collector) *Direct {
	return &Direct{
		engine:  core.NewEngine(core.NewBook(), clk),
		clock:   clk,
		metrics: m,
	}
}

// Submit stamps o with the accept time and matches it.
func (d *Direct) Submit(ctx context.Context, o core.Order) ([]core.Trade, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.Validate(); err != nil {
		d.metrics.ObserveReject("invalid_argument")
		return nil, err
	}

	trades, err := d.engine.Process(o, d.clock.Now())
	if err != nil {
		return trades, err
	}

	d.metrics.ObserveOrder(o)
	for _, tr := range trades {
		d.metrics.ObserveTrade(tr, d.clock.Frequency())
	}
	if o.Kind == core.OrderKindLimit && filled(trades) < o.Size {
		d.metrics.ObserveRested()
	}
	book := d.engine.Book()
	d.metrics.SetBook(book.Top(), book.RestingCount())
	return trades, nil
}

func (d *Direct) Top() core.Top { return d.engine.Book().Top() }

// Book exposes the underlying book for depth reporting.
func (d *Direct) Book() *core.Book { return d.engine.Book() }

func filled(trades []core.Trade) core.Size {
	var n core.Size
	for _, tr := range trades {
		n += tr.Size
	}
	return n
}
