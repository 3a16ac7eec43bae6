// Package strategy turns market snapshots into orders.
package strategy

import "github.com/zappabad/tickmatch/internal/orderbook/core"

// Snapshot is the market state a strategy sees on each tick.
type Snapshot struct {
	Bid  core.Quote
	Ask  core.Quote
	Mark core.PriceTicks
	Time int64
}

// Strategy produces zero or more orders for a snapshot. Returned orders
// must already carry ids from an ids.Generator.
type Strategy interface {
	OnTick(s Snapshot) ([]core.Order, error)
}

// Func adapts a plain function to Strategy.
type Func func(s Snapshot) ([]core.Order, error)

func (f Func) OnTick(s Snapshot) ([]core.Order, error) { return f(s) }
