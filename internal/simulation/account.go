package simulation

import (
	"fmt"

	"github.com/zappabad/tickmatch/internal/analytics"
	"github.com/zappabad/tickmatch/internal/metrics"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

// Result is the outcome of a scenario or simulation run.
type Result struct {
	Trades  []core.Trade
	Top     core.Top
	PnL     analytics.PnLSnapshot
	Latency analytics.LatencyStats
}

// account books trades for the agent's orders and tracks mark and latency
// for every trade on the venue.
type account struct {
	owned   map[core.OrderID]struct{}
	pnl     *analytics.PnL
	mark    *analytics.MarkPrice
	latency *analytics.LatencyTracker
	trades  []core.Trade
	metrics *metrics.Collector
}

func newAccount(freq int64, m *metrics.Collector) (*account, error) {
	lt, err := analytics.NewLatencyTracker(freq)
	if err != nil {
		return nil, err
	}
	return &account{
		owned:   make(map[core.OrderID]struct{}),
		pnl:     analytics.NewPnL(),
		mark:    analytics.NewMarkPrice(),
		latency: lt,
		metrics: m,
	}, nil
}

func (a *account) own(id core.OrderID) { a.owned[id] = struct{}{} }

// onTrades records latency and mark for each trade and books PnL when
// exactly one side of the trade belongs to the agent.
func (a *account) onTrades(trades []core.Trade) error {
	for _, tr := range trades {
		a.trades = append(a.trades, tr)
		a.latency.RecordTrade(tr)
		a.mark.OnTrade(tr)

		_, buyer := a.owned[tr.BuyOrderID]
		_, seller := a.owned[tr.SellOrderID]
		var err error
		switch {
		case buyer && !seller:
			err = a.pnl.ApplyFill(core.SideBuy, tr.Price, tr.Size)
		case seller && !buyer:
			err = a.pnl.ApplyFill(core.SideSell, tr.Price, tr.Size)
		}
		if err != nil {
			return fmt.Errorf("apply fill %d/%d: %w", tr.BuyOrderID, tr.SellOrderID, err)
		}
	}
	return nil
}

// revalue refreshes the mark from the book and marks the position to it.
func (a *account) revalue(top core.Top, fallback core.PriceTicks) error {
	a.mark.UpdateFromBook(top.Bid, top.Ask, fallback)
	if err := a.pnl.UpdateMark(a.mark.Current()); err != nil {
		return fmt.Errorf("update mark: %w", err)
	}
	a.metrics.SetPnL(a.pnl.Snapshot())
	return nil
}

func (a *account) result(top core.Top) Result {
	trades := make([]core.Trade, len(a.trades))
	copy(trades, a.trades)
	return Result{
		Trades:  trades,
		Top:     top,
		PnL:     a.pnl.Snapshot(),
		Latency: a.latency.Stats(),
	}
}
