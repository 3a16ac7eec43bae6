package simulation

import (
	"context"
	"fmt"

	"github.com/zappabad/tickmatch/internal/clock"
	"github.com/zappabad/tickmatch/internal/ids"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

// ScenarioFallbackMark values the position when the book is one sided and
// nothing has traded.
const ScenarioFallbackMark core.PriceTicks = 10000

// RunScenario plays a fixed script against venue: an outside ask of
// 10100x10 and bid of 10050x5, then an agent market buy of 7. The agent
// position is marked to the book afterwards.
func RunScenario(ctx context.Context, venue Venue, gen ids.Generator, clk clock.Clock) (Result, error) {
	acct, err := newAccount(clk.Frequency(), nil)
	if err != nil {
		return Result{}, err
	}

	script := []struct {
		side  core.Side
		kind  core.OrderKind
		price core.PriceTicks
		size  core.Size
		agent bool
	}{
		{core.SideSell, core.OrderKindLimit, 10100, 10, false},
		{core.SideBuy, core.OrderKindLimit, 10050, 5, false},
		{core.SideBuy, core.OrderKindMarket, 0, 7, true},
	}

	for _, step := range script {
		o, err := core.NewOrder(gen.Next(), step.side, step.kind, step.price, step.size, clk.Now())
		if err != nil {
			return Result{}, err
		}
		if step.agent {
			acct.own(o.ID)
		}
		trades, err := venue.Submit(ctx, o)
		if err != nil {
			return Result{}, fmt.Errorf("scenario order %d: %w", o.ID, err)
		}
		if err := acct.onTrades(trades); err != nil {
			return Result{}, err
		}
	}

	top := venue.Top()
	if err := acct.revalue(top, ScenarioFallbackMark); err != nil {
		return Result{}, err
	}
	return acct.result(top), nil
}
