// Package analytics tracks position, mark price and fill latency for a
// single trading account. None of the types here are safe for concurrent
// use; the goroutine driving the instrument owns them.
package analytics

import "github.com/zappabad/tickmatch/internal/orderbook/core"

// PnL tracks one account's position, average cost and realized PnL in
// ticks. Unrealized and total PnL are computed on read.
type PnL struct {
	position int64
	avgCost  core.PriceTicks
	realized int64
	mark     core.PriceTicks
	fills    int64
}

// PnLSnapshot is a point-in-time copy of a PnL tracker.
type PnLSnapshot struct {
	Position   int64
	AvgCost    core.PriceTicks
	Realized   int64
	Mark       core.PriceTicks
	Unrealized int64
	Total      int64
	Fills      int64
}

// NewPnL returns a flat tracker with no mark.
func NewPnL() *PnL { return &PnL{} }

// Position is the signed open quantity; negative means short.
func (p *PnL) Position() int64 { return p.position }

// AvgCost is the entry price of the open position. It keeps its last
// value after the position goes flat.
func (p *PnL) AvgCost() core.PriceTicks { return p.avgCost }

// Realized is the cumulative closed PnL in ticks.
func (p *PnL) Realized() int64 { return p.realized }

// Mark is the last price passed to UpdateMark.
func (p *PnL) Mark() core.PriceTicks { return p.mark }

// Fills counts the executions applied.
func (p *PnL) Fills() int64 { return p.fills }

// Total is realized plus unrealized PnL.
func (p *PnL) Total() int64 { return p.realized + p.Unrealized() }

// Unrealized is (mark - avgCost) * position, or zero when flat.
func (p *PnL) Unrealized() int64 {
	if p.position == 0 {
		return 0
	}
	return int64(p.mark-p.avgCost) * p.position
}

// Snapshot copies the tracker state, including derived PnL.
func (p *PnL) Snapshot() PnLSnapshot {
	return PnLSnapshot{
		Position:   p.position,
		AvgCost:    p.avgCost,
		Realized:   p.realized,
		Mark:       p.mark,
		Unrealized: p.Unrealized(),
		Total:      p.Total(),
		Fills:      p.fills,
	}
}

// UpdateMark sets the price used to value the open position.
func (p *PnL) UpdateMark(price core.PriceTicks) error {
	if price <= 0 {
		return core.InvalidArgument("mark price must be positive, got %d", price)
	}
	p.mark = price
	return nil
}

// ApplyFill books one execution for the account. A fill against the open
// position closes at the average cost first; any excess opens a new
// position on the other side at the fill price.
func (p *PnL) ApplyFill(side core.Side, price core.PriceTicks, qty core.Size) error {
	if qty <= 0 {
		return core.InvalidArgument("fill quantity must be positive, got %d", qty)
	}
	if !side.Valid() {
		return core.InvalidArgument("unknown side %d", side)
	}

	q := int64(qty)
	dir := int64(1)
	if side == core.SideSell {
		dir = -1
	}
	p.fills++

	// Extending (or opening from flat).
	if p.position == 0 || (p.position > 0) == (dir > 0) {
		held := abs(p.position)
		if held == 0 {
			p.avgCost = price
		} else {
			p.avgCost = core.PriceTicks((int64(p.avgCost)*held + int64(price)*q) / (held + q))
		}
		p.position += dir * q
		return nil
	}

	closing := min(q, abs(p.position))
	if p.position > 0 {
		p.realized += int64(price-p.avgCost) * closing
	} else {
		p.realized += int64(p.avgCost-price) * closing
	}
	p.position += dir * closing

	if rest := q - closing; rest > 0 {
		p.avgCost = price
		p.position = dir * rest
	}
	return nil
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
