package view

import "github.com/zappabad/tickmatch/internal/orderbook/core"

// TradeTape keeps the most recent trades in a fixed ring. Trade number
// seq (counting from zero) lives at ring[seq % len(ring)].
type TradeTape struct {
	ring  []core.Trade
	total int64
}

// NewTradeTape creates a tape holding up to capacity trades, at least one.
func NewTradeTape(capacity int) *TradeTape {
	return &TradeTape{ring: make([]core.Trade, max(capacity, 1))}
}

// Append records tr, evicting the oldest trade once the ring is full.
func (t *TradeTape) Append(tr core.Trade) {
	t.ring[t.total%int64(len(t.ring))] = tr
	t.total++
}

// Last copies up to n of the newest trades, oldest first.
func (t *TradeTape) Last(n int) []core.Trade {
	n = min(n, t.Count())
	if n <= 0 {
		return nil
	}
	size := int64(len(t.ring))
	out := make([]core.Trade, 0, n)
	for seq := t.total - int64(n); seq < t.total; seq++ {
		out = append(out, t.ring[seq%size])
	}
	return out
}

// Count returns the number of trades held.
func (t *TradeTape) Count() int {
	return int(min(t.total, int64(len(t.ring))))
}

// Total returns the number of trades ever appended.
func (t *TradeTape) Total() int64 {
	return t.total
}
