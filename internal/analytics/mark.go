package analytics

import "github.com/zappabad/tickmatch/internal/orderbook/core"

// MarkPrice derives a valuation price from the book, falling back to the
// last trade and then to a caller supplied default.
type MarkPrice struct {
	current   core.PriceTicks
	lastTrade core.PriceTicks
	hasTrade  bool
}

// NewMarkPrice returns a MarkPrice with no mark and no trade seen.
func NewMarkPrice() *MarkPrice { return &MarkPrice{} }

// UpdateFromBook sets the mark to the truncated mid when both quotes are
// present, else to the last trade price, else to fallback.
func (m *MarkPrice) UpdateFromBook(bid, ask core.Quote, fallback core.PriceTicks) {
	switch {
	case bid.OK && ask.OK:
		m.current = (bid.Price + ask.Price) / 2
	case m.hasTrade:
		m.current = m.lastTrade
	default:
		m.current = fallback
	}
}

// OnTrade makes tr's price both the mark and the last trade reference.
func (m *MarkPrice) OnTrade(tr core.Trade) {
	m.lastTrade = tr.Price
	m.hasTrade = true
	m.current = tr.Price
}

// Current returns the latest mark, zero before any update.
func (m *MarkPrice) Current() core.PriceTicks { return m.current }

// LastTrade returns the last observed trade price, if any.
func (m *MarkPrice) LastTrade() (core.PriceTicks, bool) { return m.lastTrade, m.hasTrade }
