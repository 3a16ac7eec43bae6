// Package view holds a read model of the book that any goroutine may query
// while the owning goroutine keeps matching.
package view

import (
	"slices"
	"sync"

	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

// BookView is a thread-safe copy of the book's depth and recent trades.
// Readers always get copies, never internal references.
type BookView struct {
	mu      sync.RWMutex
	top     core.Top
	bids    []core.LevelInfo
	asks    []core.LevelInfo
	resting int
	tape    *TradeTape
}

// NewBookView creates a new BookView with the given trade tape capacity.
func NewBookView(tapeCapacity int) *BookView {
	return &BookView{tape: NewTradeTape(tapeCapacity)}
}

// Publish replaces the depth snapshot and appends trades to the tape.
// bids and asks are taken over by the view.
func (v *BookView) Publish(top core.Top, bids, asks []core.LevelInfo, resting int, trades []core.Trade) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.top = top
	v.bids = bids
	v.asks = asks
	v.resting = resting
	for _, tr := range trades {
		v.tape.Append(tr)
	}
}

// PublishFrom snapshots up to depth levels per side from book.
func (v *BookView) PublishFrom(book *core.Book, depth int, trades []core.Trade) {
	v.Publish(book.Top(), book.Depth(core.SideBuy, depth), book.Depth(core.SideSell, depth), book.RestingCount(), trades)
}

func (v *BookView) Top() core.Top {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.top
}

// Levels returns the published levels for side, best first.
func (v *BookView) Levels(side core.Side) []core.LevelInfo {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if side == core.SideBuy {
		return slices.Clone(v.bids)
	}
	return slices.Clone(v.asks)
}

func (v *BookView) RestingCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.resting
}

// TradesLast returns the last n trades in chronological order.
func (v *BookView) TradesLast(n int) []core.Trade {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tape.Last(n)
}

// TradeCount returns how many trades have been published in total.
func (v *BookView) TradeCount() int64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tape.Total()
}
