package core

import "github.com/tidwall/btree"

const levelDegree = 32

type bookSide struct {
	side   Side
	levels *btree.Map[PriceTicks, *PriceLevel]
}

func newBookSide(side Side) *bookSide {
	return &bookSide{
		side:   side,
		levels: btree.NewMap[PriceTicks, *PriceLevel](levelDegree),
	}
}

// best returns the highest bid or the lowest ask.
func (bs *bookSide) best() *PriceLevel {
	var (
		l  *PriceLevel
		ok bool
	)
	if bs.side == SideBuy {
		_, l, ok = bs.levels.Max()
	} else {
		_, l, ok = bs.levels.Min()
	}
	if !ok {
		return nil
	}
	return l
}

func (bs *bookSide) getOrCreate(price PriceTicks) (*PriceLevel, error) {
	if l, ok := bs.levels.Get(price); ok {
		return l, nil
	}
	l, err := newPriceLevel(bs.side, price)
	if err != nil {
		return nil, err
	}
	bs.levels.Set(price, l)
	return l, nil
}

// scan walks levels best to worst until fn returns false.
func (bs *bookSide) scan(fn func(l *PriceLevel) bool) {
	iter := func(_ PriceTicks, l *PriceLevel) bool { return fn(l) }
	if bs.side == SideBuy {
		bs.levels.Reverse(iter)
		return
	}
	bs.levels.Scan(iter)
}

// Book holds resting liquidity for one instrument: bids best-first by
// highest price, asks best-first by lowest price, FIFO within a price.
// It is not safe for concurrent use.
type Book struct {
	bids    *bookSide
	asks    *bookSide
	resting int
}

// NewBook creates an empty Book.
func NewBook() *Book {
	return &Book{
		bids: newBookSide(SideBuy),
		asks: newBookSide(SideSell),
	}
}

func (b *Book) sideFor(s Side) *bookSide {
	if s == SideBuy {
		return b.bids
	}
	return b.asks
}

// BestBidPrice returns the highest bid price, if any.
func (b *Book) BestBidPrice() (PriceTicks, bool) {
	if l := b.bids.best(); l != nil {
		return l.price, true
	}
	return 0, false
}

// BestAskPrice returns the lowest ask price, if any.
func (b *Book) BestAskPrice() (PriceTicks, bool) {
	if l := b.asks.best(); l != nil {
		return l.price, true
	}
	return 0, false
}

// PeekBestBidLevel returns the live top bid level or nil.
func (b *Book) PeekBestBidLevel() *PriceLevel { return b.bids.best() }

// PeekBestAskLevel returns the live top ask level or nil.
func (b *Book) PeekBestAskLevel() *PriceLevel { return b.asks.best() }

// Top returns the best bid and ask as value snapshots.
func (b *Book) Top() Top {
	return Top{Bid: quoteOf(b.bids.best()), Ask: quoteOf(b.asks.best())}
}

func quoteOf(l *PriceLevel) Quote {
	if l == nil {
		return Quote{}
	}
	return Quote{Price: l.price, Size: l.totalSize, OK: true}
}

// AddLimit appends a limit order to the tail of its price level, creating
// the level when absent.
func (b *Book) AddLimit(o Order) error {
	if o.Kind != OrderKindLimit {
		return InvalidArgument("only limit orders can rest, got %s", o.Kind)
	}
	if err := o.Validate(); err != nil {
		return err
	}
	l, err := b.sideFor(o.Side).getOrCreate(o.Price)
	if err != nil {
		return err
	}
	l.append(&restingOrder{
		id:    o.ID,
		side:  o.Side,
		price: o.Price,
		size:  o.Size,
		time:  o.Time,
	})
	b.resting++
	return nil
}

// DequeueAt removes and returns the head order at price on side. The level
// leaves the index as soon as its queue is empty.
func (b *Book) DequeueAt(price PriceTicks, side Side) (Order, bool) {
	bs := b.sideFor(side)
	l, ok := bs.levels.Get(price)
	if !ok {
		return Order{}, false
	}
	node := l.popHead()
	if l.Empty() {
		bs.levels.Delete(price)
	}
	if node == nil {
		return Order{}, false
	}
	b.resting--
	return node.snapshot(), true
}

// Level returns the live level at price on side.
func (b *Book) Level(side Side, price PriceTicks) (*PriceLevel, bool) {
	return b.sideFor(side).levels.Get(price)
}

// Depth returns up to n levels of side, best first. n <= 0 means all.
func (b *Book) Depth(side Side, n int) []LevelInfo {
	bs := b.sideFor(side)
	capHint := bs.levels.Len()
	if n > 0 && n < capHint {
		capHint = n
	}
	out := make([]LevelInfo, 0, capHint)
	bs.scan(func(l *PriceLevel) bool {
		out = append(out, l.Info())
		return n <= 0 || len(out) < n
	})
	return out
}

// LevelCount returns the number of price levels on side.
func (b *Book) LevelCount(side Side) int { return b.sideFor(side).levels.Len() }

// RestingCount returns the number of resting orders across both sides.
func (b *Book) RestingCount() int { return b.resting }
