package core

import "github.com/zappabad/tickmatch/internal/clock"

// Engine applies price-time priority matching to a Book.
// It has no goroutines, mutexes, or channels; callers serialize access.
type Engine struct {
	book  *Book
	clock clock.Clock
}

// NewEngine creates an Engine over book. Fill timestamps are read from clk.
func NewEngine(book *Book, clk clock.Clock) *Engine {
	return &Engine{book: book, clock: clk}
}

// Book returns the book the engine mutates.
func (e *Engine) Book() *Book { return e.book }

// Process matches o against the opposite side and returns the fills in
// execution order. A limit remainder rests on the book stamped with
// acceptTime; a market remainder is dropped once the opposite side is
// exhausted.
func (e *Engine) Process(o Order, acceptTime int64) ([]Trade, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var trades []Trade
	remaining := o.Size
	opp := e.book.sideFor(o.Side.Opposite())

	for remaining > 0 {
		best := opp.best()
		if best == nil {
			break
		}
		if o.Kind == OrderKindLimit && !crosses(o.Side, o.Price, best.price) {
			break
		}

		maker := best.head
		traded := remaining
		if maker.size < traded {
			traded = maker.size
		}

		trades = append(trades, e.fill(o, maker, best.price, traded, acceptTime))

		remaining -= traded
		best.reduceHead(traded)

		if maker.size == 0 {
			e.book.DequeueAt(best.price, maker.side)
		}
	}

	if remaining > 0 && o.Kind == OrderKindLimit {
		o.Size = remaining
		o.Time = acceptTime
		if err := e.book.AddLimit(o); err != nil {
			return trades, err
		}
	}

	return trades, nil
}

func (e *Engine) fill(taker Order, maker *restingOrder, price PriceTicks, size Size, acceptTime int64) Trade {
	t := Trade{
		Price:      price,
		Size:       size,
		TakerSide:  taker.Side,
		AcceptTime: acceptTime,
		FillTime:   e.clock.Now(),
	}
	if maker.side == SideSell {
		t.BuyOrderID, t.SellOrderID = taker.ID, maker.id
	} else {
		t.BuyOrderID, t.SellOrderID = maker.id, taker.ID
	}
	return t
}

// crosses reports whether a limit at price may trade against a level at
// levelPrice. Equal prices cross.
func crosses(side Side, price, levelPrice PriceTicks) bool {
	if side == SideBuy {
		return price >= levelPrice
	}
	return price <= levelPrice
}
