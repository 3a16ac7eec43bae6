package core

import "strconv"

// Side represents the order side: buy or sell.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// Opposite returns the opposite side.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Valid reports whether s is one of the defined sides.
func (s Side) Valid() bool { return s == SideBuy || s == SideSell }

// OrderKind represents the order type: limit or market.
type OrderKind uint8

const (
	OrderKindLimit OrderKind = iota
	OrderKindMarket
)

func (k OrderKind) String() string {
	switch k {
	case OrderKindLimit:
		return "LIMIT"
	case OrderKindMarket:
		return "MARKET"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether k is one of the defined kinds.
func (k OrderKind) Valid() bool { return k == OrderKindLimit || k == OrderKindMarket }

// PriceTicks represents price in integer ticks.
type PriceTicks int64

func (p PriceTicks) String() string { return strconv.FormatInt(int64(p), 10) }

// Size represents order quantity.
type Size int64

func (s Size) String() string { return strconv.FormatInt(int64(s), 10) }

// OrderID uniquely identifies an order.
type OrderID int64

// Order is an input/value object (safe to pass around).
// The book keeps its own copy of a resting order; callers never alias it.
type Order struct {
	ID    OrderID
	Side  Side
	Kind  OrderKind
	Price PriceTicks // limit only; market orders carry 0
	Size  Size       // requested size (for submits); remaining size (in snapshots)
	Time  int64      // clock ticks at admission
}

// NewOrder builds an order and checks it against the admission rules.
func NewOrder(id OrderID, side Side, kind OrderKind, price PriceTicks, size Size, acceptTime int64) (Order, error) {
	o := Order{ID: id, Side: side, Kind: kind, Price: price, Size: size, Time: acceptTime}
	if err := o.Validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// Validate checks the order's admission rules.
func (o Order) Validate() error {
	if o.ID <= 0 {
		return InvalidArgument("order id must be positive, got %d", o.ID)
	}
	if !o.Side.Valid() {
		return InvalidArgument("unknown side %d", o.Side)
	}
	if o.Size <= 0 {
		return InvalidArgument("order size must be positive, got %d", o.Size)
	}
	switch o.Kind {
	case OrderKindLimit:
		if o.Price <= 0 {
			return InvalidArgument("limit price must be positive, got %d", o.Price)
		}
	case OrderKindMarket:
		if o.Price < 0 {
			return InvalidArgument("market price must be non-negative, got %d", o.Price)
		}
	default:
		return InvalidArgument("unknown order kind %d", o.Kind)
	}
	return nil
}

// IsFilled returns true if the order has no remaining size.
func (o Order) IsFilled() bool { return o.Size <= 0 }

// Trade is an immutable record of one execution.
type Trade struct {
	BuyOrderID  OrderID
	SellOrderID OrderID
	Price       PriceTicks // resting order's level price
	Size        Size
	TakerSide   Side
	AcceptTime  int64
	FillTime    int64
}

// Notional returns price times size in ticks.
func (t Trade) Notional() int64 { return int64(t.Price) * int64(t.Size) }

// LevelInfo is a value snapshot of one price level.
type LevelInfo struct {
	Price  PriceTicks
	Size   Size
	Orders int
}

// Quote is an optional best-of-book level. OK is false when the side is empty.
type Quote struct {
	Price PriceTicks
	Size  Size
	OK    bool
}

// Top is the best bid and best ask at one instant.
type Top struct {
	Bid Quote
	Ask Quote
}

// Crossed reports whether both sides exist and bid >= ask.
func (t Top) Crossed() bool {
	return t.Bid.OK && t.Ask.OK && t.Bid.Price >= t.Ask.Price
}
