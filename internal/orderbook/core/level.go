package core

// internal resting order node (never exposed)
type restingOrder struct {
	id    OrderID
	side  Side
	price PriceTicks
	size  Size
	time  int64

	next *restingOrder
}

func (o *restingOrder) snapshot() Order {
	return Order{
		ID:    o.id,
		Side:  o.side,
		Kind:  OrderKindLimit,
		Price: o.price,
		Size:  o.size,
		Time:  o.time,
	}
}

// PriceLevel is the FIFO queue of resting orders at one exact price on one
// side. It owns its orders; accessors return value snapshots.
type PriceLevel struct {
	side       Side
	price      PriceTicks
	head, tail *restingOrder
	count      int
	totalSize  Size
}

func newPriceLevel(side Side, price PriceTicks) (*PriceLevel, error) {
	if price <= 0 {
		return nil, InvalidArgument("price level price must be positive, got %d", price)
	}
	return &PriceLevel{side: side, price: price}, nil
}

// Price returns the level's price.
func (l *PriceLevel) Price() PriceTicks { return l.price }

// Side returns the book side the level rests on.
func (l *PriceLevel) Side() Side { return l.side }

// TotalSize returns the sum of remaining size across the queue.
func (l *PriceLevel) TotalSize() Size { return l.totalSize }

// Len returns the number of resting orders.
func (l *PriceLevel) Len() int { return l.count }

// Empty reports whether the queue has no orders.
func (l *PriceLevel) Empty() bool { return l.head == nil }

// Head returns a snapshot of the order at the front of the queue.
func (l *PriceLevel) Head() (Order, bool) {
	if l.head == nil {
		return Order{}, false
	}
	return l.head.snapshot(), true
}

// Orders returns snapshots of the queue in time priority.
func (l *PriceLevel) Orders() []Order {
	out := make([]Order, 0, l.count)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.snapshot())
	}
	return out
}

// Info returns an aggregate snapshot of the level.
func (l *PriceLevel) Info() LevelInfo {
	return LevelInfo{Price: l.price, Size: l.totalSize, Orders: l.count}
}

func (l *PriceLevel) append(o *restingOrder) {
	o.next = nil
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	l.count++
	l.totalSize += o.size
}

func (l *PriceLevel) popHead() *restingOrder {
	o := l.head
	if o == nil {
		return nil
	}
	l.head = o.next
	if l.head == nil {
		l.tail = nil
	}
	o.next = nil
	l.count--
	l.totalSize -= o.size
	return o
}

// reduceHead takes qty off the head order and the level aggregate.
// qty must be in (0, head.size].
func (l *PriceLevel) reduceHead(qty Size) {
	l.head.size -= qty
	l.totalSize -= qty
}
