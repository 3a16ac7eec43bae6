package service

import "github.com/zappabad/tickmatch/internal/orderbook/core"

// Event is published on the external events channel.
type Event interface {
	isEvent()
}

// TradeEvent carries one fill.
type TradeEvent struct {
	Trade core.Trade
}

// RestedEvent reports a limit remainder added to the book.
type RestedEvent struct {
	Order core.Order
}

// RejectedEvent reports an order that failed validation.
type RejectedEvent struct {
	Order core.Order
	Err   error
}

func (TradeEvent) isEvent()    {}
func (RestedEvent) isEvent()   {}
func (RejectedEvent) isEvent() {}
