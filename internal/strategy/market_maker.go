package strategy

import (
	"github.com/zappabad/tickmatch/internal/ids"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

// MarketMakerConfig holds configuration for MarketMaker.
type MarketMakerConfig struct {
	// Qty is the size quoted on each side.
	Qty core.Size `mapstructure:"qty"`
	// HalfSpread is the distance in ticks from the mark to each quote.
	HalfSpread core.PriceTicks `mapstructure:"half_spread"`
}

// DefaultMarketMakerConfig returns a MarketMakerConfig with reasonable defaults.
func DefaultMarketMakerConfig() MarketMakerConfig {
	return MarketMakerConfig{Qty: 2, HalfSpread: 5}
}

// MarketMaker posts a bid and an ask around the mark every tick.
type MarketMaker struct {
	cfg MarketMakerConfig
	ids ids.Generator
}

// NewMarketMaker creates a MarketMaker drawing order ids from gen.
func NewMarketMaker(cfg MarketMakerConfig, gen ids.Generator) (*MarketMaker, error) {
	if cfg.Qty <= 0 {
		return nil, core.InvalidArgument("market maker qty must be positive, got %d", cfg.Qty)
	}
	if cfg.HalfSpread < 0 {
		return nil, core.InvalidArgument("market maker half spread must be non-negative, got %d", cfg.HalfSpread)
	}
	return &MarketMaker{cfg: cfg, ids: gen}, nil
}

// OnTick quotes max(1, mark-half) / mark+half. Nothing is quoted until a
// mark exists.
func (m *MarketMaker) OnTick(s Snapshot) ([]core.Order, error) {
	if s.Mark <= 0 {
		return nil, nil
	}

	bidPx := max(1, s.Mark-m.cfg.HalfSpread)
	askPx := s.Mark + m.cfg.HalfSpread

	bid, err := core.NewOrder(m.ids.Next(), core.SideBuy, core.OrderKindLimit, bidPx, m.cfg.Qty, s.Time)
	if err != nil {
		return nil, err
	}
	ask, err := core.NewOrder(m.ids.Next(), core.SideSell, core.OrderKindLimit, askPx, m.cfg.Qty, s.Time)
	if err != nil {
		return nil, err
	}
	return []core.Order{bid, ask}, nil
}
