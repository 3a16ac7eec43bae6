package strategy

import (
	"math/rand"

	"github.com/zappabad/tickmatch/internal/ids"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
)

// RandomFlowConfig holds configuration for RandomFlow. A roll in [0,100)
// below BuyBelow sends a market buy; above SellAbove a market sell.
type RandomFlowConfig struct {
	BuyBelow  int       `mapstructure:"buy_below"`
	SellAbove int       `mapstructure:"sell_above"`
	MinSize   core.Size `mapstructure:"min_size"`
	MaxSize   core.Size `mapstructure:"max_size"`
}

// DefaultRandomFlowConfig returns a RandomFlowConfig with reasonable defaults.
func DefaultRandomFlowConfig() RandomFlowConfig {
	return RandomFlowConfig{BuyBelow: 30, SellAbove: 70, MinSize: 1, MaxSize: 3}
}

// RandomFlow simulates outside takers sending market orders into a two
// sided book.
type RandomFlow struct {
	cfg RandomFlowConfig
	ids ids.Generator
	rng *rand.Rand
}

// NewRandomFlow creates a RandomFlow. rng may be shared with the runner so
// one seed reproduces a whole run.
func NewRandomFlow(cfg RandomFlowConfig, gen ids.Generator, rng *rand.Rand) (*RandomFlow, error) {
	if cfg.MinSize <= 0 || cfg.MaxSize < cfg.MinSize {
		return nil, core.InvalidArgument("random flow size range [%d,%d] is invalid", cfg.MinSize, cfg.MaxSize)
	}
	if cfg.BuyBelow < 0 || cfg.SellAbove >= 100 || cfg.BuyBelow > cfg.SellAbove+1 {
		return nil, core.InvalidArgument("random flow thresholds buy<%d sell>%d overlap", cfg.BuyBelow, cfg.SellAbove)
	}
	return &RandomFlow{cfg: cfg, ids: gen, rng: rng}, nil
}

// OnTick only trades when both sides of the book are present.
func (f *RandomFlow) OnTick(s Snapshot) ([]core.Order, error) {
	if !s.Bid.OK || !s.Ask.OK {
		return nil, nil
	}

	var side core.Side
	switch roll := f.rng.Intn(100); {
	case roll < f.cfg.BuyBelow:
		side = core.SideBuy
	case roll > f.cfg.SellAbove:
		side = core.SideSell
	default:
		return nil, nil
	}

	size := f.cfg.MinSize + core.Size(f.rng.Int63n(int64(f.cfg.MaxSize-f.cfg.MinSize)+1))
	o, err := core.NewOrder(f.ids.Next(), side, core.OrderKindMarket, 0, size, s.Time)
	if err != nil {
		return nil, err
	}
	return []core.Order{o}, nil
}
