package simulation

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"github.com/zappabad/tickmatch/internal/analytics"
	"github.com/zappabad/tickmatch/internal/clock"
	"github.com/zappabad/tickmatch/internal/metrics"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
	"github.com/zappabad/tickmatch/internal/strategy"
)

// Option configures a Runner.
type Option func(*Runner)

// WithExternalFlow adds a strategy whose orders are submitted after the
// agent's each tick. Its fills only count toward the agent's PnL when
// they trade against agent orders.
func WithExternalFlow(s strategy.Strategy) Option {
	return func(r *Runner) { r.external = s }
}

func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(r *Runner) { r.metrics = m }
}

// Runner walks a reference mid and lets the agent strategy trade on a
// venue, one tick at a time. A Runner is driven by a single goroutine.
type Runner struct {
	cfg      Config
	venue    Venue
	agent    strategy.Strategy
	external strategy.Strategy
	clock    clock.Clock
	rng      *rand.Rand
	logger   *zap.Logger
	metrics  *metrics.Collector

	acct *account
	mid  core.PriceTicks
	tick int
}

// NewRunner creates a Runner. When rng is nil one is seeded from cfg.Seed.
func NewRunner(cfg Config, venue Venue, agent strategy.Strategy, clk clock.Clock, rng *rand.Rand, opts ...Option) (*Runner, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	r := &Runner{
		cfg:    cfg,
		venue:  venue,
		agent:  agent,
		clock:  clk,
		rng:    rng,
		logger: zap.NewNop(),
		mid:    cfg.StartingMid,
	}
	for _, opt := range opts {
		opt(r)
	}

	acct, err := newAccount(clk.Frequency(), r.metrics)
	if err != nil {
		return nil, err
	}
	r.acct = acct
	return r, nil
}

// Run steps until the configured tick count is reached, ctx is done or a
// tick fails.
func (r *Runner) Run(ctx context.Context) error {
	for !r.Done() {
		if err := ctx.Err(); err != nil {
			r.logger.Info("simulation interrupted", zap.Int("tick", r.tick))
			return err
		}
		if err := r.Step(ctx); err != nil {
			r.logger.Error("simulation tick failed", zap.Int("tick", r.tick), zap.Error(err))
			return err
		}
	}

	res := r.Result()
	r.logger.Info("simulation finished",
		zap.Int("ticks", r.tick),
		zap.Int("trades", len(res.Trades)),
		zap.Int64("position", res.PnL.Position),
		zap.Int64("total_pnl_ticks", res.PnL.Total),
		zap.Int64("p95_us", res.Latency.P95Us),
	)
	return nil
}

// Step runs one tick: move the mid, let the agent then the external flow
// trade, then revalue the account from the resulting book.
func (r *Runner) Step(ctx context.Context) error {
	step := r.rng.Int63n(2*r.cfg.MaxStep+1) - r.cfg.MaxStep
	r.mid = max(1, r.mid+core.PriceTicks(step))

	top := r.venue.Top()
	snap := strategy.Snapshot{Bid: top.Bid, Ask: top.Ask, Mark: r.mid, Time: r.clock.Now()}

	if err := r.submitFrom(ctx, r.agent, snap, true); err != nil {
		return fmt.Errorf("tick %d agent: %w", r.tick, err)
	}
	if r.external != nil {
		if err := r.submitFrom(ctx, r.external, snap, false); err != nil {
			return fmt.Errorf("tick %d external: %w", r.tick, err)
		}
	}

	if err := r.acct.revalue(r.venue.Top(), r.mid); err != nil {
		return fmt.Errorf("tick %d: %w", r.tick, err)
	}
	r.tick++
	return nil
}

func (r *Runner) submitFrom(ctx context.Context, s strategy.Strategy, snap strategy.Snapshot, owned bool) error {
	orders, err := s.OnTick(snap)
	if err != nil {
		return err
	}
	for _, o := range orders {
		if owned {
			r.acct.own(o.ID)
		}
		trades, err := r.venue.Submit(ctx, o)
		if err != nil {
			return fmt.Errorf("submit order %d: %w", o.ID, err)
		}
		if err := r.acct.onTrades(trades); err != nil {
			return err
		}
	}
	return nil
}

// Done reports whether all configured ticks have run.
func (r *Runner) Done() bool { return r.tick >= r.cfg.Ticks }

func (r *Runner) Tick() int { return r.tick }

// Mid returns the current reference mid.
func (r *Runner) Mid() core.PriceTicks { return r.mid }

// PnL returns the agent's account state as of the last tick.
func (r *Runner) PnL() analytics.PnLSnapshot { return r.acct.pnl.Snapshot() }

func (r *Runner) Latency() analytics.LatencyStats { return r.acct.latency.Stats() }

// TradeCount returns the number of trades seen so far.
func (r *Runner) TradeCount() int { return len(r.acct.trades) }

// Result returns a copy of the run's trades and account state so far.
func (r *Runner) Result() Result { return r.acct.result(r.venue.Top()) }
