// Package service serializes access to one matching engine. A single
// goroutine owns the book; callers talk to it over channels.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/zappabad/tickmatch/internal/clock"
	"github.com/zappabad/tickmatch/internal/metrics"
	"github.com/zappabad/tickmatch/internal/orderbook/core"
	"github.com/zappabad/tickmatch/internal/orderbook/view"
)

// ErrClosed is returned by calls made after Close.
var ErrClosed = errors.New("orderbook service closed")

type command struct {
	order  core.Order
	respCh chan<- response
}

type response struct {
	trades []core.Trade
	err    error
}

// Option configures a Service.
type Option func(*Service)

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

// Service owns the engine and view, providing thread-safe access.
type Service struct {
	cfg     Config
	clock   clock.Clock
	engine  *core.Engine
	view    *view.BookView
	logger  *zap.Logger
	metrics *metrics.Collector

	cmdCh          chan command
	internalEvents chan Event
	externalEvents chan Event

	droppedExternal atomic.Int64

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewService creates a new orderbook Service and starts its goroutines.
func NewService(cfg Config, clk clock.Clock, opts ...Option) *Service {
	cfg = cfg.withDefaults()

	s := &Service{
		cfg:            cfg,
		clock:          clk,
		engine:         core.NewEngine(core.NewBook(), clk),
		view:           view.NewBookView(cfg.TradeTapeSize),
		logger:         zap.NewNop(),
		cmdCh:          make(chan command, cfg.CommandBuffer),
		internalEvents: make(chan Event, cfg.EventBuffer),
		externalEvents: make(chan Event, cfg.ExternalEventBuffer),
		closed:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Start command processor
	s.wg.Add(1)
	go s.runCommandProcessor()

	// Start event dispatcher
	s.wg.Add(1)
	go s.runEventDispatcher()

	return s
}

func (s *Service) runCommandProcessor() {
	defer s.wg.Done()

	for {
		select {
		case <-s.closed:
			return
		case cmd := <-s.cmdCh:
			s.processCommand(cmd)
		}
	}
}

func (s *Service) processCommand(cmd command) {
	o := cmd.order
	trades, err := s.engine.Process(o, s.clock.Now())
	if err != nil {
		s.logger.Warn("order rejected",
			zap.Int64("order_id", int64(o.ID)),
			zap.Stringer("side", o.Side),
			zap.Stringer("kind", o.Kind),
			zap.Int64("price", int64(o.Price)),
			zap.Int64("size", int64(o.Size)),
			zap.Error(err),
		)
		s.metrics.ObserveReject(rejectReason(err))
		cmd.respCh <- response{err: err}
		s.emitEvent(RejectedEvent{Order: o, Err: err})
		return
	}

	book := s.engine.Book()
	s.view.PublishFrom(book, s.cfg.DepthLevels, trades)

	s.metrics.ObserveOrder(o)
	var filled core.Size
	for _, tr := range trades {
		filled += tr.Size
		s.metrics.ObserveTrade(tr, s.clock.Frequency())
	}
	s.metrics.SetBook(book.Top(), book.RestingCount())

	cmd.respCh <- response{trades: trades}

	for _, tr := range trades {
		s.emitEvent(TradeEvent{Trade: tr})
	}
	if o.Kind == core.OrderKindLimit && filled < o.Size {
		rested := o
		rested.Size = o.Size - filled
		s.metrics.ObserveRested()
		s.emitEvent(RestedEvent{Order: rested})
	}
}

func rejectReason(err error) string {
	if errors.Is(err, core.ErrInvalidArgument) {
		return "invalid_argument"
	}
	return "internal"
}

func (s *Service) emitEvent(ev Event) {
	// Always send to internal channel (blocking is ok, buffer should be sufficient)
	select {
	case s.internalEvents <- ev:
	case <-s.closed:
		return
	}
}

func (s *Service) runEventDispatcher() {
	defer s.wg.Done()
	defer close(s.externalEvents)

	for {
		select {
		case <-s.closed:
			return
		case ev := <-s.internalEvents:
			if s.cfg.DropExternalEvents {
				select {
				case s.externalEvents <- ev:
				default:
					s.droppedExternal.Add(1)
					s.metrics.ObserveDropped()
				}
			} else {
				select {
				case s.externalEvents <- ev:
				case <-s.closed:
					return
				}
			}
		}
	}
}

// Submit hands o to the owning goroutine and waits for its fills. The
// accept time is taken when the order is dequeued.
func (s *Service) Submit(ctx context.Context, o core.Order) ([]core.Trade, error) {
	respCh := make(chan response, 1)
	cmd := command{order: o, respCh: respCh}

	select {
	case <-s.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case s.cmdCh <- cmd:
	}

	select {
	case <-s.closed:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp := <-respCh:
		return resp.trades, resp.err
	}
}

// Top returns the top of book as of the last processed order.
func (s *Service) Top() core.Top {
	return s.view.Top()
}

// Levels returns aggregate levels for a side (from view), best first.
func (s *Service) Levels(side core.Side) []core.LevelInfo {
	return s.view.Levels(side)
}

// TradesLast returns the last n trades (from view).
func (s *Service) TradesLast(n int) []core.Trade {
	return s.view.TradesLast(n)
}

// View exposes the read model.
func (s *Service) View() *view.BookView {
	return s.view
}

// Events returns the external events channel for subscribers. It is
// closed after Close.
func (s *Service) Events() <-chan Event {
	return s.externalEvents
}

// DroppedExternalEvents returns the count of dropped external events.
func (s *Service) DroppedExternalEvents() int64 {
	return s.droppedExternal.Load()
}

// Close shuts down the service and waits for goroutines to finish. It is
// safe to call more than once.
func (s *Service) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	s.wg.Wait()
}
