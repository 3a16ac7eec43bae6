package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/zappabad/tickmatch/internal/clock"
	"github.com/zappabad/tickmatch/internal/config"
	"github.com/zappabad/tickmatch/internal/ids"
	"github.com/zappabad/tickmatch/internal/logging"
	"github.com/zappabad/tickmatch/internal/metrics"
	"github.com/zappabad/tickmatch/internal/orderbook/service"
	"github.com/zappabad/tickmatch/internal/report"
	"github.com/zappabad/tickmatch/internal/simulation"
	"github.com/zappabad/tickmatch/internal/strategy"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "tickmatch-sim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("tickmatch-sim", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to a YAML config file")
	venueName := fs.String("venue", "direct", "matching venue: direct or service")
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	clk := clock.NewMonotonic()
	gen := ids.NewSequence(0)

	res, err := simulation.RunScenario(ctx, simulation.NewDirect(clk, nil), gen, clk)
	if err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if err := report.Write(out, "", res, 0); err != nil {
		return err
	}
	fmt.Fprintln(out)

	venue, closeVenue, err := newVenue(*venueName, cfg, clk, m, logger)
	if err != nil {
		return err
	}
	defer closeVenue()

	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	mm, err := strategy.NewMarketMaker(cfg.Strategy.MarketMaker, gen)
	if err != nil {
		return err
	}
	flow, err := strategy.NewRandomFlow(cfg.Strategy.RandomFlow, gen, rng)
	if err != nil {
		return err
	}

	runner, err := simulation.NewRunner(cfg.Simulation, venue, mm, clk, rng,
		simulation.WithExternalFlow(flow),
		simulation.WithLogger(logger),
		simulation.WithMetrics(m),
	)
	if err != nil {
		return err
	}
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("simulation: %w", err)
	}
	if err := report.Write(out, "SIMULATION", runner.Result(), 10); err != nil {
		return err
	}

	if cfg.Metrics.Addr != "" && ctx.Err() == nil {
		logger.Info("serving metrics until interrupted", zap.String("addr", cfg.Metrics.Addr))
		<-ctx.Done()
	}
	return nil
}

func newVenue(name string, cfg config.Config, clk clock.Clock, m *metrics.Collector, logger *zap.Logger) (simulation.Venue, func(), error) {
	switch name {
	case "direct":
		return simulation.NewDirect(clk, m), func() {}, nil
	case "service":
		svc := service.NewService(cfg.Service, clk, service.WithLogger(logger), service.WithMetrics(m))
		return svc, svc.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown venue %q", name)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
