package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"

	"github.com/zappabad/tickmatch/internal/clock"
	"github.com/zappabad/tickmatch/internal/config"
	"github.com/zappabad/tickmatch/internal/ids"
	"github.com/zappabad/tickmatch/internal/logging"
	"github.com/zappabad/tickmatch/internal/metrics"
	"github.com/zappabad/tickmatch/internal/orderbook/service"
	"github.com/zappabad/tickmatch/internal/simulation"
	"github.com/zappabad/tickmatch/internal/strategy"
	"github.com/zappabad/tickmatch/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("tickmatch-terminal", pflag.ContinueOnError)
	configPath := fs.StringP("config", "c", "", "path to a YAML config file")
	logFile := fs.String("log-file", "tickmatch-terminal.log", "file receiving log output while the dashboard runs")
	interval := fs.Duration("interval", 50*time.Millisecond, "delay between frames")
	steps := fs.Int("steps", 1, "simulation ticks per frame")
	config.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		return err
	}
	// Anything written to the terminal would tear the alt screen.
	cfg.Log.OutputPaths = []string{*logFile}
	cfg.Log.Development = false

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	clk := clock.NewMonotonic()
	m := metrics.New(prometheus.NewRegistry())
	svc := service.NewService(cfg.Service, clk, service.WithLogger(logger), service.WithMetrics(m))
	defer svc.Close()

	gen := ids.NewSequence(0)
	rng := rand.New(rand.NewSource(cfg.Simulation.Seed))
	mm, err := strategy.NewMarketMaker(cfg.Strategy.MarketMaker, gen)
	if err != nil {
		return err
	}
	flow, err := strategy.NewRandomFlow(cfg.Strategy.RandomFlow, gen, rng)
	if err != nil {
		return err
	}

	runner, err := simulation.NewRunner(cfg.Simulation, svc, mm, clk, rng,
		simulation.WithExternalFlow(flow),
		simulation.WithLogger(logger),
		simulation.WithMetrics(m),
	)
	if err != nil {
		return err
	}

	opts := tui.DefaultOptions()
	opts.Interval = *interval
	opts.StepsPerFrame = *steps
	opts.TotalTicks = cfg.Simulation.Ticks

	model := tui.NewModel(ctx, runner, svc, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	logger.Info("dashboard closed")
	return nil
}
