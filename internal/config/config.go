// Package config loads the tickmatch configuration from an optional YAML
// file and TICKMATCH_* environment variables on top of each package's
// defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/zappabad/tickmatch/internal/logging"
	"github.com/zappabad/tickmatch/internal/metrics"
	"github.com/zappabad/tickmatch/internal/orderbook/service"
	"github.com/zappabad/tickmatch/internal/simulation"
	"github.com/zappabad/tickmatch/internal/strategy"
)

// EnvPrefix prefixes every environment override, e.g. TICKMATCH_SIMULATION_SEED.
const EnvPrefix = "TICKMATCH"

// Config is the full application configuration.
type Config struct {
	Log        logging.Config    `mapstructure:"log"`
	Simulation simulation.Config `mapstructure:"simulation"`
	Strategy   Strategy          `mapstructure:"strategy"`
	Service    service.Config    `mapstructure:"service"`
	Metrics    metrics.Config    `mapstructure:"metrics"`
}

// Strategy groups the strategy settings.
type Strategy struct {
	MarketMaker strategy.MarketMakerConfig `mapstructure:"market_maker"`
	RandomFlow  strategy.RandomFlowConfig  `mapstructure:"random_flow"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Log:        logging.DefaultConfig(),
		Simulation: simulation.DefaultConfig(),
		Strategy: Strategy{
			MarketMaker: strategy.DefaultMarketMakerConfig(),
			RandomFlow:  strategy.DefaultRandomFlowConfig(),
		},
		Service: service.DefaultConfig(),
		Metrics: metrics.DefaultConfig(),
	}
}

// FlagKeys maps command line flag names to configuration keys. Flags
// explicitly set on the command line win over environment and file.
var FlagKeys = map[string]string{
	"log-level":    "log.level",
	"ticks":        "simulation.ticks",
	"seed":         "simulation.seed",
	"metrics-addr": "metrics.addr",
}

// RegisterFlags adds the flags named in FlagKeys to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Default()
	fs.String("log-level", d.Log.Level, "log level (debug, info, warn, error)")
	fs.Int("ticks", d.Simulation.Ticks, "number of simulation ticks")
	fs.Int64("seed", d.Simulation.Seed, "random seed for the simulation")
	fs.String("metrics-addr", d.Metrics.Addr, "serve Prometheus metrics on this address")
}

// Load reads path (skipped when empty) and applies environment overrides,
// then any flags in fs that were set. fs may be nil.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range FlagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that environment variables are seen
// by Unmarshal even when the file does not mention them.
func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
	v.SetDefault("log.output_paths", d.Log.OutputPaths)

	v.SetDefault("simulation.ticks", d.Simulation.Ticks)
	v.SetDefault("simulation.starting_mid", int64(d.Simulation.StartingMid))
	v.SetDefault("simulation.max_step", d.Simulation.MaxStep)
	v.SetDefault("simulation.seed", d.Simulation.Seed)

	v.SetDefault("strategy.market_maker.qty", int64(d.Strategy.MarketMaker.Qty))
	v.SetDefault("strategy.market_maker.half_spread", int64(d.Strategy.MarketMaker.HalfSpread))
	v.SetDefault("strategy.random_flow.buy_below", d.Strategy.RandomFlow.BuyBelow)
	v.SetDefault("strategy.random_flow.sell_above", d.Strategy.RandomFlow.SellAbove)
	v.SetDefault("strategy.random_flow.min_size", int64(d.Strategy.RandomFlow.MinSize))
	v.SetDefault("strategy.random_flow.max_size", int64(d.Strategy.RandomFlow.MaxSize))

	v.SetDefault("service.command_buffer", d.Service.CommandBuffer)
	v.SetDefault("service.event_buffer", d.Service.EventBuffer)
	v.SetDefault("service.trade_tape_size", d.Service.TradeTapeSize)
	v.SetDefault("service.depth_levels", d.Service.DepthLevels)
	v.SetDefault("service.drop_external_events", d.Service.DropExternalEvents)
	v.SetDefault("service.external_event_buffer", d.Service.ExternalEventBuffer)

	v.SetDefault("metrics.addr", d.Metrics.Addr)
}
