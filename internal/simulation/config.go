package simulation

import "github.com/zappabad/tickmatch/internal/orderbook/core"

// Config holds configuration for a simulation run.
type Config struct {
	// Ticks is the number of strategy ticks to run.
	Ticks int `mapstructure:"ticks"`
	// StartingMid is the initial reference mid in ticks.
	StartingMid core.PriceTicks `mapstructure:"starting_mid"`
	// MaxStep bounds the per-tick random walk of the reference mid.
	MaxStep int64 `mapstructure:"max_step"`
	// Seed seeds the random walk and the external order flow.
	Seed int64 `mapstructure:"seed"`
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		Ticks:       2000,
		StartingMid: 10000,
		MaxStep:     3,
		Seed:        42,
	}
}

func (c Config) validate() error {
	switch {
	case c.Ticks < 0:
		return core.InvalidArgument("ticks must be non-negative, got %d", c.Ticks)
	case c.StartingMid <= 0:
		return core.InvalidArgument("starting mid must be positive, got %d", c.StartingMid)
	case c.MaxStep < 0:
		return core.InvalidArgument("max step must be non-negative, got %d", c.MaxStep)
	}
	return nil
}
