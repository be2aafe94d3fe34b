package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the demo process's startup configuration.
//
// Tags:
//
//	env: environment variable name
//	envDefault: default value if not set
type Config struct {
	// MetricsAddr is where the Prometheus exposition endpoint listens.
	MetricsAddr string `env:"ACTORCACHE_METRICS_ADDR" envDefault:":9100"`

	// Shards is the fixed fanout of each demo cluster.
	Shards int `env:"ACTORCACHE_SHARDS" envDefault:"4"`

	// TickInterval is the maintenance period for every owner started by this
	// process.
	TickInterval time.Duration `env:"ACTORCACHE_TICK_INTERVAL" envDefault:"100ms"`

	// SeedRate caps how many seed operations per second the load generator
	// issues.
	SeedRate float64 `env:"ACTORCACHE_SEED_RATE" envDefault:"200"`

	// SeedBurst is the token bucket burst size backing SeedRate.
	SeedBurst int `env:"ACTORCACHE_SEED_BURST" envDefault:"50"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadConfig reads configuration from a .env file, if present, and the
// environment. Environment variables always win over the file.
func LoadConfig(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, using environment variables only")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Shards < 1 {
		return fmt.Errorf("ACTORCACHE_SHARDS must be >= 1, got %d", c.Shards)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("ACTORCACHE_TICK_INTERVAL must be > 0, got %s", c.TickInterval)
	}
	if c.SeedRate <= 0 {
		return fmt.Errorf("ACTORCACHE_SEED_RATE must be > 0, got %f", c.SeedRate)
	}
	return nil
}
