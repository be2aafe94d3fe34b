package hashmap

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/adred-codev/actorcache/internal/inbox"
	"github.com/adred-codev/actorcache/internal/policy"
)

// DefaultTickInterval is the canonical maintenance period: expiration,
// eviction, and replication pull all run on this cadence.
const DefaultTickInterval = 100 * time.Millisecond

// Config configures a single map owner.
type Config struct {
	// Policy governs tick-time eviction. The zero value is policy.None,
	// meaning no capacity bound.
	Policy policy.Policy

	// Inbox selects bounded or unbounded queueing. The zero value is
	// inbox.Unbounded().
	Inbox inbox.Mode

	// TickInterval overrides the maintenance period; zero means
	// DefaultTickInterval.
	TickInterval time.Duration

	// Name identifies this container instance in logs and metrics.
	Name string

	// Logger is the base logger this owner's component-scoped logger is
	// derived from. The zero value has no writer and discards all output.
	Logger zerolog.Logger
}

func (c Config) withDefaults() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.Name == "" {
		c.Name = "unnamed"
	}
	return c
}
