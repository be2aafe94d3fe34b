package hashset

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/adred-codev/actorcache/internal/inbox"
	"github.com/adred-codev/actorcache/internal/policy"
)

// DefaultTickInterval is the canonical maintenance period.
const DefaultTickInterval = 100 * time.Millisecond

// Config configures a single set owner.
type Config struct {
	Policy       policy.Policy
	Inbox        inbox.Mode
	TickInterval time.Duration
	Name         string
	Logger       zerolog.Logger
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
