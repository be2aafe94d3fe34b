// Package logging builds the structured zerolog.Logger every owner
// carries, consistent across components.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON-structured logger tagged with component, suitable for
// an owner goroutine, a cluster router, or the demo command's own logging.
func New(component string) zerolog.Logger {
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// WithContainer narrows an existing logger to one named container instance,
// e.g. a single map/set/sequence owner within a cluster.
func WithContainer(logger zerolog.Logger, shape, name string) zerolog.Logger {
	return logger.With().Str("shape", shape).Str("container", name).Logger()
}
