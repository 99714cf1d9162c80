// Package logging provides component loggers that carry command-line context.
package logging

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Component creates a logger derived from the global logger with a component
// identifier under the "cmp" key. Events logged with a context carry the
// input source and line number.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger().Hook(ContextHook{})
}
