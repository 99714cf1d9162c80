package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// ContextHook extracts the input source and line number from context and adds
// them to log events.
type ContextHook struct{}

// Run adds contextual fields to the zerolog event.
func (h ContextHook) Run(e *zerolog.Event, level zerolog.Level, msg string) {
	ctx := e.GetCtx()
	if ctx == context.Background() || ctx == nil {
		return
	}

	if source := GetSource(ctx); source != "" {
		e.Str("source", source)
	}

	if line := GetLine(ctx); line > 0 {
		e.Int("line", line)
	}
}
