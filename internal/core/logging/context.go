package logging

import "context"

type contextKey string

const (
	sourceKey contextKey = "source"
	lineKey   contextKey = "line"
)

// WithSource records where command lines are read from (stdin, a script path).
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

// WithLine records the 1-based number of the command line being executed.
func WithLine(ctx context.Context, line int) context.Context {
	return context.WithValue(ctx, lineKey, line)
}

// GetSource retrieves the input source from the context.
// Returns empty string if not present.
func GetSource(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey).(string); ok {
		return s
	}
	return ""
}

// GetLine retrieves the line number from the context.
// Returns 0 if not present.
func GetLine(ctx context.Context) int {
	if n, ok := ctx.Value(lineKey).(int); ok {
		return n
	}
	return 0
}
