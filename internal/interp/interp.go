// Package interp implements the line-oriented command interpreter that
// drives the value store.
package interp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hay-kot/memkv/internal/core/kv"
	"github.com/hay-kot/memkv/internal/core/logging"
	"github.com/rs/zerolog"
)

var (
	// ErrExit is returned by Execute for the EXIT command.
	ErrExit = errors.New("exit")
	// ErrSyntax marks lines rejected before the store is touched.
	ErrSyntax = errors.New("syntax error")
	// ErrUnknownCommand marks lines whose command name is not recognized.
	ErrUnknownCommand = errors.New("invalid operation")
)

// Store is the value store contract used by the interpreter.
type Store interface {
	Insert(key string, v kv.Value, ttl time.Duration) (bool, error)
	Fetch(key string) (kv.Value, bool)
	TypeOf(key string) kv.Kind
	Delete(key string) bool
	Increment(key string) (int64, error)
	ListPush(key, item string) (int, error)
	ListRange(key string, start, stop int) ([]string, error)
	TTL(key string) int64
	SetTTL(key string, ttl time.Duration) (int64, error)
	Snapshot() []kv.Entry
	Keys(pattern string) ([]string, error)
}

// Interpreter parses command lines, runs them against a Store and writes
// results to out and diagnostics to errOut.
type Interpreter struct {
	store    Store
	out      io.Writer
	errOut   io.Writer
	styles   styles
	prompt   string
	logger   zerolog.Logger
	commands map[string]command
	failures int
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithColor enables styled diagnostics.
func WithColor(enabled bool) Option {
	return func(in *Interpreter) { in.styles = newStyles(in.errOut, enabled) }
}

// WithPrompt sets the prompt written before each line read by Run. An empty
// prompt disables it.
func WithPrompt(prompt string) Option {
	return func(in *Interpreter) { in.prompt = prompt }
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(in *Interpreter) { in.logger = l }
}

// New creates an Interpreter bound to store.
func New(store Store, out, errOut io.Writer, opts ...Option) *Interpreter {
	in := &Interpreter{
		store:    store,
		out:      out,
		errOut:   errOut,
		logger:   logging.Component("interp"),
		commands: commandTable(),
	}
	in.styles = newStyles(errOut, false)

	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Failures returns the number of lines rejected so far.
func (in *Interpreter) Failures() int {
	return in.failures
}

// Execute runs a single command line. Rejected lines are reported on the
// error stream and returned; ErrExit is returned for EXIT. Blank lines are
// ignored.
func (in *Interpreter) Execute(ctx context.Context, line string) error {
	parsed := ParseLine(line)
	if parsed.Name == "" {
		return nil
	}

	cmd, ok := in.commands[parsed.Name]
	if !ok {
		return in.reject(ctx, parsed, fmt.Errorf("%w %q; valid operations %s", ErrUnknownCommand, parsed.Name, strings.Join(CommandNames(), ", ")))
	}

	if !cmd.accepts(len(parsed.Args)) {
		return in.reject(ctx, parsed, fmt.Errorf("%w: %s expects %s", ErrSyntax, cmd.name, cmd.usage))
	}

	err := cmd.run(in, parsed.Args)
	if errors.Is(err, ErrExit) {
		in.logger.Debug().Ctx(ctx).Msg("exit requested")
		return err
	}
	if err != nil {
		return in.reject(ctx, parsed, err)
	}

	in.logger.Debug().Ctx(ctx).Str("command", parsed.Name).Strs("args", parsed.Args).Msg("executed")
	return nil
}

func (in *Interpreter) reject(ctx context.Context, parsed ParsedCommand, err error) error {
	in.failures++
	in.logger.Info().Ctx(ctx).Err(err).Str("command", parsed.Name).Msg("command rejected")
	_, _ = fmt.Fprintln(in.errOut, in.styles.errorLine(err.Error()))
	return err
}

func (in *Interpreter) println(a ...any) {
	_, _ = fmt.Fprintln(in.out, a...)
}
