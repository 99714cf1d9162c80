package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hay-kot/memkv/internal/core/config"
	"github.com/hay-kot/memkv/internal/core/logging"
	"github.com/hay-kot/memkv/internal/data/stores"
	"github.com/hay-kot/memkv/internal/interp"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	Color      string
	Prompt     string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "memkv", "config.yaml")
}

// colorEnabled resolves the colour mode for diagnostics written to w. The
// --color flag wins over the config file.
func (f *Flags) colorEnabled(w io.Writer) bool {
	mode := config.ColorAuto
	if f.Config != nil {
		mode = f.Config.Color
	}
	if f.Color != "" {
		mode = config.ColorMode(f.Color)
	}

	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return isTerminal(w)
	}
}

// newSession validates the configuration and builds a fresh store with an
// interpreter bound to it.
func (f *Flags) newSession(out, errOut io.Writer, opts ...interp.Option) (*interp.Interpreter, error) {
	purge := true
	if f.Config != nil {
		if err := f.Config.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		purge = f.Config.Store.PurgeEnabled()
	}
	if f.Color != "" {
		switch config.ColorMode(f.Color) {
		case config.ColorAuto, config.ColorAlways, config.ColorNever:
		default:
			return nil, fmt.Errorf("invalid --color %q: must be one of auto, always, never", f.Color)
		}
	}

	store := stores.NewKVStore(
		stores.WithPurgeOnAccess(purge),
		stores.WithLogger(logging.Component("store")),
	)

	log.Debug().Bool("purge_on_access", purge).Msg("store created")

	opts = append([]interp.Option{interp.WithColor(f.colorEnabled(errOut))}, opts...)
	return interp.New(store, out, errOut, opts...), nil
}

func isTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
