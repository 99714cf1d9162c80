package commands

import (
	"context"
	"fmt"

	"github.com/hay-kot/memkv/internal/core/config"
	"github.com/hay-kot/memkv/pkg/logutils"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

// NewApp builds the root command with all subcommands registered. The Before
// hook sets up logging and loads the config into flags; After closes the log
// file.
func NewApp(flags *Flags, version string) *cli.Command {
	var logCloser func()

	app := &cli.Command{
		Name:      "memkv",
		Usage:     "In-memory typed key-value store with a command prompt",
		UsageText: "memkv [global options] [command [command options]]",
		Description: `memkv keeps strings, integers and lists in memory, with optional
per-key expiry, and is driven by one command per line:

  SET key value [EX seconds]   GET key     DEL key     TYPE key
  INCR key                     TTL key     EXPIRE key seconds
  LPUSH key item               LRANGE key start stop   KEYS pattern
  DIS                          HELP        EXIT

Run 'memkv' with no arguments to start the prompt on stdin.
Nothing is persisted; the store is discarded on exit.`,
		Version:               version,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("MEMKV_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to a JSON log file (defaults to stderr)",
				Sources:     cli.EnvVars("MEMKV_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("MEMKV_CONFIG"),
				Value:       DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "colour diagnostics (auto, always, never); overrides config",
				Destination: &flags.Color,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			log.Debug().Str("config", flags.ConfigPath).Msg("config loaded")
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	replCmd := NewReplCmd(flags)

	app = replCmd.Register(app)
	app = NewExecCmd(flags).Register(app)
	app = NewConfigValidateCmd(flags).Register(app)

	// Register prompt flags on root command
	app.Flags = append(app.Flags, replCmd.Flags()...)

	// Run the prompt when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'memkv --help' for usage", c.Args().First())
		}
		return replCmd.Run(ctx, c)
	}

	return app
}
