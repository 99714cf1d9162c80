package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/hay-kot/memkv/internal/core/logging"
	"github.com/hay-kot/memkv/internal/interp"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

type ExecCmd struct {
	flags  *Flags
	script *ScriptReader
	strict bool
}

// NewExecCmd creates a new exec command.
func NewExecCmd(flags *Flags) *ExecCmd {
	return &ExecCmd{flags: flags, script: &ScriptReader{}}
}

// Register adds the exec command to the application.
func (cmd *ExecCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "exec",
		Usage: "Run commands non-interactively",
		UsageText: `memkv exec [options] [line ...]

Run lines given as arguments:
  memkv exec "SET x 10" "INCR x" "GET x"

Run a script file:
  memkv exec -f commands.txt

Read from stdin:
  printf 'LPUSH l a\nLRANGE l 0 0\n' | memkv exec -f -`,
		Description: `Executes each argument as one command line, then each line of the script
given with --file. All lines share one store. Execution stops at EXIT.

Rejected lines are reported on stderr and execution continues. With --strict
the command exits with status 1 if any line was rejected.`,
		Flags: []cli.Flag{
			cmd.script.Flag(),
			&cli.BoolFlag{
				Name:        "strict",
				Usage:       "exit non-zero if any line is rejected",
				Destination: &cmd.strict,
			},
		},
		ShellComplete: CommandLineCompleter(),
		Action:        cmd.run,
	})

	return app
}

func (cmd *ExecCmd) run(ctx context.Context, c *cli.Command) error {
	in, err := cmd.flags.newSession(c.Root().Writer, c.Root().ErrWriter)
	if err != nil {
		return err
	}

	exited := false
	argCtx := logging.WithSource(ctx, "args")
	for i, line := range c.Args().Slice() {
		err := in.Execute(logging.WithLine(argCtx, i+1), line)
		if errors.Is(err, interp.ErrExit) {
			exited = true
			break
		}
	}

	if !exited {
		r, name, ok, err := cmd.script.Open()
		if err != nil {
			return err
		}
		if ok {
			defer func() { _ = r.Close() }()
			if err := in.Run(logging.WithSource(ctx, name), r); err != nil {
				return fmt.Errorf("run script: %w", err)
			}
		}
	}

	if failures := in.Failures(); failures > 0 {
		log.Debug().Int("failures", failures).Msg("exec finished with rejected lines")
		if cmd.strict {
			return cli.Exit(fmt.Sprintf("%d line(s) rejected", failures), 1)
		}
	}

	return nil
}
