package commands

import (
	"context"
	"os"

	"github.com/hay-kot/memkv/internal/core/logging"
	"github.com/hay-kot/memkv/internal/interp"
	"github.com/urfave/cli/v3"
)

type ReplCmd struct {
	flags *Flags
}

// NewReplCmd creates the interactive prompt command.
func NewReplCmd(flags *Flags) *ReplCmd {
	return &ReplCmd{flags: flags}
}

// Flags returns the prompt flags for registration on the root command.
func (cmd *ReplCmd) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "prompt",
			Usage:       "prompt shown when stdin is a terminal (overrides config)",
			Destination: &cmd.flags.Prompt,
		},
	}
}

// Register adds the repl command to the application.
func (cmd *ReplCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "repl",
		Usage:     "Read commands from stdin (default)",
		UsageText: "memkv repl",
		Description: `Starts a read-eval-print loop over stdin.

Each line is one command. Type HELP for the command list and EXIT to quit.
The store lives in memory and is discarded when the loop ends.`,
		Flags:  cmd.Flags(),
		Action: cmd.Run,
	})

	return app
}

// Run executes the loop. Exported for use as default command.
func (cmd *ReplCmd) Run(ctx context.Context, c *cli.Command) error {
	var opts []interp.Option
	if isTerminal(os.Stdin) {
		prompt := cmd.flags.Prompt
		if prompt == "" && cmd.flags.Config != nil {
			prompt = cmd.flags.Config.Prompt
		}
		opts = append(opts, interp.WithPrompt(prompt))
	}

	in, err := cmd.flags.newSession(c.Root().Writer, c.Root().ErrWriter, opts...)
	if err != nil {
		return err
	}
	return in.Run(logging.WithSource(ctx, "stdin"), os.Stdin)
}
