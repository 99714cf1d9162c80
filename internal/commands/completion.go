package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/hay-kot/memkv/internal/interp"
	"github.com/urfave/cli/v3"
)

// CommandLineCompleter returns a ShellCompleteFunc that suggests interpreter
// command names as positional completions for commands that take command
// lines as arguments.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func CommandLineCompleter() cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		prefix := ""
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
			prefix = strings.ToUpper(last)
		}

		w := cmd.Root().Writer
		for _, name := range interp.CommandNames() {
			if strings.HasPrefix(name, prefix) {
				_, _ = fmt.Fprintln(w, name)
			}
		}
	}
}
