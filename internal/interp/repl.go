package interp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hay-kot/memkv/internal/core/logging"
)

const maxLineBytes = 1024 * 1024

// Run reads command lines from r and executes them until EOF, EXIT or
// cancellation of ctx. Rejected lines are reported and do not stop the loop.
func (in *Interpreter) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for line := 1; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		in.showPrompt()
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if in.prompt != "" {
				in.println()
			}
			return nil
		}

		err := in.Execute(logging.WithLine(ctx, line), scanner.Text())
		if errors.Is(err, ErrExit) {
			return nil
		}
	}
}

func (in *Interpreter) showPrompt() {
	if in.prompt == "" {
		return
	}
	_, _ = fmt.Fprint(in.out, in.styles.promptText(in.prompt))
}
