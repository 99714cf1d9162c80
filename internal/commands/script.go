package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

// ScriptReader resolves the source of command lines for non-interactive runs:
// a file given with --file, or stdin when it is piped.
type ScriptReader struct {
	fileFlagValue string
	stdin         io.Reader
}

func (sr *ScriptReader) Flag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:        "file",
		Aliases:     []string{"f"},
		Usage:       "path to a script of commands, one per line (\"-\" reads stdin)",
		Destination: &sr.fileFlagValue,
	}
}

// Open returns the script reader and a name for logging. ok is false when no
// script was requested.
func (sr *ScriptReader) Open() (r io.ReadCloser, name string, ok bool, err error) {
	switch sr.fileFlagValue {
	case "":
		return nil, "", false, nil
	case "-":
		stdin := sr.stdin
		if stdin == nil {
			stdin = os.Stdin
		}
		if isTerminal(stdin) {
			return nil, "", false, fmt.Errorf("no input provided (stdin is a terminal); pipe commands or use a file")
		}
		return io.NopCloser(stdin), "stdin", true, nil
	default:
		f, err := os.Open(sr.fileFlagValue)
		if err != nil {
			return nil, "", false, fmt.Errorf("open script: %w", err)
		}
		return f, sr.fileFlagValue, true, nil
	}
}
