package interp

import "strings"

// ParsedCommand represents a tokenized command line.
type ParsedCommand struct {
	Name string
	Args []string
}

// ParseLine splits a line like "SET key value" on runs of whitespace,
// dropping empty tokens. Any Unicode space separates tokens, so tabs are
// accepted as well as spaces. The command name is upper-cased; arguments are
// kept verbatim. Blank lines and lines starting with '#' parse to an empty
// command.
func ParseLine(input string) ParsedCommand {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "#") {
		return ParsedCommand{}
	}

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return ParsedCommand{}
	}

	return ParsedCommand{
		Name: strings.ToUpper(parts[0]),
		Args: parts[1:],
	}
}
