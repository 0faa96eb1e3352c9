package compute

import (
	"fmt"
	"strings"
)

// Command is a parsed shell command
type Command struct {
	Type string
	Args []string
}

// arity describes how many arguments a command accepts; max < 0 means unbounded
type arity struct {
	min, max int
}

var arities = map[string]arity{
	CommandSet:      {2, 2},
	CommandGet:      {1, 1},
	CommandDel:      {1, -1},
	CommandSAdd:     {2, -1},
	CommandSMembers: {1, 1},
	CommandPublish:  {2, -1},
	CommandPing:     {0, 0},
	CommandHelp:     {0, 0},
}

// ParseCommand parses a command line into a Command. Command names are case-insensitive.
func ParseCommand(input string) (Command, error) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return Command{}, ErrInvalidFormat
	}

	cmd := Command{
		Type: strings.ToUpper(parts[0]),
		Args: parts[1:],
	}

	if cmd.Type == "?" {
		cmd.Type = CommandHelp
	}

	if err := validateCommand(cmd); err != nil {
		return Command{}, err
	}

	// PUBLISH keeps the rest of the line as the message
	if cmd.Type == CommandPublish {
		cmd.Args = []string{cmd.Args[0], strings.Join(cmd.Args[1:], " ")}
	}

	return cmd, nil
}

func validateCommand(cmd Command) error {
	a, ok := arities[cmd.Type]
	if !ok {
		return ErrUnknownCommand
	}

	n := len(cmd.Args)
	if n < a.min || (a.max >= 0 && n > a.max) {
		if cmd.Type == CommandSet {
			return ErrInvalidSetFormat
		}
		if n == 0 {
			return ErrInvalidFormat
		}
		return fmt.Errorf("%w for %s", ErrInvalidArgs, cmd.Type)
	}

	return nil
}
