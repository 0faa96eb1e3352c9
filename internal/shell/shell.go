// Package shell provides an interactive prompt issuing commands against the store
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Handler executes a single command line
type Handler interface {
	Handle(ctx context.Context, input string) (string, error)
}

// Shell reads commands from in and writes replies to out
type Shell struct {
	handler Handler
	in      io.Reader
	out     io.Writer
	prompt  string
}

// New creates a new instance of the shell
func New(handler Handler, in io.Reader, out io.Writer, prompt string) *Shell {
	return &Shell{
		handler: handler,
		in:      in,
		out:     out,
		prompt:  prompt,
	}
}

// Run starts the interactive mode. It returns nil on exit, quit, end of input
// or context cancellation.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Connected to Valkey. Type 'help' or '?' for available commands.")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprintf(s.out, "%s> ", s.prompt)

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(s.out)
			return nil
		}

		if ctx.Err() != nil {
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "exit", "quit":
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}

		response, err := s.handler.Handle(ctx, input)
		if err != nil {
			fmt.Fprintf(s.out, "(error) %s\n", err)
			continue
		}

		fmt.Fprintln(s.out, response)
	}
}
