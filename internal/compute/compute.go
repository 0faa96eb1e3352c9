package compute

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// Store is the subset of store commands the handler issues
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, keys ...string) (int64, error)
	SAdd(ctx context.Context, key string, members ...string) (int64, error)
	SMembers(ctx context.Context, key string) ([]string, error)
	Publish(ctx context.Context, channel, message string) (int64, error)
	Ping(ctx context.Context) error
}

// Handler is a struct that handles commands
type Handler struct {
	log   *slog.Logger
	store Store
}

// NewHandler creates a new Handler
func NewHandler(log *slog.Logger, store Store) *Handler {
	return &Handler{log: log, store: store}
}

// Handle parses a command line, runs it against the store and renders the reply
func (h *Handler) Handle(ctx context.Context, input string) (string, error) {
	h.log.Debug("Handling command", "input", input)

	cmd, err := ParseCommand(input)
	if err != nil {
		return "", err
	}

	switch cmd.Type {
	case CommandSet:
		if err := h.store.Set(ctx, cmd.Args[0], cmd.Args[1]); err != nil {
			return "", err
		}
		return ResponseOK, nil

	case CommandGet:
		value, found, err := h.store.Get(ctx, cmd.Args[0])
		if err != nil {
			return "", err
		}
		if !found {
			return "", ErrKeyNotFound
		}
		return value, nil

	case CommandDel:
		n, err := h.store.Del(ctx, cmd.Args...)
		if err != nil {
			return "", err
		}
		return formatInteger(n), nil

	case CommandSAdd:
		n, err := h.store.SAdd(ctx, cmd.Args[0], cmd.Args[1:]...)
		if err != nil {
			return "", err
		}
		return formatInteger(n), nil

	case CommandSMembers:
		members, err := h.store.SMembers(ctx, cmd.Args[0])
		if err != nil {
			return "", err
		}
		return formatList(members), nil

	case CommandPublish:
		n, err := h.store.Publish(ctx, cmd.Args[0], cmd.Args[1])
		if err != nil {
			return "", err
		}
		return formatInteger(n), nil

	case CommandPing:
		if err := h.store.Ping(ctx); err != nil {
			return "", err
		}
		return ResponsePong, nil

	case CommandHelp:
		return HelpMessage, nil
	}

	return "", ErrUnknownCommand
}

func formatInteger(n int64) string {
	return fmt.Sprintf("(integer) %d", n)
}

// formatList renders members sorted, one numbered line each
func formatList(items []string) string {
	if len(items) == 0 {
		return ResponseEmpty
	}

	sorted := append([]string(nil), items...)
	sort.Strings(sorted)

	var b strings.Builder
	for i, item := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d) %q", i+1, item)
	}

	return b.String()
}
