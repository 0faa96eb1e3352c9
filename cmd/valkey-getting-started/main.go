package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/stackhero-io/valkeyGettingStarted/internal/app"
	"github.com/stackhero-io/valkeyGettingStarted/internal/config"
	"github.com/stackhero-io/valkeyGettingStarted/internal/demo"
	"github.com/stackhero-io/valkeyGettingStarted/pkg/logger"
	"github.com/stackhero-io/valkeyGettingStarted/pkg/logger/sl"
)

// Globals are the flags shared by every command
type Globals struct {
	Config  string `help:"Path to an optional YAML config file." type:"path" placeholder:"PATH"`
	EnvFile string `help:"Path to the .env file to load." default:".env" type:"path" placeholder:"PATH"`
}

// CLI is the command line of the program
type CLI struct {
	Globals

	Run   RunCmd   `cmd:"" default:"1" help:"Run the getting-started walkthrough (default)."`
	Shell ShellCmd `cmd:"" help:"Open an interactive shell against Valkey."`
}

// RunCmd runs the walkthrough
type RunCmd struct{}

// Run executes the walkthrough
func (c *RunCmd) Run(ctx context.Context, g *Globals) error {
	a, err := setup(g)
	if err != nil {
		return err
	}

	return a.RunDemo(ctx)
}

// ShellCmd opens the interactive shell
type ShellCmd struct{}

// Run serves the shell on stdin
func (c *ShellCmd) Run(ctx context.Context, g *Globals) error {
	a, err := setup(g)
	if err != nil {
		return err
	}

	return a.RunShell(ctx, os.Stdin)
}

func setup(g *Globals) (*app.App, error) {
	cfg, err := config.Load(g.Config, g.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.Env)

	return app.New(cfg, log, os.Stdout), nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("valkey-getting-started"),
		kong.Description("Connect to a Valkey server over TLS and try a few commands."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, os.Interrupt)
	kctx.BindTo(ctx, (*context.Context)(nil))

	err := kctx.Run(&cli.Globals)
	stop()

	if err != nil {
		demo.NewNarrator(os.Stderr).Failure(err)
		slog.Error("Application error", sl.Err(err))
		os.Exit(1)
	}
}
