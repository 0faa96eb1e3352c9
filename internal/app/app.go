package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/stackhero-io/valkeyGettingStarted/internal/compute"
	"github.com/stackhero-io/valkeyGettingStarted/internal/config"
	"github.com/stackhero-io/valkeyGettingStarted/internal/demo"
	"github.com/stackhero-io/valkeyGettingStarted/internal/shell"
	"github.com/stackhero-io/valkeyGettingStarted/internal/valkey"
	"github.com/stackhero-io/valkeyGettingStarted/pkg/logger/sl"
)

// Connection names used in logs and narration
const (
	ClientName    = "valkey"
	PublisherName = "valkeyPub"
)

// App represents the main application
type App struct {
	cfg       *config.Config
	log       *slog.Logger
	out       *demo.Narrator
	stdout    io.Writer
	client    *valkey.Client
	publisher *valkey.Client
}

// New creates a new instance of the application. Connections are opened by Connect.
func New(cfg *config.Config, log *slog.Logger, stdout io.Writer) *App {
	client := valkey.New(ClientName, cfg.Valkey, log)

	return &App{
		cfg:       cfg,
		log:       log,
		out:       demo.NewNarrator(stdout),
		stdout:    stdout,
		client:    client,
		publisher: client.Duplicate(PublisherName),
	}
}

// Connect opens both connections
func (a *App) Connect(ctx context.Context) error {
	a.out.Connecting()
	a.log.Info("Connecting to Valkey", "address", a.cfg.Valkey.Address(), "tls", !a.cfg.Valkey.DisableTLS, "db", a.cfg.Valkey.DB)

	for _, c := range []*valkey.Client{a.client, a.publisher} {
		if err := c.Connect(ctx); err != nil {
			return err
		}
	}

	return nil
}

// WatchSignals closes both connections as soon as ctx is done. The returned
// function stops watching.
func (a *App) WatchSignals(ctx context.Context) (stop func()) {
	done := make(chan struct{})

	go func() {
		select {
		case <-ctx.Done():
			a.log.Info("Termination requested, closing connections")
			a.closeClients()
		case <-done:
		}
	}()

	return func() { close(done) }
}

// RunDemo connects, runs the walkthrough and disconnects
func (a *App) RunDemo(ctx context.Context) error {
	a.log.Info("Starting walkthrough", "env", a.cfg.Env)

	stop := a.WatchSignals(ctx)
	defer stop()

	if err := a.Connect(ctx); err != nil {
		return errors.Join(err, a.closeClients())
	}

	runner := demo.NewRunner(a.cfg.Demo, a.log, a.out, a.client, a.publisher)
	if err := runner.Run(ctx); err != nil {
		return errors.Join(err, a.closeClients())
	}

	return a.Close()
}

// RunShell connects and serves an interactive shell reading from in
func (a *App) RunShell(ctx context.Context, in io.Reader) error {
	stop := a.WatchSignals(ctx)
	defer stop()

	if err := a.Connect(ctx); err != nil {
		return errors.Join(err, a.closeClients())
	}

	handler := compute.NewHandler(a.log, &shellStore{Client: a.client, publisher: a.publisher})
	sh := shell.New(handler, in, a.stdout, ClientName)

	result := make(chan error, 1)
	go func() { result <- sh.Run(ctx) }()

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
	}

	return errors.Join(err, a.Close())
}

// Close announces the disconnection and releases both connections
func (a *App) Close() error {
	a.out.Goodbye(a.client.Name(), a.publisher.Name())
	defer a.out.Blank()

	return a.closeClients()
}

func (a *App) closeClients() error {
	var errs []error
	for _, c := range []*valkey.Client{a.client, a.publisher} {
		if err := c.Close(); err != nil {
			a.log.Error("Failed to close connection", sl.Client(c.Name()), sl.Err(err))
			errs = append(errs, fmt.Errorf("close %s: %w", c.Name(), err))
		}
	}

	return errors.Join(errs...)
}

// shellStore routes PUBLISH through the publisher connection
type shellStore struct {
	*valkey.Client
	publisher *valkey.Client
}

func (s *shellStore) Publish(ctx context.Context, channel, message string) (int64, error) {
	return s.publisher.Publish(ctx, channel, message)
}
