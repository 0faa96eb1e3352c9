// Package valkey wraps the go-redis client with the handful of commands the
// walkthrough and the shell issue against a Valkey server.
package valkey

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/stackhero-io/valkeyGettingStarted/internal/config"
	"github.com/stackhero-io/valkeyGettingStarted/pkg/logger/sl"
)

// Client represents a named connection to a Valkey server
type Client struct {
	name string
	rdb  *redis.Client
	log  *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New creates a new instance of the client. No network round trip happens
// until Connect or the first command.
func New(name string, cfg config.ValkeyConfig, log *slog.Logger) *Client {
	return newClient(name, redis.NewClient(newOptions(cfg)), log)
}

func newClient(name string, rdb *redis.Client, log *slog.Logger) *Client {
	return &Client{
		name: name,
		rdb:  rdb,
		log:  log.With(sl.Client(name)),
	}
}

// newOptions maps the configuration onto go-redis options
func newOptions(cfg config.ValkeyConfig) *redis.Options {
	opts := &redis.Options{
		Addr:         cfg.Address(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if !cfg.DisableTLS {
		opts.TLSConfig = &tls.Config{
			ServerName:         cfg.Host,
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: cfg.TLSInsecure,
		}
	}

	return opts
}

// Name returns the connection name used in logs and narration
func (c *Client) Name() string {
	return c.name
}

// Connect establishes a connection to the server
func (c *Client) Connect(ctx context.Context) error {
	c.log.Debug("Connecting", "address", c.rdb.Options().Addr, "tls", c.rdb.Options().TLSConfig != nil)

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w (%s): %w", ErrConnect, c.name, err)
	}

	c.log.Debug("Connected")

	return nil
}

// Duplicate creates a new client with the same connection options and its
// own connection pool
func (c *Client) Duplicate(name string) *Client {
	opts := *c.rdb.Options()
	if opts.TLSConfig != nil {
		opts.TLSConfig = opts.TLSConfig.Clone()
	}

	return newClient(name, redis.NewClient(&opts), c.log)
}

// Ping checks that the server answers
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping: %w", err)
	}

	return nil
}

// Set stores value under key without expiration
func (c *Client) Set(ctx context.Context, key, value string) error {
	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %q: %w", key, err)
	}

	return nil
}

// Get returns the value stored under key. found is false when the key does not exist.
func (c *Client) Get(ctx context.Context, key string) (value string, found bool, err error) {
	value, err = c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get key %q: %w", key, err)
	}

	return value, true, nil
}

// Del removes the keys and returns how many existed
func (c *Client) Del(ctx context.Context, keys ...string) (int64, error) {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to delete keys %q: %w", keys, err)
	}

	return n, nil
}

// SAdd adds members to the set stored at key and returns how many were new
func (c *Client) SAdd(ctx context.Context, key string, members ...string) (int64, error) {
	n, err := c.rdb.SAdd(ctx, key, toArgs(members)...).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to add members to set %q: %w", key, err)
	}

	return n, nil
}

// SMembers returns every member of the set stored at key, in no particular order
func (c *Client) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get members of set %q: %w", key, err)
	}

	return members, nil
}

// Publish sends message to channel and returns the number of receivers
func (c *Client) Publish(ctx context.Context, channel, message string) (int64, error) {
	n, err := c.rdb.Publish(ctx, channel, message).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to publish to channel %q: %w", channel, err)
	}

	return n, nil
}

// Close releases the connection pool. It is safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.log.Debug("Disconnecting")
		c.closeErr = c.rdb.Close()
	})

	return c.closeErr
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}

	return args
}
