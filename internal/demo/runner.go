// Package demo runs the getting-started walkthrough: a string key lifecycle,
// a set key lifecycle and a publish/subscribe exchange, narrated step by step.
package demo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stackhero-io/valkeyGettingStarted/internal/config"
	"github.com/stackhero-io/valkeyGettingStarted/internal/valkey"
	"github.com/stackhero-io/valkeyGettingStarted/pkg/logger/sl"
)

const defaultDeliveryTimeout = 2 * time.Second

// DefaultMessages are published, in order, during the pub/sub section
var DefaultMessages = []valkey.Message{
	{Channel: "users", Payload: "I'm a new user!"},
	{Channel: "events", Payload: "Here is a new event!"},
}

// Runner executes the walkthrough against two connections: client issues
// every command and holds the subscription, publisher only publishes.
type Runner struct {
	cfg       config.DemoConfig
	log       *slog.Logger
	out       *Narrator
	client    *valkey.Client
	publisher *valkey.Client
	messages  []valkey.Message
}

// NewRunner creates a new Runner
func NewRunner(cfg config.DemoConfig, log *slog.Logger, out *Narrator, client, publisher *valkey.Client) *Runner {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = defaultDeliveryTimeout
	}

	return &Runner{
		cfg:       cfg,
		log:       log,
		out:       out,
		client:    client,
		publisher: publisher,
		messages:  DefaultMessages,
	}
}

// Run executes every section in order and stops at the first failure
func (r *Runner) Run(ctx context.Context) error {
	sections := []struct {
		name string
		run  func(context.Context) error
	}{
		{"SET/GET/DEL", r.runStrings},
		{"SADD/SMEMBERS", r.runSets},
		{"PUB/SUB", r.runPubSub},
	}

	for _, s := range sections {
		r.log.Debug("Running section", "section", s.name)
		r.out.Section(s.name + " examples")

		if err := s.run(ctx); err != nil {
			return fmt.Errorf("%s examples: %w", s.name, err)
		}
	}

	return nil
}

func (r *Runner) runStrings(ctx context.Context) error {
	key := r.cfg.Key

	r.out.Step(`Setting key "%s" to value "%s"`, key, r.cfg.Value)
	if err := r.client.Set(ctx, key, r.cfg.Value); err != nil {
		return err
	}
	r.out.Blank()

	r.out.Step(`Getting key "%s" value...`, key)
	value, found, err := r.client.Get(ctx, key)
	if err != nil {
		return err
	}
	if found {
		r.out.Result(`Key "%s" has value "%s"`, key, value)
	} else {
		r.out.Result(`Key "%s" has no value`, key)
	}
	r.out.Blank()

	r.out.Step(`Deleting key "%s"`, key)
	if _, err := r.client.Del(ctx, key); err != nil {
		return err
	}
	r.out.Blank()

	return nil
}

func (r *Runner) runSets(ctx context.Context) error {
	key := r.cfg.SetKey

	r.out.Step(`Add values %s to the set key "%s"`, quoteAnd(r.cfg.SetMembers), key)
	if _, err := r.client.SAdd(ctx, key, r.cfg.SetMembers...); err != nil {
		return err
	}
	r.out.Blank()

	r.out.Step(`Getting members from the set key "%s"`, key)
	members, err := r.client.SMembers(ctx, key)
	if err != nil {
		return err
	}
	r.out.Result(`Set key "%s" has values "%s"`, key, strings.Join(members, ","))
	r.out.Blank()

	return nil
}

func (r *Runner) runPubSub(ctx context.Context) error {
	channels := channelsOf(r.messages)
	tracker := newDeliveryTracker()

	r.out.Step("[%s] Subscribing to %s", r.client.Name(), quoteAnd(channels))
	sub, err := r.client.Subscribe(ctx, func(msg valkey.Message) {
		r.out.Result(`[%s] Receive message "%s" from channel "%s"`, r.client.Name(), msg.Payload, msg.Channel)
		r.out.Blank()

		if !tracker.observe(msg) {
			r.log.Debug("Unexpected message", "channel", msg.Channel)
		}
	}, channels...)
	if err != nil {
		return err
	}
	defer func() {
		if err := sub.Close(); err != nil {
			r.log.Warn("Failed to close subscription", sl.Err(err))
		}
	}()
	r.out.Blank()

	for _, msg := range r.messages {
		delivered := tracker.expect(msg)

		r.out.Step(`[%s] Sending message to channel "%s"`, r.publisher.Name(), msg.Channel)
		if _, err := r.publisher.Publish(ctx, msg.Channel, msg.Payload); err != nil {
			return err
		}

		if err := awaitDelivery(ctx, delivered, msg, r.cfg.DeliveryTimeout); err != nil {
			return err
		}
	}

	return nil
}

// channelsOf returns the distinct channels of msgs in first-seen order
func channelsOf(msgs []valkey.Message) []string {
	seen := make(map[string]struct{}, len(msgs))
	channels := make([]string, 0, len(msgs))

	for _, m := range msgs {
		if _, ok := seen[m.Channel]; ok {
			continue
		}
		seen[m.Channel] = struct{}{}
		channels = append(channels, m.Channel)
	}

	return channels
}

func quoteAnd(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = `"` + item + `"`
	}

	return joinAnd(quoted)
}
