package valkey

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Message is a payload received on a channel
type Message struct {
	Channel string
	Payload string
}

// MessageHandler is invoked once per received message, from the subscription goroutine
type MessageHandler func(msg Message)

// Subscription is an active subscription to one or more channels
type Subscription struct {
	ps       *redis.PubSub
	log      *slog.Logger
	channels []string
	done     chan struct{}
}

// Subscribe subscribes to channels and dispatches every received message to
// handler. It returns once the server has confirmed every channel, so a
// message published afterwards is guaranteed to be delivered.
func (c *Client) Subscribe(ctx context.Context, handler MessageHandler, channels ...string) (*Subscription, error) {
	if len(channels) == 0 {
		return nil, ErrNoChannels
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	ps := c.rdb.Subscribe(ctx, channels...)

	if timeout := c.rdb.Options().ReadTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	// Wait for one confirmation per channel
	confirmed := 0
	for confirmed < len(channels) {
		msg, err := ps.Receive(ctx)
		if err != nil {
			_ = ps.Close()
			return nil, fmt.Errorf("failed to subscribe to %q: %w", channels, err)
		}

		switch m := msg.(type) {
		case *redis.Subscription:
			if m.Kind == "subscribe" {
				confirmed++
			}
		case *redis.Message:
			handler(Message{Channel: m.Channel, Payload: m.Payload})
		}
	}

	s := &Subscription{
		ps:       ps,
		log:      c.log,
		channels: channels,
		done:     make(chan struct{}),
	}
	go s.dispatch(ps.Channel(), handler)

	c.log.Debug("Subscribed", "channels", channels)

	return s, nil
}

// dispatch forwards messages until the subscription is closed
func (s *Subscription) dispatch(ch <-chan *redis.Message, handler MessageHandler) {
	defer close(s.done)

	for msg := range ch {
		s.log.Debug("Message received", "channel", msg.Channel)
		handler(Message{Channel: msg.Channel, Payload: msg.Payload})
	}
}

// Channels returns the subscribed channel names
func (s *Subscription) Channels() []string {
	return s.channels
}

// Close unsubscribes and waits until the handler is no longer invoked
func (s *Subscription) Close() error {
	err := s.ps.Close()
	<-s.done

	if err != nil {
		return fmt.Errorf("failed to close subscription: %w", err)
	}

	return nil
}
