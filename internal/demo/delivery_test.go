package demo

import (
	"context"
	"testing"
	"time"

	"github.com/stackhero-io/valkeyGettingStarted/internal/valkey"
	"github.com/stretchr/testify/assert"
)

func TestDeliveryTracker(t *testing.T) {
	msg := valkey.Message{Channel: "users", Payload: "I'm a new user!"}

	t.Run("Observed message resolves the waiter", func(t *testing.T) {
		tracker := newDeliveryTracker()
		delivered := tracker.expect(msg)

		assert.True(t, tracker.observe(msg))
		assert.NoError(t, awaitDelivery(context.Background(), delivered, msg, time.Second))
	})

	t.Run("Unknown message is ignored", func(t *testing.T) {
		tracker := newDeliveryTracker()
		delivered := tracker.expect(msg)

		assert.False(t, tracker.observe(valkey.Message{Channel: "users", Payload: "other"}))
		assert.ErrorIs(t, awaitDelivery(context.Background(), delivered, msg, 20*time.Millisecond), ErrDeliveryTimeout)
	})

	t.Run("Duplicates resolve in order", func(t *testing.T) {
		tracker := newDeliveryTracker()
		first := tracker.expect(msg)
		second := tracker.expect(msg)

		assert.True(t, tracker.observe(msg))
		assert.NoError(t, awaitDelivery(context.Background(), first, msg, time.Second))
		assert.ErrorIs(t, awaitDelivery(context.Background(), second, msg, 20*time.Millisecond), ErrDeliveryTimeout)

		assert.True(t, tracker.observe(msg))
		assert.False(t, tracker.observe(msg))
	})

	t.Run("Cancelled context", func(t *testing.T) {
		tracker := newDeliveryTracker()
		delivered := tracker.expect(msg)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, awaitDelivery(ctx, delivered, msg, time.Second), context.Canceled)
	})
}
