package demo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stackhero-io/valkeyGettingStarted/internal/valkey"
)

// deliveryTracker lets the publisher wait until the subscriber callback has
// observed a given message
type deliveryTracker struct {
	mu      sync.Mutex
	pending map[valkey.Message][]chan struct{}
}

func newDeliveryTracker() *deliveryTracker {
	return &deliveryTracker{pending: make(map[valkey.Message][]chan struct{})}
}

// expect registers msg as awaited. It must be called before publishing.
func (d *deliveryTracker) expect(msg valkey.Message) <-chan struct{} {
	ch := make(chan struct{})

	d.mu.Lock()
	d.pending[msg] = append(d.pending[msg], ch)
	d.mu.Unlock()

	return ch
}

// observe resolves the oldest expectation matching msg and reports whether one existed
func (d *deliveryTracker) observe(msg valkey.Message) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	waiters := d.pending[msg]
	if len(waiters) == 0 {
		return false
	}

	close(waiters[0])
	if len(waiters) == 1 {
		delete(d.pending, msg)
	} else {
		d.pending[msg] = waiters[1:]
	}

	return true
}

// awaitDelivery blocks until delivered is closed, ctx is done or timeout elapses
func awaitDelivery(ctx context.Context, delivered <-chan struct{}, msg valkey.Message, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-delivered:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("%w: channel %q after %s", ErrDeliveryTimeout, msg.Channel, timeout)
	}
}
