package app

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stackhero-io/valkeyGettingStarted/internal/config"
	"github.com/stackhero-io/valkeyGettingStarted/internal/valkey"
	"github.com/stackhero-io/valkeyGettingStarted/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testConfig(t *testing.T, srv *miniredis.Miniredis) *config.Config {
	t.Helper()

	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)

	return &config.Config{
		Env: config.Dev,
		Valkey: config.ValkeyConfig{
			Host:         srv.Host(),
			Port:         port,
			DisableTLS:   true,
			DialTimeout:  time.Second,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Demo: config.DemoConfig{
			Key:             "stackhero-example-key",
			Value:           "abcd",
			SetKey:          "stackhero-example-set",
			SetMembers:      []string{"value1", "value2", "value3"},
			DeliveryTimeout: 2 * time.Second,
		},
	}
}

func TestRunDemo(t *testing.T) {
	t.Run("Walkthrough against a server", func(t *testing.T) {
		srv := miniredis.RunT(t)
		out := &syncBuffer{}

		a := New(testConfig(t, srv), logger.Discard(), out)
		require.NoError(t, a.RunDemo(context.Background()))

		text := out.String()
		assert.True(t, strings.HasPrefix(text, "\n🔌  Connecting to Valkey...\n"))
		assert.Contains(t, text, `👋 Disconnecting "valkey" and "valkeyPub" clients`)
		assert.False(t, srv.Exists("stackhero-example-key"))
		assert.True(t, srv.Exists("stackhero-example-set"))

		// Both connections are released
		assert.Error(t, a.client.Ping(context.Background()))
		assert.Error(t, a.publisher.Ping(context.Background()))
	})

	t.Run("Connection failure", func(t *testing.T) {
		srv := miniredis.RunT(t)
		cfg := testConfig(t, srv)
		srv.Close()

		a := New(cfg, logger.Discard(), &syncBuffer{})
		err := a.RunDemo(context.Background())
		assert.ErrorIs(t, err, valkey.ErrConnect)
	})

	t.Run("Termination closes connections", func(t *testing.T) {
		srv := miniredis.RunT(t)
		a := New(testConfig(t, srv), logger.Discard(), &syncBuffer{})
		require.NoError(t, a.Connect(context.Background()))

		ctx, cancel := context.WithCancel(context.Background())
		stop := a.WatchSignals(ctx)
		defer stop()
		cancel()

		assert.Eventually(t, func() bool {
			return a.client.Ping(context.Background()) != nil && a.publisher.Ping(context.Background()) != nil
		}, time.Second, 10*time.Millisecond)
	})
}

func TestRunShell(t *testing.T) {
	srv := miniredis.RunT(t)
	out := &syncBuffer{}

	a := New(testConfig(t, srv), logger.Discard(), out)
	input := "SADD tags go valkey\nSMEMBERS tags\nPUBLISH users hello there\nexit\n"
	require.NoError(t, a.RunShell(context.Background(), strings.NewReader(input)))

	text := out.String()
	assert.Contains(t, text, "(integer) 2")
	assert.Contains(t, text, "1) \"go\"\n2) \"valkey\"")
	assert.Contains(t, text, "(integer) 0")
	assert.Contains(t, text, "Goodbye!")

	members, err := srv.Members("tags")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"go", "valkey"}, members)
}
