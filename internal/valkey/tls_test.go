package valkey

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stackhero-io/valkeyGettingStarted/internal/config"
	"github.com/stackhero-io/valkeyGettingStarted/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
	}

	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

func TestTLSConnection(t *testing.T) {
	ctx := context.Background()

	srv, err := miniredis.RunTLS(&tls.Config{Certificates: []tls.Certificate{selfSignedCert(t)}})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	port, err := strconv.Atoi(srv.Port())
	require.NoError(t, err)

	t.Run("Encrypted round trip", func(t *testing.T) {
		client := New("valkey", config.ValkeyConfig{
			Host:        srv.Host(),
			Port:        port,
			TLSInsecure: true,
			DialTimeout: time.Second,
		}, logger.Discard())
		defer client.Close()

		require.NoError(t, client.Connect(ctx))
		require.NoError(t, client.Set(ctx, "stackhero-example-key", "abcd"))

		value, found, err := client.Get(ctx, "stackhero-example-key")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "abcd", value)
	})

	t.Run("Untrusted certificate is rejected", func(t *testing.T) {
		client := New("valkey", config.ValkeyConfig{
			Host:        srv.Host(),
			Port:        port,
			DialTimeout: time.Second,
		}, logger.Discard())
		defer client.Close()

		assert.ErrorIs(t, client.Connect(ctx), ErrConnect)
	})

	t.Run("Plain text client cannot talk to a TLS server", func(t *testing.T) {
		client := New("valkey", config.ValkeyConfig{
			Host:        srv.Host(),
			Port:        port,
			DisableTLS:  true,
			DialTimeout: time.Second,
			ReadTimeout: 200 * time.Millisecond,
		}, logger.Discard())
		defer client.Close()

		assert.Error(t, client.Connect(ctx))
	})
}
