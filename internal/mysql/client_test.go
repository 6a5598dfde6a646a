package mysql

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// unusedPort reserves a free TCP port and releases it so the test can dial
// an address nothing listens on.
func unusedPort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestVerifyConnectionRefused(t *testing.T) {
	client := NewClient(zap.NewNop())
	client.timeout = 2 * time.Second

	creds := Credentials{
		Host:     "127.0.0.1",
		Port:     unusedPort(t),
		User:     "backup",
		Password: "topsecret",
	}

	err := client.Verify(context.Background(), creds, "app")

	require.Error(t, err)

	var connErr *ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "backup", connErr.User)
	assert.Equal(t, creds.Addr(), connErr.Addr)
}

func TestVerifyErrorOmitsPassword(t *testing.T) {
	client := NewClient(zap.NewNop())
	client.timeout = 2 * time.Second

	creds := Credentials{
		Host:     "127.0.0.1",
		Port:     unusedPort(t),
		User:     "backup",
		Password: "topsecret",
	}

	err := client.Verify(context.Background(), creds, "app")

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "topsecret")
}

func TestCredentialsAddr(t *testing.T) {
	creds := Credentials{Host: "db.internal", Port: 3307}

	assert.Equal(t, "db.internal:3307", creds.Addr())
}
