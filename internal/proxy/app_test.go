package proxy

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/config"
	"github.com/stretchr/testify/require"
)

func TestNewAppRejectsBadURL(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()
	c.GraphQLURL = "ftp://backend"

	_, err := NewApp(c)
	require.Error(t, err)
}

func TestAppRunStopsOnCancel(t *testing.T) {
	c := &config.Config{}
	c.LoadDefaults()
	c.ProxyAddr = "127.0.0.1:0"
	c.LogLevel = "error"

	app, err := NewApp(c)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- app.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
