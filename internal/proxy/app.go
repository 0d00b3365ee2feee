package proxy

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/config"
	"github.com/dmitrijs2005/skillsync/internal/logging"
)

const userAgent = "skillsync-onboarding-proxy"

// App runs the proxy server as a process: logging, signals and the
// backend client.
type App struct {
	config *config.Config
	logger logging.Logger
	api    client.Client
}

func NewApp(c *config.Config) (*App, error) {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logging.ParseLevel(c.LogLevel)})
	logger := logging.NewSlogLogger(slog.New(handler))

	// No cookie jar: credentials come from each proxied request.
	api, err := client.NewGraphQLClient(c.GraphQLURL,
		client.WithHTTPClient(&http.Client{Timeout: c.RequestTimeout}),
		client.WithLogger(logger),
		client.WithUserAgent(userAgent),
	)
	if err != nil {
		return nil, fmt.Errorf("graphql client init error: %w", err)
	}

	return &App{config: c, logger: logger, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.api.Close()

	app.initSignalHandler(cancelFunc)
	app.logger.Info(ctx, "Starting app...")

	s := New(app.config.ProxyAddr, app.api,
		WithLogger(app.logger),
		WithRateLimit(app.config.ProxyRateLimit, app.config.ProxyBurst),
	)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "proxy stopped", "error", err)
		return err
	}
	return nil
}
