// Package proxy is the server-side onboarding-completion endpoint. It takes
// the caller's access token (header or cookie) and refresh cookie, refreshes
// when needed, and forwards completeOnboarding to the GraphQL backend on the
// caller's behalf.
package proxy

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/logging"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

// Server serves POST /api/onboarding/complete and GET /health.
//
// The API client must not keep its own token or cookie jar: every call
// carries the credentials of the request being served.
type Server struct {
	addr    string
	api     client.Client
	log     logging.Logger
	now     func() time.Time
	limiter *RateLimiter
	echo    *echo.Echo
}

type Option func(*Server)

func WithLogger(l logging.Logger) Option {
	return func(s *Server) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithRateLimit(r float64, burst int) Option {
	return func(s *Server) { s.limiter = NewRateLimiter(rate.Limit(r), burst) }
}

func New(addr string, api client.Client, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		api:     api,
		log:     logging.Discard(),
		now:     time.Now,
		limiter: NewRateLimiter(rate.Limit(5), 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("module", "onboarding_proxy")
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(s.requestLogger)

	e.GET("/health", s.handleHealth)

	api := e.Group("/api")
	api.Use(s.limiter.Middleware())
	api.POST("/onboarding/complete", s.handleCompleteOnboarding)

	s.echo = e
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}

		req := c.Request()
		res := c.Response()
		s.log.Info(req.Context(), "http request",
			"method", req.Method,
			"uri", req.RequestURI,
			"status", res.Status,
			"request_id", res.Header().Get(echo.HeaderXRequestID),
			"remote", c.RealIP(),
			"duration", time.Since(start))
		return nil
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	go s.limiter.Run(ctx)

	errc := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "starting onboarding proxy", "address", s.addr)
		errc <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info(ctx, "stopping onboarding proxy")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
