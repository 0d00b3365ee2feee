package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/device"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/repositories/flags"
	"github.com/dmitrijs2005/skillsync/internal/logging"
)

// DefaultRedirectDelay lets the backend's cookies settle before navigating.
const DefaultRedirectDelay = 100 * time.Millisecond

// Navigator moves the user to route. full asks for a hard navigation that
// drops all client state, as after logout.
type Navigator interface {
	Navigate(ctx context.Context, route string, full bool) error
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context, route string, full bool) error

func (f NavigatorFunc) Navigate(ctx context.Context, route string, full bool) error {
	return f(ctx, route, full)
}

// TokenSink receives every access-token change, including the clear to "".
type TokenSink interface {
	SetAccessToken(token string)
}

// FlagStore persists the pending challenge between runs. *flags.Store
// implements it.
type FlagStore interface {
	SavePending(ctx context.Context, p flags.Pending) error
	LoadPending(ctx context.Context) (*flags.Pending, error)
	RememberMe(ctx context.Context) (bool, error)
	ClearPending(ctx context.Context) error
	SaveDebug(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

type Option func(*SessionStore)

func WithFlagStore(f FlagStore) Option {
	return func(s *SessionStore) { s.flags = f }
}

func WithNavigator(n Navigator) Option {
	return func(s *SessionStore) { s.nav = n }
}

func WithLogger(l logging.Logger) Option {
	return func(s *SessionStore) { s.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *SessionStore) { s.now = now }
}

func WithRedirectDelay(d time.Duration) Option {
	return func(s *SessionStore) { s.redirectDelay = d }
}

func WithDeviceInfo(d models.DeviceInfo) Option {
	return func(s *SessionStore) { s.device = d }
}

// WithTokenSink replaces the default sink, which is the API client itself.
func WithTokenSink(t TokenSink) Option {
	return func(s *SessionStore) { s.sink = t }
}

// WithDebugSnapshots enables the debug_* flags written on every redirect.
func WithDebugSnapshots(on bool) Option {
	return func(s *SessionStore) { s.debug = on }
}

// WithMaxOTPAttempts overrides models.DefaultMaxOTPAttempts.
func WithMaxOTPAttempts(n int) Option {
	return func(s *SessionStore) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, string, bool) error { return nil }

type noopFlags struct{}

func (noopFlags) SavePending(context.Context, flags.Pending) error    { return nil }
func (noopFlags) LoadPending(context.Context) (*flags.Pending, error) { return nil, nil }
func (noopFlags) RememberMe(context.Context) (bool, error)            { return false, nil }
func (noopFlags) ClearPending(context.Context) error                  { return nil }
func (noopFlags) SaveDebug(context.Context, string, string) error     { return nil }
func (noopFlags) Clear(context.Context) error                         { return nil }

func defaultDevice() models.DeviceInfo {
	return device.GetDeviceInfo(device.DefaultUserAgent())
}
