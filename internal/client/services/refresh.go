package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

// RefreshToken mints a new access token from the refresh cookie. A failed
// refresh logs the user out; a half-authenticated client is never left
// behind. Concurrent callers share one backend call.
//
// The shared call is detached from ctx, so cancelling one caller neither
// fails the others nor ends the session; that caller alone gets ctx's error.
func (s *SessionStore) RefreshToken(ctx context.Context) error {
	shared := context.WithoutCancel(ctx)
	ch := s.refresh.DoChan("refresh", func() (any, error) {
		return nil, s.refreshOnce(shared)
	})
	select {
	case r := <-ch:
		return r.Err
	case <-ctx.Done():
		return fmt.Errorf("refresh token: %w", ctx.Err())
	}
}

func (s *SessionStore) refreshOnce(ctx context.Context) error {
	gen := s.generation()

	res, err := s.api.RefreshToken(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.log.Warn(ctx, "token refresh abandoned", "error", err)
			return fmt.Errorf("refresh token: %w", err)
		}
		s.log.Warn(ctx, "token refresh failed, logging out", "error", err)
		if s.generation() == gen {
			if lerr := s.Logout(ctx); lerr != nil {
				s.log.Warn(ctx, "logout after failed refresh", "error", lerr)
			}
		}
		return fmt.Errorf("refresh token: %w", err)
	}

	expiresAt := client.ExpiresAt(s.now(), res.AccessToken, res.ExpiresIn)
	if !s.dispatchAt(gen, tokenRefreshed{token: res.AccessToken, expiresAt: expiresAt, user: res.User}) {
		return s.stale(ctx, "refresh token")
	}
	s.log.Debug(ctx, "access token refreshed", "expires_at", expiresAt)
	return nil
}

// Call runs fn and, if it fails with an authentication error, refreshes the
// token once and retries. A token already known to be expired is refreshed
// before fn runs. A failed refresh logs out and is returned.
func (s *SessionStore) Call(ctx context.Context, fn func(ctx context.Context) error) error {
	if snap := s.Snapshot(); snap.IsAuthenticated && snap.TokenExpired(s.now()) {
		if err := s.RefreshToken(ctx); err != nil {
			return err
		}
		return fn(ctx)
	}

	err := fn(ctx)
	if !errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	if rerr := s.RefreshToken(ctx); rerr != nil {
		return rerr
	}
	return fn(ctx)
}

// minRefreshInterval bounds background refreshes when the backend issues
// tokens shorter than the refresh lead.
const minRefreshInterval = time.Second

// StartAutoRefresh refreshes the token lead before it expires, for as long
// as ctx lives. While the store is not authenticated it waits for the next
// state change. The returned channel is closed when the loop exits.
func (s *SessionStore) StartAutoRefresh(ctx context.Context, lead time.Duration) <-chan struct{} {
	changed := make(chan struct{}, 1)
	unsubscribe := s.Subscribe(func(models.Session) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer unsubscribe()

		var earliest time.Time
		for {
			snap := s.Snapshot()
			if !snap.IsAuthenticated || snap.TokenExpiresAt.IsZero() {
				select {
				case <-ctx.Done():
					return
				case <-changed:
					continue
				}
			}

			wait := snap.TokenExpiresAt.Add(-lead).Sub(s.now())
			if floor := time.Until(earliest); wait < floor {
				wait = floor
			}
			if wait > 0 {
				t := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					t.Stop()
					return
				case <-changed:
					t.Stop()
					continue
				case <-t.C:
				}
			}

			earliest = time.Now().Add(minRefreshInterval)
			if err := s.RefreshToken(ctx); err != nil {
				s.log.Warn(ctx, "background refresh failed", "error", err)
			}
			// Drain the notification caused by our own refresh.
			select {
			case <-changed:
			default:
			}
		}
	}()
	return done
}

// Initialize restores state at startup: a pending challenge from the flag
// store if there is one, otherwise a silent refresh. A failed refresh leaves
// the store anonymous and does not navigate.
func (s *SessionStore) Initialize(ctx context.Context) error {
	gen, done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	p, err := s.flags.LoadPending(ctx)
	if err != nil {
		s.log.Warn(ctx, "loading pending challenge failed", "error", err)
	}
	if p != nil {
		purpose, perr := models.ParseOTPPurpose(p.Purpose)
		if perr == nil {
			c := s.newChallenge(p.Email, purpose)
			c.Attempts = min(p.Attempts, c.MaxAttempts)
			return s.startChallenge(ctx, gen, c, p.RememberMe)
		}
		s.log.Warn(ctx, "dropping stored challenge", "error", perr)
		s.clearPending(ctx)
	}

	res, err := s.api.RefreshToken(ctx)
	if err != nil {
		s.log.Debug(ctx, "no session to restore", "error", err)
		return fmt.Errorf("restore session: %w", err)
	}
	_, err = s.establish(ctx, gen, res.AccessToken, res.ExpiresIn, res.User)
	return err
}
