package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/redirect"
)

// Login validates credentials. When the backend requires an OTP, the same
// call has already sent it: the store moves to otp_pending and returns nil
// without authenticating. Otherwise the session is established and the user
// is redirected.
func (s *SessionStore) Login(ctx context.Context, email, password string, rememberMe bool) error {
	gen, user, err := s.login(ctx, email, password, rememberMe)
	if err != nil || !s.Snapshot().IsAuthenticated {
		return err
	}
	s.redirectAfterLogin(ctx, gen, user)
	return nil
}

func (s *SessionStore) login(ctx context.Context, email, password string, rememberMe bool) (uint64, *models.UserSummary, error) {
	gen, done, err := s.begin()
	if err != nil {
		return 0, nil, err
	}
	defer done()

	email = strings.TrimSpace(email)
	res, err := s.api.SignIn(ctx, client.SignInInput{
		Email:      email,
		Password:   password,
		RememberMe: rememberMe,
		DeviceInfo: s.device,
	})
	if err != nil {
		s.log.Warn(ctx, "sign in failed", "email", email, "error", err)
		return gen, nil, fmt.Errorf("sign in: %w", err)
	}

	if res.OTPRequired {
		return gen, nil, s.startChallenge(ctx, gen, s.newChallenge(email, models.PurposeSignIn), rememberMe)
	}

	user, err := s.establish(ctx, gen, res.AccessToken, res.ExpiresIn, res.User)
	return gen, user, err
}

// Signup registers the account and starts the signup-purpose challenge.
// Signup always requires verification.
func (s *SessionStore) Signup(ctx context.Context, data models.SignupData) error {
	gen, done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	data.Email = strings.TrimSpace(data.Email)
	if _, err := s.api.SignUp(ctx, data); err != nil {
		s.log.Warn(ctx, "sign up failed", "email", data.Email, "error", err)
		return fmt.Errorf("sign up: %w", err)
	}

	c := s.newChallenge(data.Email, models.PurposeSignUp)
	if _, err := s.api.SendOTP(ctx, client.SendOTPInput{Email: c.PendingEmail, Purpose: c.PendingPurpose, DeviceInfo: s.device}); err != nil {
		s.log.Warn(ctx, "sending signup otp failed", "email", data.Email, "error", err)
		return fmt.Errorf("send otp: %w", err)
	}
	return s.startChallenge(ctx, gen, c, false)
}

// Logout always leaves the store empty. The backend call is best-effort and
// its failure is only logged. Requests still in flight are discarded when
// they return.
func (s *SessionStore) Logout(ctx context.Context) error {
	snap := s.Snapshot()
	s.resetAt(reset{})

	if snap.AccessToken != "" || snap.IsAuthenticated {
		if err := s.api.Logout(client.WithAccessToken(ctx, snap.AccessToken)); err != nil {
			s.log.Warn(ctx, "backend logout failed", "error", err)
		}
	}
	if err := s.flags.Clear(ctx); err != nil {
		s.log.Warn(ctx, "clearing flags failed", "error", err)
	}
	s.log.Info(ctx, "logged out")

	return s.nav.Navigate(ctx, redirect.RouteSignIn, true)
}

// RequestPasswordReset asks the backend to email a reset link or code.
func (s *SessionStore) RequestPasswordReset(ctx context.Context, email string) (*client.MutationResult, error) {
	return s.api.RequestPasswordReset(ctx, email)
}

func (s *SessionStore) ResetPassword(ctx context.Context, token, newPassword string) (*client.MutationResult, error) {
	return s.api.ResetPassword(ctx, client.ResetPasswordInput{Token: token, NewPassword: newPassword})
}

// ChangePassword requires a session and retries once after a refresh.
func (s *SessionStore) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*client.MutationResult, error) {
	var res *client.MutationResult
	err := s.Call(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.api.ChangePassword(ctx, currentPassword, newPassword)
		return err
	})
	return res, err
}

// Me reloads the user from the backend and stores it.
func (s *SessionStore) Me(ctx context.Context) (*models.UserSummary, error) {
	gen := s.generation()
	var user *models.UserSummary
	err := s.Call(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.api.Me(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.Snapshot().IsAuthenticated && !s.dispatchAt(gen, userUpdated{user: user}) {
		return nil, s.stale(ctx, "me")
	}
	return user, nil
}
