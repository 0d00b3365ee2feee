package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

// VerifyOTP submits code for the pending challenge.
//
// For signin and signup a success establishes the session and redirects.
// For password_reset and device_verification it only clears the challenge.
// A rejected code consumes one attempt and yields *OTPError; transport
// failures do not.
func (s *SessionStore) VerifyOTP(ctx context.Context, code string, trustDevice bool) (*client.AuthResult, error) {
	gen, res, user, err := s.verifyOTP(ctx, code, trustDevice)
	if err != nil {
		return nil, err
	}
	if s.Snapshot().IsAuthenticated {
		s.redirectAfterLogin(ctx, gen, user)
	}
	return res, nil
}

func (s *SessionStore) verifyOTP(ctx context.Context, code string, trustDevice bool) (uint64, *client.AuthResult, *models.UserSummary, error) {
	gen, done, err := s.begin()
	if err != nil {
		return 0, nil, nil, err
	}
	defer done()

	c := s.Snapshot().Challenge
	if c == nil {
		return gen, nil, nil, ErrNoPendingChallenge
	}
	if c.Exhausted() {
		return gen, nil, nil, ErrOTPAttemptsExhausted
	}

	var rememberMe bool
	if c.PendingPurpose == models.PurposeSignIn {
		rememberMe = s.rememberMe(ctx, c)
	}

	res, err := s.api.VerifyOTP(ctx, client.VerifyOTPInput{
		Email:       c.PendingEmail,
		Code:        code,
		Purpose:     c.PendingPurpose,
		DeviceInfo:  c.DeviceInfo,
		TrustDevice: trustDevice,
		RememberMe:  rememberMe,
	})
	if err != nil {
		if !codeRejected(err) {
			return gen, nil, nil, fmt.Errorf("verify otp: %w", err)
		}
		if !s.dispatchAt(gen, otpRejected{}) {
			return gen, nil, nil, s.stale(ctx, "verify otp")
		}
		updated := s.Snapshot().Challenge
		if updated != nil && s.generation() == gen {
			// Persist the count so a restart does not hand out fresh attempts.
			s.savePending(ctx, updated, rememberMe)
		}
		left := updated.AttemptsRemaining()
		s.log.Info(ctx, "otp rejected", "challenge_id", c.ID, "purpose", c.PendingPurpose, "attempts_remaining", left)
		return gen, nil, nil, &OTPError{AttemptsRemaining: left, Err: err}
	}

	s.log.Info(ctx, "otp verified", "challenge_id", c.ID, "purpose", c.PendingPurpose, "device_trusted", res.DeviceTrusted)

	if !c.PendingPurpose.CompletesLogin() {
		if !s.dispatchAt(gen, challengeCleared{}) {
			return gen, nil, nil, s.stale(ctx, "verify otp")
		}
		s.clearPending(ctx)
		return gen, res, nil, nil
	}

	user, err := s.establish(ctx, gen, res.AccessToken, res.ExpiresIn, res.User)
	if err != nil {
		return gen, nil, nil, err
	}
	return gen, res, user, nil
}

// codeRejected reports whether the backend answered and refused the code,
// as opposed to the request not getting through.
func codeRejected(err error) bool {
	return errors.Is(err, client.ErrRejected) || errors.Is(err, client.ErrGraphQL)
}

// ResendOTP sends a new code for the pending challenge and resets its
// attempt counter.
func (s *SessionStore) ResendOTP(ctx context.Context) error {
	gen, done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	c := s.Snapshot().Challenge
	if c == nil {
		return ErrNoPendingChallenge
	}

	if _, err := s.api.SendOTP(ctx, client.SendOTPInput{Email: c.PendingEmail, Purpose: c.PendingPurpose, DeviceInfo: c.DeviceInfo}); err != nil {
		return fmt.Errorf("resend otp: %w", err)
	}
	if !s.dispatchAt(gen, challengeResent{at: s.now()}) {
		return s.stale(ctx, "resend otp")
	}
	s.log.Info(ctx, "otp resent", "challenge_id", c.ID, "purpose", c.PendingPurpose)

	// Rewriting the flags restarts their TTL and resets the stored count.
	if fresh := s.Snapshot().Challenge; fresh != nil {
		s.savePending(ctx, fresh, s.rememberMe(ctx, c))
	}
	return nil
}

// CancelOTP drops the pending challenge. A verification still in flight is
// discarded when it returns.
func (s *SessionStore) CancelOTP(ctx context.Context) error {
	c := s.Snapshot().Challenge
	if c == nil {
		return ErrNoPendingChallenge
	}
	s.resetAt(challengeCleared{})
	s.clearPending(ctx)
	s.log.Info(ctx, "otp challenge cancelled", "challenge_id", c.ID)
	return nil
}

// SwitchOTPPurpose replaces the pending challenge with a new one for the
// same email and purpose p, and sends its code.
func (s *SessionStore) SwitchOTPPurpose(ctx context.Context, p models.OTPPurpose) error {
	if _, err := models.ParseOTPPurpose(string(p)); err != nil {
		return fmt.Errorf("%w: %v", client.ErrInvalidInput, err)
	}

	gen, done, err := s.begin()
	if err != nil {
		return err
	}
	defer done()

	old := s.Snapshot().Challenge
	if old == nil {
		return ErrNoPendingChallenge
	}

	c := s.newChallenge(old.PendingEmail, p)
	if _, err := s.api.SendOTP(ctx, client.SendOTPInput{Email: c.PendingEmail, Purpose: p, DeviceInfo: c.DeviceInfo}); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	s.log.Info(ctx, "otp purpose switched", "from", old.PendingPurpose, "to", p, "previous_challenge_id", old.ID)

	rememberMe := p == models.PurposeSignIn && s.rememberMe(ctx, old)
	return s.startChallenge(ctx, gen, c, rememberMe)
}

// VerifyLink signs in with a magic-link token.
func (s *SessionStore) VerifyLink(ctx context.Context, token string) error {
	gen, user, err := s.verifyLink(ctx, token)
	if err != nil {
		return err
	}
	s.redirectAfterLogin(ctx, gen, user)
	return nil
}

func (s *SessionStore) verifyLink(ctx context.Context, token string) (uint64, *models.UserSummary, error) {
	gen, done, err := s.begin()
	if err != nil {
		return 0, nil, err
	}
	defer done()

	res, err := s.api.VerifyLink(ctx, token)
	if err != nil {
		s.log.Warn(ctx, "magic link verification failed", "error", err)
		return gen, nil, fmt.Errorf("verify link: %w", err)
	}
	user, err := s.establish(ctx, gen, res.AccessToken, res.ExpiresIn, res.User)
	return gen, user, err
}

// CheckDeviceTrust asks whether this device may skip the OTP for email.
func (s *SessionStore) CheckDeviceTrust(ctx context.Context, email string) (bool, error) {
	res, err := s.api.CheckDeviceTrust(ctx, email, s.device)
	if err != nil {
		return false, fmt.Errorf("check device trust: %w", err)
	}
	return res.Trusted, nil
}
