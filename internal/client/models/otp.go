package models

import (
	"fmt"
	"time"
)

// OTPPurpose scopes a one-time passcode to the flow that requested it.
type OTPPurpose string

const (
	PurposeSignIn             OTPPurpose = "signin"
	PurposeSignUp             OTPPurpose = "signup"
	PurposePasswordReset      OTPPurpose = "password_reset"
	PurposeDeviceVerification OTPPurpose = "device_verification"
)

// DefaultMaxOTPAttempts is how many wrong codes are accepted before a fresh
// code must be requested.
const DefaultMaxOTPAttempts = 3

// ParseOTPPurpose converts a stored or user-entered purpose string.
func ParseOTPPurpose(s string) (OTPPurpose, error) {
	switch p := OTPPurpose(s); p {
	case PurposeSignIn, PurposeSignUp, PurposePasswordReset, PurposeDeviceVerification:
		return p, nil
	}
	return "", fmt.Errorf("unknown otp purpose %q", s)
}

// CompletesLogin reports whether a successful verification for this
// purpose authenticates the client.
func (p OTPPurpose) CompletesLogin() bool {
	return p == PurposeSignIn || p == PurposeSignUp
}

// OTPChallenge is a pending verification. It lives only until the code is
// accepted, the user cancels, or the purpose changes.
type OTPChallenge struct {
	// ID correlates log lines of one challenge. It is never sent to the backend.
	ID             string
	PendingEmail   string
	PendingPurpose OTPPurpose
	DeviceInfo     DeviceInfo
	Attempts       int
	MaxAttempts    int
	SentAt         time.Time
}

func (c *OTPChallenge) AttemptsRemaining() int {
	if c == nil {
		return 0
	}
	left := c.MaxAttempts - c.Attempts
	if left < 0 {
		return 0
	}
	return left
}

func (c *OTPChallenge) Exhausted() bool {
	return c.AttemptsRemaining() == 0
}

func (c *OTPChallenge) Clone() *OTPChallenge {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
