package services

import (
	"errors"
	"fmt"
)

var (
	// ErrOperationInProgress is returned when a login, signup, verification
	// or resend is started while another one is still running.
	ErrOperationInProgress = errors.New("another authentication request is in progress")
	ErrNoPendingChallenge  = errors.New("no pending otp challenge")
	// ErrOTPAttemptsExhausted means a fresh code must be requested first.
	ErrOTPAttemptsExhausted = errors.New("otp attempts exhausted")
	// ErrStaleResult is returned when the session was reset (logout, cancel)
	// while the request was in flight. The result was discarded.
	ErrStaleResult = errors.New("session changed while the request was in flight")
)

// OTPError is returned by VerifyOTP when the backend rejected the code.
type OTPError struct {
	AttemptsRemaining int
	Err               error
}

func (e *OTPError) Error() string {
	return fmt.Sprintf("otp rejected (%d attempts remaining): %v", e.AttemptsRemaining, e.Err)
}

func (e *OTPError) Unwrap() error {
	return e.Err
}

// Is makes an OTPError with no attempts left match ErrOTPAttemptsExhausted.
func (e *OTPError) Is(target error) bool {
	return target == ErrOTPAttemptsExhausted && e.AttemptsRemaining == 0
}
