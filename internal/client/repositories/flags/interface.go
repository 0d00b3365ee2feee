// Package flags stores the short-lived client flags that must survive a
// restart between "code sent" and "code verified": the pending OTP email and
// purpose and the remember-me choice. Tokens are never stored here.
package flags

import (
	"context"
	"time"
)

// Keys used by the session store.
const (
	KeyPendingEmail    = "otp_pending_email"
	KeyPendingPurpose  = "otp_pending_purpose"
	KeyPendingAttempts = "otp_pending_attempts"
	KeyRememberMe      = "otp_remember_me"

	KeyDebugLastRedirect    = "debug_last_redirect"
	KeyDebugNeedsOnboarding = "debug_needs_onboarding"
)

// Repository is a key/value store whose entries expire.
//
// Get returns (nil, nil) for missing or expired keys. A ttl <= 0 stores the
// value without expiry.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
	PurgeExpired(ctx context.Context) (int64, error)
}
