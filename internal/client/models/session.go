package models

import "time"

// Session is the in-memory authentication record. It is never written to
// disk; the refresh token lives only in the backend's HTTP-only cookie.
type Session struct {
	User            *UserSummary
	AccessToken     string
	TokenExpiresAt  time.Time
	IsAuthenticated bool
	IsLoading       bool
	Challenge       *OTPChallenge
}

// OTPRequired mirrors the frontend's otpRequired flag.
func (s Session) OTPRequired() bool {
	return s.Challenge != nil
}

// PendingEmail is the address the pending challenge was sent to.
func (s Session) PendingEmail() string {
	if s.Challenge == nil {
		return ""
	}
	return s.Challenge.PendingEmail
}

// TokenExpired reports whether the access token is missing or past expiry at now.
func (s Session) TokenExpired(now time.Time) bool {
	if s.AccessToken == "" {
		return true
	}
	return !s.TokenExpiresAt.IsZero() && !now.Before(s.TokenExpiresAt)
}

// Clone deep-copies the session.
func (s Session) Clone() Session {
	s.User = s.User.Clone()
	s.Challenge = s.Challenge.Clone()
	return s
}
