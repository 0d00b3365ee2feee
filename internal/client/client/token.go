package client

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of an access token without verifying the
// signature. The client cannot verify it and only needs the timestamp to
// schedule refreshes; the backend remains the authority.
func TokenExpiry(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, common.ErrEmptyToken
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("%w: no exp claim", common.ErrInvalidToken)
	}
	return claims.ExpiresAt.Time, nil
}

// ExpiresAt computes the absolute expiry of a freshly issued token:
// now + expiresIn seconds, or the exp claim when expiresIn is zero.
// The zero time means the expiry is unknown.
func ExpiresAt(now time.Time, token string, expiresIn int64) time.Time {
	if expiresIn > 0 {
		return now.Add(time.Duration(expiresIn) * time.Second)
	}
	exp, err := TokenExpiry(token)
	if err != nil {
		return time.Time{}
	}
	return exp
}

// Expired reports whether token's exp claim is at or before now. Tokens
// without a readable exp count as not expired; the backend decides.
func Expired(token string, now time.Time) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return !now.Before(exp)
}
