package client

import (
	"context"
	"net/http"
)

type ctxKey int

const (
	accessTokenKey ctxKey = iota
	cookiesKey
	captureKey
)

// WithAccessToken makes calls made with ctx carry token instead of the
// client's own. An empty token suppresses the Authorization header.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey, token)
}

// WithCookies adds cookies to calls made with ctx, on top of the jar.
func WithCookies(ctx context.Context, cookies ...*http.Cookie) context.Context {
	existing, _ := ctx.Value(cookiesKey).([]*http.Cookie)
	merged := make([]*http.Cookie, 0, len(existing)+len(cookies))
	merged = append(merged, existing...)
	merged = append(merged, cookies...)
	return context.WithValue(ctx, cookiesKey, merged)
}

// CaptureCookies appends every Set-Cookie of calls made with ctx to dst.
func CaptureCookies(ctx context.Context, dst *[]*http.Cookie) context.Context {
	return context.WithValue(ctx, captureKey, dst)
}

func accessTokenFrom(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok
}

func cookiesFrom(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesKey).([]*http.Cookie)
	return cookies
}

func captureFrom(ctx context.Context) *[]*http.Cookie {
	dst, _ := ctx.Value(captureKey).(*[]*http.Cookie)
	return dst
}
