// Package client is the SkillSync credential/OTP API client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) for the backend
//     operations the session store needs: sign-in, sign-up, logout, refresh,
//     password reset and change, me, and the OTP operations send, verify,
//     verify-link and device-trust check.
//  2. A GraphQL-over-HTTPS implementation (see GraphQLClient) that keeps a
//     cookie jar so the backend's HTTP-only refresh_token cookie round-trips,
//     sends the in-memory access token as a bearer header, and validates
//     every decoded user record.
//
// # Error Handling
//
// Every failure is returned as *APIError carrying Kind, StatusCode, Message
// and Details. Callers match broad classes with errors.Is against
// ErrUnavailable, ErrUnauthorized, ErrRejected, ErrGraphQL, ErrInvalidInput
// and ErrInvalidResponse, or use errors.As for the full record.
//
// # Per-call credentials
//
// WithAccessToken, WithCookies and CaptureCookies attach credentials to a
// context for a single call. The proxy uses them to act on behalf of its
// caller without touching the client's own token or jar.
package client
