// Package common contains shared constants and sentinel errors used across
// SkillSync client components.
package common

// AuthorizationHeaderName carries the bearer access token on outbound
// GraphQL requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in the Authorization header.
const BearerPrefix = "Bearer "

// RequestIDHeaderName correlates a client call with backend logs.
const RequestIDHeaderName = "X-Request-ID"

// Cookie names set by the backend. The client never writes them.
const (
	RefreshTokenCookieName = "refresh_token"
	AccessTokenCookieName  = "access_token"
)

// GraphQLURLEnv names the environment variable holding the backend base URL.
const GraphQLURLEnv = "NEXT_PUBLIC_GRAPHQL_API_URL"
