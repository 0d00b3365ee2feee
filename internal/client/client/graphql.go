package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/dmitrijs2005/skillsync/internal/logging"
	"github.com/google/uuid"
)

const (
	defaultTimeout   = 15 * time.Second
	maxResponseBytes = 4 << 20
)

// GraphQLClient talks to the single GraphQL endpoint of the backend.
type GraphQLClient struct {
	endpoint  string
	http      *http.Client
	log       logging.Logger
	userAgent string
	requestID func() string

	mu          sync.RWMutex
	accessToken string
}

type Option func(*GraphQLClient)

// WithHTTPClient replaces the default client. A client without a Jar does
// not keep cookies between calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GraphQLClient) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *GraphQLClient) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *GraphQLClient) { c.log = l }
}

func WithUserAgent(ua string) Option {
	return func(c *GraphQLClient) { c.userAgent = ua }
}

// NewGraphQLClient validates endpoint and builds a client whose cookie jar
// keeps the backend's refresh cookie.
func NewGraphQLClient(endpoint string, opts ...Option) (*GraphQLClient, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid graphql endpoint: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid graphql endpoint %q: want http(s)://host/path", endpoint)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &GraphQLClient{
		endpoint:  u.String(),
		http:      &http.Client{Timeout: defaultTimeout, Jar: jar},
		log:       logging.Discard(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *GraphQLClient) SetAccessToken(token string) {
	c.mu.Lock()
	c.accessToken = token
	c.mu.Unlock()
}

func (c *GraphQLClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// Cookies returns the jar's cookies for the endpoint. Used by tests and
// diagnostics; the values are the backend's, never written by the client.
func (c *GraphQLClient) Cookies() []*http.Cookie {
	if c.http.Jar == nil {
		return nil
	}
	u, _ := url.Parse(c.endpoint)
	return c.http.Jar.Cookies(u)
}

func (c *GraphQLClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type gqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do executes op and returns the raw payload found at data.<namespace>.<field>.
func (c *GraphQLClient) do(ctx context.Context, op operation, vars map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(gqlRequest{Query: op.document, OperationName: op.name, Variables: vars})
	if err != nil {
		return nil, validationError(op.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, networkError(op.name, 0, err)
	}

	requestID := c.requestID()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	token, ok := accessTokenFrom(ctx)
	if !ok {
		token = c.token()
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}
	for _, ck := range cookiesFrom(ctx) {
		req.AddCookie(ck)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn(ctx, "graphql call failed", "op", op.name, "request_id", requestID, "error", err)
		return nil, networkError(op.name, 0, err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "graphql call", "op", op.name, "request_id", requestID,
		"status", resp.StatusCode, "duration", time.Since(started))

	if dst := captureFrom(ctx); dst != nil {
		*dst = append(*dst, resp.Cookies()...)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, networkError(op.name, resp.StatusCode, err)
	}

	var env gqlResponse
	jsonErr := json.Unmarshal(raw, &env)

	if jsonErr == nil && len(env.Errors) > 0 {
		return nil, graphQLError(op.name, resp.StatusCode, env.Errors)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &APIError{Kind: KindAuth, Op: op.name, StatusCode: resp.StatusCode, Message: "authentication required"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, networkError(op.name, resp.StatusCode, nil)
	}
	if jsonErr != nil {
		return nil, decodeError(op.name, fmt.Errorf("malformed response body: %w", jsonErr))
	}

	return extract(op, env.Data)
}

func extract(op operation, data json.RawMessage) (json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil || top == nil {
		return nil, decodeError(op.name, errors.New("response has no data"))
	}

	var inner map[string]json.RawMessage
	if err := json.Unmarshal(top[op.namespace], &inner); err != nil || inner == nil {
		return nil, decodeError(op.name, fmt.Errorf("response has no %s", op.namespace))
	}

	payload, ok := inner[op.field]
	if !ok || string(payload) == "null" {
		return nil, decodeError(op.name, fmt.Errorf("response has no %s.%s", op.namespace, op.field))
	}
	return payload, nil
}

func graphQLError(op string, status int, errs []gqlError) *APIError {
	first := errs[0]
	e := &APIError{
		Kind:       KindGraphQL,
		Op:         op,
		StatusCode: status,
		Message:    first.Message,
		Details:    map[string]any{},
	}
	if e.Message == "" {
		e.Message = "graphql error"
	}
	if len(first.Path) > 0 {
		e.Details["path"] = first.Path
	}
	for k, v := range first.Extensions {
		e.Details[k] = v
	}
	if len(errs) > 1 {
		e.Details["errorCount"] = len(errs)
	}

	code, _ := first.Extensions["code"].(string)
	if code == "UNAUTHENTICATED" || status == http.StatusUnauthorized {
		e.Kind = KindAuth
		e.StatusCode = http.StatusUnauthorized
		return e
	}
	if e.StatusCode < http.StatusBadRequest {
		e.StatusCode = http.StatusInternalServerError
	}
	return e
}

type envelope interface {
	envelope() MutationResult
}

// call runs op and decodes its payload into T.
func call[T any](ctx context.Context, c *GraphQLClient, op operation, vars map[string]any) (*T, error) {
	raw, err := c.do(ctx, op, vars)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, decodeError(op.name, err)
	}
	return &out, nil
}

// mutate is call plus the success:false check.
func mutate[T envelope](ctx context.Context, c *GraphQLClient, op operation, vars map[string]any) (T, error) {
	out, err := call[T](ctx, c, op, vars)
	if err != nil {
		var zero T
		return zero, err
	}
	if env := (*out).envelope(); !env.Success {
		var zero T
		return zero, businessError(op.name, env.Message)
	}
	return *out, nil
}
