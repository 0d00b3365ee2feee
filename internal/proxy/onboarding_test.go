package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

// backend is a fake GraphQL server. completeOnboarding accepts only the
// bearer token in valid; refreshToken requires the refresh cookie.
type backend struct {
	mu        sync.Mutex
	valid     string
	fresh     string
	ops       []string
	refreshOK bool
	rejectMsg string
}

func (b *backend) calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.ops...)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OperationName string         `json:"operationName"`
		Variables     map[string]any `json:"variables"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	b.ops = append(b.ops, req.OperationName)
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch req.OperationName {
	case "RefreshToken":
		ck, err := r.Cookie(common.RefreshTokenCookieName)
		if !b.refreshOK || err != nil || ck.Value != "rt-1" {
			_, _ = w.Write([]byte(`{"errors":[{"message":"refresh expired","extensions":{"code":"UNAUTHENTICATED"}}]}`))
			return
		}
		http.SetCookie(w, &http.Cookie{Name: common.RefreshTokenCookieName, Value: "rt-2", HttpOnly: true})
		b.mu.Lock()
		b.valid = b.fresh
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"auth": map[string]any{
			"refreshToken": map[string]any{"success": true, "accessToken": b.fresh, "expiresIn": 900},
		}}})

	case "CompleteOnboarding":
		b.mu.Lock()
		valid := b.valid
		b.mu.Unlock()
		if r.Header.Get(common.AuthorizationHeaderName) != common.BearerPrefix+valid {
			_, _ = w.Write([]byte(`{"errors":[{"message":"jwt expired","extensions":{"code":"UNAUTHENTICATED"}}]}`))
			return
		}
		if b.rejectMsg != "" {
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"users": map[string]any{
				"completeOnboarding": map[string]any{"success": false, "message": b.rejectMsg},
			}}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"users": map[string]any{
			"completeOnboarding": map[string]any{"success": true, "message": "done", "user": map[string]any{
				"id": "u1", "email": "a@b.c", "role": "learner",
				"profile": map[string]any{"onboardingCompleted": true},
			}},
		}}})
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func newProxy(t *testing.T, b *backend) *Server {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	api, err := client.NewGraphQLClient(srv.URL, client.WithHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	require.NoError(t, err)
	return New(":0", api, WithClock(func() time.Time { return testNow }), WithRateLimit(100, 100))
}

func post(s *Server, body string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/onboarding/complete", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var r response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &r))
	return r
}

func TestCompleteOnboarding_ValidBearer(t *testing.T) {
	good := token(t, testNow.Add(time.Hour))
	b := &backend{valid: good}
	s := newProxy(t, b)

	rec := post(s, `{"goal":"backend"}`, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+good)
	})

	require.Equal(t, http.StatusOK, rec.Code)
	res := decode(t, rec)
	assert.True(t, res.Success)
	assert.Equal(t, "u1", res.User.ID)
	assert.Equal(t, []string{"CompleteOnboarding"}, b.calls())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCompleteOnboarding_ExpiredCookieTokenRefreshedFirst(t *testing.T) {
	b := &backend{fresh: token(t, testNow.Add(time.Hour)), refreshOK: true}
	s := newProxy(t, b)

	rec := post(s, `{}`, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: token(t, testNow.Add(-time.Minute))})
		r.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "rt-1"})
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"RefreshToken", "CompleteOnboarding"}, b.calls())
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "refresh_token=rt-2")
}

func TestCompleteOnboarding_AuthFailureRetriesOnce(t *testing.T) {
	revoked := token(t, testNow.Add(time.Hour))
	b := &backend{fresh: token(t, testNow.Add(2*time.Hour)), refreshOK: true}
	s := newProxy(t, b)

	rec := post(s, `{}`, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+revoked)
		r.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "rt-1"})
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"CompleteOnboarding", "RefreshToken", "CompleteOnboarding"}, b.calls())
}

func TestCompleteOnboarding_RefreshFailureIs401(t *testing.T) {
	b := &backend{refreshOK: false}
	s := newProxy(t, b)

	rec := post(s, `{}`, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token(t, testNow.Add(time.Hour)))
		r.AddCookie(&http.Cookie{Name: common.RefreshTokenCookieName, Value: "rt-1"})
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{"CompleteOnboarding", "RefreshToken"}, b.calls(), "no second retry")
}

func TestCompleteOnboarding_NoRefreshCookieNoRetry(t *testing.T) {
	b := &backend{refreshOK: true}
	s := newProxy(t, b)

	rec := post(s, `{}`, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token(t, testNow.Add(time.Hour)))
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, []string{"CompleteOnboarding"}, b.calls())

	var body response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, common.ErrNoRefreshToken.Error(), body.Message)
}

func TestCompleteOnboarding_NoCredentials(t *testing.T) {
	b := &backend{}
	s := newProxy(t, b)

	rec := post(s, `{}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, b.calls())
}

func TestCompleteOnboarding_BusinessFailureIs400(t *testing.T) {
	good := token(t, testNow.Add(time.Hour))
	b := &backend{valid: good, rejectMsg: "already completed"}
	s := newProxy(t, b)

	rec := post(s, `{}`, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+good)
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "already completed", decode(t, rec).Message)
}

func TestCompleteOnboarding_BadBody(t *testing.T) {
	b := &backend{}
	s := newProxy(t, b)

	rec := post(s, `[1,2`, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+"x")
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, b.calls())
}

func TestCompleteOnboarding_BackendDownIs502(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	api, err := client.NewGraphQLClient(url, client.WithHTTPClient(&http.Client{Timeout: time.Second}))
	require.NoError(t, err)
	s := New(":0", api, WithClock(func() time.Time { return testNow }))

	rec := post(s, `{}`, func(r *http.Request) {
		r.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token(t, testNow.Add(time.Hour)))
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealth(t *testing.T) {
	s := newProxy(t, &backend{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind client.Kind
		want int
	}{
		{client.KindAuth, http.StatusUnauthorized},
		{client.KindBusiness, http.StatusBadRequest},
		{client.KindValidation, http.StatusBadRequest},
		{client.KindNetwork, http.StatusBadGateway},
		{client.KindGraphQL, http.StatusBadGateway},
		{client.KindDecode, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(&client.APIError{Kind: tt.kind}))
		})
	}
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
