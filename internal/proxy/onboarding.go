package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/common"
	"github.com/labstack/echo/v4"
)

const maxBodyBytes = 1 << 20

type response struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	User    *models.UserSummary `json:"user,omitempty"`
}

// credentials are the caller's tokens as received.
type credentials struct {
	accessToken string
	refresh     *http.Cookie
}

func credentialsFrom(r *http.Request) credentials {
	var cr credentials
	if h := r.Header.Get(common.AuthorizationHeaderName); strings.HasPrefix(h, common.BearerPrefix) {
		cr.accessToken = strings.TrimSpace(strings.TrimPrefix(h, common.BearerPrefix))
	}
	if cr.accessToken == "" {
		if ck, err := r.Cookie(common.AccessTokenCookieName); err == nil {
			cr.accessToken = ck.Value
		}
	}
	if ck, err := r.Cookie(common.RefreshTokenCookieName); err == nil && ck.Value != "" {
		cr.refresh = &http.Cookie{Name: ck.Name, Value: ck.Value}
	}
	return cr
}

// handleCompleteOnboarding forwards the JSON body as the completeOnboarding
// input. An expired or missing access token is refreshed first; an auth
// failure from the backend triggers exactly one refresh and retry. Cookies
// set by the backend during refresh are passed back to the caller.
func (s *Server) handleCompleteOnboarding(c echo.Context) error {
	req := c.Request()
	cr := credentialsFrom(req)
	if cr.accessToken == "" && cr.refresh == nil {
		return c.JSON(http.StatusUnauthorized, response{Message: "not authenticated"})
	}

	var input map[string]any
	if err := json.NewDecoder(io.LimitReader(req.Body, maxBodyBytes)).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
		return c.JSON(http.StatusBadRequest, response{Message: "request body must be a JSON object"})
	}

	var setCookies []*http.Cookie
	ctx := client.CaptureCookies(req.Context(), &setCookies)
	if cr.refresh != nil {
		ctx = client.WithCookies(ctx, cr.refresh)
	}

	status, body := s.completeOnboarding(ctx, &cr, input)
	for _, ck := range setCookies {
		c.SetCookie(ck)
	}
	return c.JSON(status, body)
}

func (s *Server) completeOnboarding(ctx context.Context, cr *credentials, input map[string]any) (int, response) {
	refreshed := false
	refresh := func() error {
		if cr.refresh == nil {
			return &client.APIError{Kind: client.KindAuth, Op: "RefreshToken", StatusCode: http.StatusUnauthorized,
				Message: common.ErrNoRefreshToken.Error(), Err: common.ErrNoRefreshToken}
		}
		refreshed = true
		res, err := s.api.RefreshToken(client.WithAccessToken(ctx, ""))
		if err != nil {
			return err
		}
		cr.accessToken = res.AccessToken
		return nil
	}

	if cr.accessToken == "" || client.Expired(cr.accessToken, s.now()) {
		if err := refresh(); err != nil {
			s.log.Warn(ctx, "refresh before onboarding failed", "error", err)
			return failure(err)
		}
	}

	res, err := s.api.CompleteOnboarding(client.WithAccessToken(ctx, cr.accessToken), input)
	if errors.Is(err, client.ErrUnauthorized) && !refreshed {
		if rerr := refresh(); rerr != nil {
			s.log.Warn(ctx, "refresh after auth failure failed", "error", rerr)
			return failure(rerr)
		}
		res, err = s.api.CompleteOnboarding(client.WithAccessToken(ctx, cr.accessToken), input)
	}
	if err != nil {
		s.log.Warn(ctx, "complete onboarding failed", "error", err)
		return failure(err)
	}

	return http.StatusOK, response{Success: true, Message: res.Message, User: res.User}
}

func failure(err error) (int, response) {
	msg := "onboarding request failed"
	if apiErr, ok := client.AsAPIError(err); ok && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return statusFor(err), response{Message: msg}
}

// statusFor maps client error kinds onto the proxy's response codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, client.ErrRejected), errors.Is(err, client.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, client.ErrUnavailable),
		errors.Is(err, client.ErrGraphQL),
		errors.Is(err, client.ErrInvalidResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
