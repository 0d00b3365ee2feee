package client

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/common"
)

func (c *GraphQLClient) SendOTP(ctx context.Context, in SendOTPInput) (*MutationResult, error) {
	op := opSendOTP.name
	if err := required(op, in.Email, common.ErrEmptyEmail); err != nil {
		return nil, err
	}
	if _, err := models.ParseOTPPurpose(string(in.Purpose)); err != nil {
		return nil, validationError(op, err)
	}
	in.Email = strings.TrimSpace(in.Email)

	r, err := mutate[MutationResult](ctx, c, opSendOTP, map[string]any{"input": in})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// VerifyOTP submits a code. For signin and signup purposes a successful
// answer carries the new session; for the other purposes only the envelope
// is meaningful.
func (c *GraphQLClient) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*AuthResult, error) {
	op := opVerifyOTP.name
	if err := required(op, in.Email, common.ErrEmptyEmail); err != nil {
		return nil, err
	}
	if err := required(op, in.Code, common.ErrEmptyCode); err != nil {
		return nil, err
	}
	if _, err := models.ParseOTPPurpose(string(in.Purpose)); err != nil {
		return nil, validationError(op, err)
	}
	in.Email = strings.TrimSpace(in.Email)
	in.Code = strings.TrimSpace(in.Code)

	r, err := mutate[AuthResult](ctx, c, opVerifyOTP, map[string]any{"input": in})
	if err != nil {
		return nil, err
	}
	r.OTPRequired = false
	if in.Purpose.CompletesLogin() {
		if err := validateAuth(op, &r); err != nil {
			return nil, err
		}
	} else if err := validateUser(op, r.User, false); err != nil {
		return nil, err
	}
	return &r, nil
}

// VerifyLink exchanges a magic-link token for a session.
func (c *GraphQLClient) VerifyLink(ctx context.Context, token string) (*AuthResult, error) {
	op := opVerifyLink.name
	if err := required(op, token, common.ErrEmptyToken); err != nil {
		return nil, err
	}
	r, err := mutate[AuthResult](ctx, c, opVerifyLink, map[string]any{"token": strings.TrimSpace(token)})
	if err != nil {
		return nil, err
	}
	r.OTPRequired = false
	if err := validateAuth(op, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *GraphQLClient) CheckDeviceTrust(ctx context.Context, email string, device models.DeviceInfo) (*DeviceTrustResult, error) {
	op := opCheckDeviceTrust.name
	if err := required(op, email, common.ErrEmptyEmail); err != nil {
		return nil, err
	}
	vars := map[string]any{"input": map[string]any{
		"email":      strings.TrimSpace(email),
		"deviceInfo": device,
	}}
	r, err := mutate[DeviceTrustResult](ctx, c, opCheckDeviceTrust, vars)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
