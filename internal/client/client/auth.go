package client

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/common"
)

func required(op string, value string, err error) error {
	if strings.TrimSpace(value) == "" {
		return validationError(op, err)
	}
	return nil
}

// validateUser enforces the user schema at the boundary. mustExist makes a
// missing user an error too.
func validateUser(op string, u *models.UserSummary, mustExist bool) error {
	if u == nil && !mustExist {
		return nil
	}
	if err := u.Validate(); err != nil {
		return decodeError(op, err)
	}
	return nil
}

// validateAuth checks an AuthResult that is expected to carry a session.
func validateAuth(op string, r *AuthResult) error {
	if r.OTPRequired {
		return validateUser(op, r.User, false)
	}
	if r.AccessToken == "" {
		return decodeError(op, errors.New("response has no accessToken"))
	}
	if r.ExpiresIn < 0 {
		return decodeError(op, errors.New("negative expiresIn"))
	}
	return validateUser(op, r.User, false)
}

// SignIn validates credentials. When the backend answers otpRequired it has
// already sent the code; no separate SendOTP call is needed.
func (c *GraphQLClient) SignIn(ctx context.Context, in SignInInput) (*AuthResult, error) {
	op := opSignIn.name
	if err := required(op, in.Email, common.ErrEmptyEmail); err != nil {
		return nil, err
	}
	if err := required(op, in.Password, common.ErrEmptyPassword); err != nil {
		return nil, err
	}
	in.Email = strings.TrimSpace(in.Email)

	r, err := mutate[AuthResult](ctx, c, opSignIn, map[string]any{"input": in})
	if err != nil {
		return nil, err
	}
	if err := validateAuth(op, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *GraphQLClient) SignUp(ctx context.Context, in models.SignupData) (*SignUpResult, error) {
	op := opSignUp.name
	if err := required(op, in.Email, common.ErrEmptyEmail); err != nil {
		return nil, err
	}
	if err := required(op, in.Password, common.ErrEmptyPassword); err != nil {
		return nil, err
	}
	in.Email = strings.TrimSpace(in.Email)

	r, err := mutate[SignUpResult](ctx, c, opSignUp, map[string]any{"input": in})
	if err != nil {
		return nil, err
	}
	if err := validateUser(op, r.User, false); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *GraphQLClient) Logout(ctx context.Context) error {
	_, err := mutate[MutationResult](ctx, c, opLogout, nil)
	return err
}

// RefreshToken mints a new access token from the refresh cookie in the jar
// (or the cookies attached with WithCookies).
func (c *GraphQLClient) RefreshToken(ctx context.Context) (*AuthResult, error) {
	r, err := mutate[AuthResult](ctx, c, opRefreshToken, nil)
	if err != nil {
		return nil, err
	}
	r.OTPRequired = false
	if err := validateAuth(opRefreshToken.name, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *GraphQLClient) RequestPasswordReset(ctx context.Context, email string) (*MutationResult, error) {
	if err := required(opRequestPasswordReset.name, email, common.ErrEmptyEmail); err != nil {
		return nil, err
	}
	r, err := mutate[MutationResult](ctx, c, opRequestPasswordReset, map[string]any{"email": strings.TrimSpace(email)})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *GraphQLClient) ResetPassword(ctx context.Context, in ResetPasswordInput) (*MutationResult, error) {
	op := opResetPassword.name
	if err := required(op, in.Token, common.ErrEmptyToken); err != nil {
		return nil, err
	}
	if err := required(op, in.NewPassword, common.ErrEmptyPassword); err != nil {
		return nil, err
	}
	r, err := mutate[MutationResult](ctx, c, opResetPassword, map[string]any{"input": in})
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *GraphQLClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*MutationResult, error) {
	op := opChangePassword.name
	if err := required(op, currentPassword, common.ErrEmptyPassword); err != nil {
		return nil, err
	}
	if err := required(op, newPassword, common.ErrEmptyPassword); err != nil {
		return nil, err
	}
	vars := map[string]any{"input": map[string]string{
		"currentPassword": currentPassword,
		"newPassword":     newPassword,
	}}
	r, err := mutate[MutationResult](ctx, c, opChangePassword, vars)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *GraphQLClient) Me(ctx context.Context) (*models.UserSummary, error) {
	u, err := call[models.UserSummary](ctx, c, opMe, nil)
	if err != nil {
		return nil, err
	}
	if err := validateUser(opMe.name, u, true); err != nil {
		return nil, err
	}
	return u, nil
}

// CompleteOnboarding forwards the onboarding answers. The proxy calls it
// with the end user's credentials attached to ctx.
func (c *GraphQLClient) CompleteOnboarding(ctx context.Context, input map[string]any) (*OnboardingResult, error) {
	if input == nil {
		input = map[string]any{}
	}
	r, err := mutate[OnboardingResult](ctx, c, opCompleteOnboarding, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	if err := validateUser(opCompleteOnboarding.name, r.User, false); err != nil {
		return nil, err
	}
	return &r, nil
}
