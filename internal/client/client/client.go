package client

import (
	"context"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

// Client is the backend contract the session store depends on.
type Client interface {
	SignIn(ctx context.Context, in SignInInput) (*AuthResult, error)
	SignUp(ctx context.Context, in models.SignupData) (*SignUpResult, error)
	Logout(ctx context.Context) error
	RefreshToken(ctx context.Context) (*AuthResult, error)
	RequestPasswordReset(ctx context.Context, email string) (*MutationResult, error)
	ResetPassword(ctx context.Context, in ResetPasswordInput) (*MutationResult, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (*MutationResult, error)
	Me(ctx context.Context) (*models.UserSummary, error)

	SendOTP(ctx context.Context, in SendOTPInput) (*MutationResult, error)
	VerifyOTP(ctx context.Context, in VerifyOTPInput) (*AuthResult, error)
	VerifyLink(ctx context.Context, token string) (*AuthResult, error)
	CheckDeviceTrust(ctx context.Context, email string, device models.DeviceInfo) (*DeviceTrustResult, error)

	CompleteOnboarding(ctx context.Context, input map[string]any) (*OnboardingResult, error)

	// SetAccessToken replaces the bearer token sent with every call.
	// The empty string stops sending the header.
	SetAccessToken(token string)
	Close() error
}

type SignInInput struct {
	Email      string            `json:"email"`
	Password   string            `json:"password"`
	RememberMe bool              `json:"rememberMe"`
	DeviceInfo models.DeviceInfo `json:"deviceInfo"`
}

type SendOTPInput struct {
	Email      string            `json:"email"`
	Purpose    models.OTPPurpose `json:"purpose"`
	DeviceInfo models.DeviceInfo `json:"deviceInfo"`
}

type VerifyOTPInput struct {
	Email       string            `json:"email"`
	Code        string            `json:"code"`
	Purpose     models.OTPPurpose `json:"purpose"`
	DeviceInfo  models.DeviceInfo `json:"deviceInfo"`
	TrustDevice bool              `json:"trustDevice"`
	RememberMe  bool              `json:"rememberMe"`
}

type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// MutationResult is the envelope every mutation returns.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (r MutationResult) envelope() MutationResult { return r }

// AuthResult is returned by sign-in, refresh and OTP/link verification.
// ExpiresIn is in seconds; zero means the backend did not say.
type AuthResult struct {
	MutationResult
	AccessToken   string              `json:"accessToken"`
	ExpiresIn     int64               `json:"expiresIn"`
	User          *models.UserSummary `json:"user"`
	OTPRequired   bool                `json:"otpRequired"`
	DeviceTrusted bool                `json:"deviceTrusted"`
}

type SignUpResult struct {
	MutationResult
	User *models.UserSummary `json:"user"`
}

type DeviceTrustResult struct {
	MutationResult
	Trusted bool `json:"trusted"`
}

type OnboardingResult struct {
	MutationResult
	User *models.UserSummary `json:"user"`
}
