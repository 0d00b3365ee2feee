package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
)

// sessionService is the part of *services.SessionStore the CLI uses.
type sessionService interface {
	Snapshot() models.Session
	Phase() services.Phase
	Initialize(ctx context.Context) error
	StartAutoRefresh(ctx context.Context, lead time.Duration) <-chan struct{}

	Login(ctx context.Context, email, password string, rememberMe bool) error
	Signup(ctx context.Context, data models.SignupData) error
	VerifyOTP(ctx context.Context, code string, trustDevice bool) (*client.AuthResult, error)
	ResendOTP(ctx context.Context) error
	CancelOTP(ctx context.Context) error
	SwitchOTPPurpose(ctx context.Context, p models.OTPPurpose) error
	VerifyLink(ctx context.Context, token string) error
	CheckDeviceTrust(ctx context.Context, email string) (bool, error)

	RequestPasswordReset(ctx context.Context, email string) (*client.MutationResult, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*client.MutationResult, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (*client.MutationResult, error)
	Me(ctx context.Context) (*models.UserSummary, error)
	RefreshToken(ctx context.Context) error
	Logout(ctx context.Context) error
}

var _ sessionService = (*services.SessionStore)(nil)
