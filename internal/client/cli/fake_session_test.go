package cli

import (
	"context"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
)

// fakeSession records calls and applies canned state transitions.
type fakeSession struct {
	state models.Session
	calls []string

	loginEmail, loginPassword string
	loginRemember             bool
	loginOTP                  bool
	signup                    models.SignupData
	code                      string
	trust                     bool
	purpose                   models.OTPPurpose
	linkToken                 string
	trustEmail                string
	trusted                   bool
	resetEmail                string
	resetToken, newPassword   string
	currentPassword           string

	err       error
	verifyErr error
	result    *client.MutationResult
	initErr   error
	refreshed chan struct{}
}

func (f *fakeSession) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeSession) Snapshot() models.Session { return f.state.Clone() }
func (f *fakeSession) Phase() services.Phase    { return services.PhaseOf(f.state) }

func (f *fakeSession) Initialize(context.Context) error {
	f.record("initialize")
	return f.initErr
}

func (f *fakeSession) StartAutoRefresh(ctx context.Context, _ time.Duration) <-chan struct{} {
	f.record("autorefresh")
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(done)
	}()
	return done
}

func (f *fakeSession) Login(_ context.Context, email, password string, rememberMe bool) error {
	f.record("login")
	f.loginEmail, f.loginPassword, f.loginRemember = email, password, rememberMe
	if f.err != nil {
		return f.err
	}
	if f.loginOTP {
		f.state.Challenge = &models.OTPChallenge{PendingEmail: email, PendingPurpose: models.PurposeSignIn, MaxAttempts: 3}
		return nil
	}
	f.state.IsAuthenticated = true
	f.state.User = &models.UserSummary{ID: "u1", Email: email, FirstName: "Ada", LastName: "Lovelace", Role: models.RoleLearner}
	return nil
}

func (f *fakeSession) Signup(_ context.Context, data models.SignupData) error {
	f.record("signup")
	f.signup = data
	if f.err != nil {
		return f.err
	}
	f.state.Challenge = &models.OTPChallenge{PendingEmail: data.Email, PendingPurpose: models.PurposeSignUp, MaxAttempts: 3}
	return nil
}

func (f *fakeSession) VerifyOTP(_ context.Context, code string, trustDevice bool) (*client.AuthResult, error) {
	f.record("verify")
	f.code, f.trust = code, trustDevice
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}
	c := f.state.Challenge
	f.state.Challenge = nil
	if c != nil && c.PendingPurpose.CompletesLogin() {
		f.state.IsAuthenticated = true
		f.state.User = &models.UserSummary{ID: "u1", Email: c.PendingEmail, Role: models.RoleLearner}
	}
	return &client.AuthResult{MutationResult: client.MutationResult{Success: true, Message: "code accepted"}}, nil
}

func (f *fakeSession) ResendOTP(context.Context) error {
	f.record("resend")
	return f.err
}

func (f *fakeSession) CancelOTP(context.Context) error {
	f.record("cancel")
	if f.err != nil {
		return f.err
	}
	f.state.Challenge = nil
	return nil
}

func (f *fakeSession) SwitchOTPPurpose(_ context.Context, p models.OTPPurpose) error {
	f.record("switch")
	f.purpose = p
	if f.err != nil {
		return f.err
	}
	if f.state.Challenge != nil {
		f.state.Challenge.PendingPurpose = p
	}
	return nil
}

func (f *fakeSession) VerifyLink(_ context.Context, token string) error {
	f.record("link")
	f.linkToken = token
	if f.err != nil {
		return f.err
	}
	f.state.IsAuthenticated = true
	f.state.User = &models.UserSummary{ID: "u1", Email: "ada@example.com", Role: models.RoleLearner}
	return nil
}

func (f *fakeSession) CheckDeviceTrust(_ context.Context, email string) (bool, error) {
	f.record("trust")
	f.trustEmail = email
	return f.trusted, f.err
}

func (f *fakeSession) RequestPasswordReset(_ context.Context, email string) (*client.MutationResult, error) {
	f.record("forgot")
	f.resetEmail = email
	return f.result, f.err
}

func (f *fakeSession) ResetPassword(_ context.Context, token, newPassword string) (*client.MutationResult, error) {
	f.record("reset")
	f.resetToken, f.newPassword = token, newPassword
	return f.result, f.err
}

func (f *fakeSession) ChangePassword(_ context.Context, currentPassword, newPassword string) (*client.MutationResult, error) {
	f.record("change-password")
	f.currentPassword, f.newPassword = currentPassword, newPassword
	return f.result, f.err
}

func (f *fakeSession) Me(context.Context) (*models.UserSummary, error) {
	f.record("me")
	if f.err != nil {
		return nil, f.err
	}
	return f.state.User.Clone(), nil
}

func (f *fakeSession) RefreshToken(context.Context) error {
	f.record("refresh")
	return f.err
}

func (f *fakeSession) Logout(context.Context) error {
	f.record("logout")
	f.state = models.Session{}
	return f.err
}
