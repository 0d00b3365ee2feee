package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

// fakeClient implements client.Client with preset results and records the
// arguments it was called with.
type fakeClient struct {
	mu sync.Mutex

	SignInRet *client.AuthResult
	SignInErr error
	// SignInGate, when set, blocks SignIn until it is closed.
	SignInGate    chan struct{}
	SignInStarted chan struct{}

	SignUpErr error

	SendOTPErr error
	SendOTPIn  []client.SendOTPInput

	VerifyOTPRet *client.AuthResult
	VerifyOTPErr error
	VerifyOTPIn  []client.VerifyOTPInput
	// VerifyOTPGate, when set, blocks VerifyOTP until it is closed.
	VerifyOTPGate    chan struct{}
	VerifyOTPStarted chan struct{}

	VerifyLinkRet *client.AuthResult
	VerifyLinkErr error

	RefreshRet *client.AuthResult
	RefreshErr error
	// RefreshGate, when set, blocks RefreshToken until it is closed.
	RefreshGate  chan struct{}
	RefreshCalls int

	LogoutErr   error
	LogoutCalls int

	MeRet   *models.UserSummary
	MeErr   []error
	MeCalls int

	TrustRet *client.DeviceTrustResult
	TrustErr error

	ChangePasswordErr []error
	ChangeCalls       int

	Tokens []string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) SignIn(ctx context.Context, in client.SignInInput) (*client.AuthResult, error) {
	if f.SignInStarted != nil {
		f.SignInStarted <- struct{}{}
	}
	if f.SignInGate != nil {
		<-f.SignInGate
	}
	return f.SignInRet, f.SignInErr
}

func (f *fakeClient) SignUp(ctx context.Context, in models.SignupData) (*client.SignUpResult, error) {
	if f.SignUpErr != nil {
		return nil, f.SignUpErr
	}
	return &client.SignUpResult{MutationResult: client.MutationResult{Success: true}}, nil
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LogoutCalls++
	return f.LogoutErr
}

func (f *fakeClient) RefreshToken(ctx context.Context) (*client.AuthResult, error) {
	f.mu.Lock()
	f.RefreshCalls++
	gate := f.RefreshGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	return f.RefreshRet, f.RefreshErr
}

func (f *fakeClient) RequestPasswordReset(ctx context.Context, email string) (*client.MutationResult, error) {
	return &client.MutationResult{Success: true, Message: "sent"}, nil
}

func (f *fakeClient) ResetPassword(ctx context.Context, in client.ResetPasswordInput) (*client.MutationResult, error) {
	return &client.MutationResult{Success: true}, nil
}

func (f *fakeClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) (*client.MutationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.ChangeCalls
	f.ChangeCalls++
	if i < len(f.ChangePasswordErr) && f.ChangePasswordErr[i] != nil {
		return nil, f.ChangePasswordErr[i]
	}
	return &client.MutationResult{Success: true}, nil
}

func (f *fakeClient) Me(ctx context.Context) (*models.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.MeCalls
	f.MeCalls++
	if i < len(f.MeErr) && f.MeErr[i] != nil {
		return nil, f.MeErr[i]
	}
	return f.MeRet, nil
}

func (f *fakeClient) SendOTP(ctx context.Context, in client.SendOTPInput) (*client.MutationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SendOTPIn = append(f.SendOTPIn, in)
	if f.SendOTPErr != nil {
		return nil, f.SendOTPErr
	}
	return &client.MutationResult{Success: true}, nil
}

func (f *fakeClient) VerifyOTP(ctx context.Context, in client.VerifyOTPInput) (*client.AuthResult, error) {
	if f.VerifyOTPStarted != nil {
		f.VerifyOTPStarted <- struct{}{}
	}
	if f.VerifyOTPGate != nil {
		<-f.VerifyOTPGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.VerifyOTPIn = append(f.VerifyOTPIn, in)
	return f.VerifyOTPRet, f.VerifyOTPErr
}

func (f *fakeClient) VerifyLink(ctx context.Context, token string) (*client.AuthResult, error) {
	return f.VerifyLinkRet, f.VerifyLinkErr
}

func (f *fakeClient) CheckDeviceTrust(ctx context.Context, email string, device models.DeviceInfo) (*client.DeviceTrustResult, error) {
	return f.TrustRet, f.TrustErr
}

func (f *fakeClient) CompleteOnboarding(ctx context.Context, input map[string]any) (*client.OnboardingResult, error) {
	return &client.OnboardingResult{MutationResult: client.MutationResult{Success: true}}, nil
}

func (f *fakeClient) SetAccessToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tokens = append(f.Tokens, token)
}

func (f *fakeClient) Close() error { return nil }

func (f *fakeClient) logoutCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.LogoutCalls
}

func (f *fakeClient) refreshCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.RefreshCalls
}
