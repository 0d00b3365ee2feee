package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

// getSimpleText, getPassword and getConfirmation are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getConfirmation = GetConfirmation
)

func (a *App) readPassword(prompt string) (string, error) {
	pw, err := getPassword(prompt, a.out)
	if err != nil {
		return "", err
	}
	defer clear(pw)
	return string(pw), nil
}

// SignIn prompts for credentials and signs in. When the backend asks for a
// one-time code the user is told to run verify.
func (a *App) SignIn(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := a.readPassword("Enter password")
	if err != nil {
		return err
	}
	remember, err := getConfirmation(a.reader, "Remember me on this device?", a.out)
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, email, password, remember); err != nil {
		return err
	}

	s := a.session.Snapshot()
	if s.OTPRequired() {
		fmt.Fprintf(a.out, "A verification code was sent to %s. Type 'verify' to enter it.\n", s.PendingEmail())
		return nil
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", displayName(s))
	return nil
}

// SignUp registers an account; the backend emails a code to confirm it.
func (a *App) SignUp(ctx context.Context) error {
	var data models.SignupData
	var err error

	if data.FirstName, err = getSimpleText(a.reader, "First name", a.out); err != nil {
		return err
	}
	if data.LastName, err = getSimpleText(a.reader, "Last name", a.out); err != nil {
		return err
	}
	if data.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	if data.Password, err = a.readPassword("Choose password"); err != nil {
		return err
	}

	if err := a.session.Signup(ctx, data); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created. A verification code was sent to %s. Type 'verify' to enter it.\n",
		a.session.Snapshot().PendingEmail())
	return nil
}

// Logout always ends the local session, even if the backend is unreachable.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Signed out.")
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.session.RefreshToken(ctx); err != nil {
		return err
	}
	s := a.session.Snapshot()
	if s.TokenExpiresAt.IsZero() {
		fmt.Fprintln(a.out, "Token refreshed.")
		return nil
	}
	fmt.Fprintf(a.out, "Token refreshed, valid for %s.\n", s.TokenExpiresAt.Sub(a.now()).Round(time.Second))
	return nil
}

// Me reloads the current user from the backend and prints it.
func (a *App) Me(ctx context.Context) error {
	u, err := a.session.Me(ctx)
	if err != nil {
		return err
	}
	printUser(a, u)
	return nil
}

// Status prints the local session state without calling the backend.
func (a *App) Status(_ context.Context) error {
	s := a.session.Snapshot()
	fmt.Fprintf(a.out, "State: %s\n", a.session.Phase())

	if s.User != nil {
		printUser(a, s.User)
	}
	if s.IsAuthenticated && !s.TokenExpiresAt.IsZero() {
		left := s.TokenExpiresAt.Sub(a.now()).Round(time.Second)
		if left <= 0 {
			fmt.Fprintln(a.out, "Access token: expired")
		} else {
			fmt.Fprintf(a.out, "Access token: valid for %s\n", left)
		}
	}
	if c := s.Challenge; c != nil {
		fmt.Fprintf(a.out, "Pending %s code for %s, %d of %d attempts left\n",
			c.PendingPurpose, c.PendingEmail, c.AttemptsRemaining(), c.MaxAttempts)
	}
	return nil
}

func printUser(a *App, u *models.UserSummary) {
	var b strings.Builder
	fmt.Fprintf(&b, "User: %s <%s>\n", u.FullName(), u.Email)
	role := string(u.Role)
	if role == "" {
		role = "unassigned"
	}
	fmt.Fprintf(&b, "Role: %s\n", role)
	fmt.Fprintf(&b, "Email verified: %t\n", u.EmailVerified)
	if u.Profile != nil {
		fmt.Fprintf(&b, "Onboarding completed: %t\n", u.Profile.OnboardingCompleted)
	}
	fmt.Fprint(a.out, b.String())
}
