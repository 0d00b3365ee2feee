package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
)

// Verify submits the emailed code for the pending challenge.
func (a *App) Verify(ctx context.Context) error {
	s := a.session.Snapshot()
	if !s.OTPRequired() {
		return services.ErrNoPendingChallenge
	}

	code, err := getSimpleText(a.reader, fmt.Sprintf("Enter the code sent to %s", s.PendingEmail()), a.out)
	if err != nil {
		return err
	}

	trust := false
	if s.Challenge.PendingPurpose.CompletesLogin() {
		if trust, err = getConfirmation(a.reader, "Trust this device?", a.out); err != nil {
			return err
		}
	}

	res, err := a.session.VerifyOTP(ctx, code, trust)
	var oe *services.OTPError
	switch {
	case errors.As(err, &oe) && oe.AttemptsRemaining > 0:
		fmt.Fprintf(a.out, "Invalid code, %d attempts left.\n", oe.AttemptsRemaining)
		return nil
	case errors.Is(err, services.ErrOTPAttemptsExhausted):
		fmt.Fprintln(a.out, "No attempts left. Type 'resend' for a new code or 'cancel' to start over.")
		return nil
	case err != nil:
		return err
	}

	after := a.session.Snapshot()
	if after.IsAuthenticated {
		fmt.Fprintf(a.out, "Verified. Signed in as %s.\n", displayName(after))
		return nil
	}
	msg := "Verified."
	if res != nil && res.Message != "" {
		msg = res.Message
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Resend(ctx context.Context) error {
	if err := a.session.ResendOTP(ctx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "A new code was sent to %s.\n", a.session.Snapshot().PendingEmail())
	return nil
}

func (a *App) Cancel(ctx context.Context) error {
	if err := a.session.CancelOTP(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Verification cancelled.")
	return nil
}

// Switch restarts verification under another purpose: switch <purpose>.
func (a *App) Switch(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: switch signin|signup|password_reset|device_verification")
	}
	p := models.OTPPurpose(args[0])
	if err := a.session.SwitchOTPPurpose(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "A %s code was sent to %s.\n", p, a.session.Snapshot().PendingEmail())
	return nil
}

// Link signs in with a magic-link token: link <token>.
func (a *App) Link(ctx context.Context, args []string) error {
	var token string
	if len(args) > 0 {
		token = args[0]
	} else {
		var err error
		if token, err = getSimpleText(a.reader, "Paste the link token", a.out); err != nil {
			return err
		}
	}
	if err := a.session.VerifyLink(ctx, token); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Signed in as %s.\n", displayName(a.session.Snapshot()))
	return nil
}

// Trust asks the backend whether this device is trusted for an email,
// defaulting to the pending or signed-in address.
func (a *App) Trust(ctx context.Context, args []string) error {
	var email string
	if len(args) > 0 {
		email = args[0]
	} else {
		s := a.session.Snapshot()
		email = s.PendingEmail()
		if email == "" && s.User != nil {
			email = s.User.Email
		}
	}
	if email == "" {
		var err error
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return err
		}
	}

	trusted, err := a.session.CheckDeviceTrust(ctx, email)
	if err != nil {
		return err
	}
	if trusted {
		fmt.Fprintf(a.out, "This device is trusted for %s.\n", email)
	} else {
		fmt.Fprintf(a.out, "This device is not trusted for %s.\n", email)
	}
	return nil
}
