package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
)

func (a *App) printResult(r *client.MutationResult, fallback string) {
	if r != nil && r.Message != "" {
		fmt.Fprintln(a.out, r.Message)
		return
	}
	fmt.Fprintln(a.out, fallback)
}

// ForgotPassword asks the backend to email a reset link.
func (a *App) ForgotPassword(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	r, err := a.session.RequestPasswordReset(ctx, email)
	if err != nil {
		return err
	}
	a.printResult(r, "If the account exists, a reset link is on its way.")
	return nil
}

// ResetPassword sets a new password using the token from the reset email.
func (a *App) ResetPassword(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Paste the reset token", a.out)
	if err != nil {
		return err
	}
	pw, err := a.readPassword("New password")
	if err != nil {
		return err
	}
	r, err := a.session.ResetPassword(ctx, token, pw)
	if err != nil {
		return err
	}
	a.printResult(r, "Password reset. Type 'signin' to continue.")
	return nil
}

func (a *App) ChangePassword(ctx context.Context) error {
	current, err := a.readPassword("Current password")
	if err != nil {
		return err
	}
	next, err := a.readPassword("New password")
	if err != nil {
		return err
	}
	r, err := a.session.ChangePassword(ctx, current, next)
	if err != nil {
		return err
	}
	a.printResult(r, "Password changed.")
	return nil
}
