package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	otpPending() bool

	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	Cancel(ctx context.Context) error
	Switch(ctx context.Context, args []string) error
	Link(ctx context.Context, args []string) error
	Trust(ctx context.Context, args []string) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Me(ctx context.Context) error
	Refresh(ctx context.Context) error
	Status(ctx context.Context) error
	Logout(ctx context.Context) error
}

const (
	helpGuest   = "Available commands: signin, signup, link <token>, trust [email], forgot, reset, status, exit"
	helpPending = "Available commands: verify, resend, cancel, switch <purpose>, trust [email], status, logout, exit"
	helpMember  = "Available commands: me, change-password, refresh, trust [email], status, logout, exit"
)

// runREPL starts a simple read-eval-print loop for the SkillSync CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens as
// arguments. The loop exits on scanner EOF, when ctx is cancelled, or when
// the user types "exit" or "quit".
//
// The prompt shows the current status (from statusFn). Which commands help
// lists depends on whether the user is a guest, has a code pending, or is
// signed in; every command is accepted in every state and the session store
// decides whether it applies.
//
// Errors returned by command handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("skillsync> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			switch {
			case a.isLoggedIn():
				printlnFn(helpMember)
			case a.otpPending():
				printlnFn(helpPending)
			default:
				printlnFn(helpGuest)
			}

		case "signin", "login":
			err = a.SignIn(ctx)

		case "signup", "register":
			err = a.SignUp(ctx)

		case "verify":
			err = a.Verify(ctx)

		case "resend":
			err = a.Resend(ctx)

		case "cancel":
			err = a.Cancel(ctx)

		case "switch":
			err = a.Switch(ctx, args)

		case "link":
			err = a.Link(ctx, args)

		case "trust":
			err = a.Trust(ctx, args)

		case "forgot":
			err = a.ForgotPassword(ctx)

		case "reset":
			err = a.ResetPassword(ctx)

		case "change-password":
			err = a.ChangePassword(ctx)

		case "me":
			err = a.Me(ctx)

		case "refresh":
			err = a.Refresh(ctx)

		case "status":
			err = a.Status(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", describe(err))
		}
	}
}
