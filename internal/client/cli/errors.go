package cli

import (
	"errors"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
)

// describe turns session errors into a line for the terminal.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "backend unavailable, try again later"
	case errors.Is(err, services.ErrOperationInProgress):
		return "another request is still running"
	case errors.Is(err, services.ErrNoPendingChallenge):
		return "no verification is pending"
	case errors.Is(err, client.ErrUnauthorized):
		return "not signed in or session expired, type 'signin'"
	}
	return err.Error()
}
