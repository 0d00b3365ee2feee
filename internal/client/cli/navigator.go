package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/skillsync/internal/client/redirect"
)

var routeHints = map[string]string{
	redirect.RouteSignIn:        "type 'signin' to sign in again",
	redirect.RouteOnboarding:    "finish onboarding in the web app before using the dashboard",
	redirect.RouteDashboard:     "admin dashboard",
	redirect.RouteUserDashboard: "learner dashboard",
}

// navigator reports navigation to the terminal; there is no page to load.
type navigator struct {
	out io.Writer
}

func (n navigator) Navigate(_ context.Context, route string, full bool) error {
	hint := routeHints[route]
	if full {
		_, err := fmt.Fprintf(n.out, "Session cleared. Next: %s (%s)\n", route, hint)
		return err
	}
	_, err := fmt.Fprintf(n.out, "Next: %s (%s)\n", route, hint)
	return err
}
