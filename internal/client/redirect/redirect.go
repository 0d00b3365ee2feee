// Package redirect decides where a signed-in user lands.
package redirect

import "github.com/dmitrijs2005/skillsync/internal/client/models"

// Routes the client navigates to.
const (
	RouteSignIn        = "/signin"
	RouteOnboarding    = "/onboarding"
	RouteDashboard     = "/dashboard"
	RouteUserDashboard = "/user-dashboard"
)

// NeedsOnboarding is true until the user has a role other than new_user and
// a profile with onboarding completed.
func NeedsOnboarding(user *models.UserSummary) bool {
	if user == nil || user.Role == "" || user.Role == models.RoleNewUser || user.Profile == nil {
		return true
	}
	return !user.Profile.OnboardingCompleted
}

// DecideDestination maps a user to the route shown after authentication.
// It has no side effects; the caller navigates.
func DecideDestination(user *models.UserSummary) string {
	if NeedsOnboarding(user) {
		return RouteOnboarding
	}
	if user.Role.IsAdmin() {
		return RouteDashboard
	}
	return RouteUserDashboard
}
