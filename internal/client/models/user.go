package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role is the account role assigned by the backend.
type Role string

const (
	RoleNewUser    Role = "new_user"
	RoleLearner    Role = "learner"
	RoleInstructor Role = "instructor"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// ErrInvalidUser is returned by UserSummary.Validate for malformed backend data.
var ErrInvalidUser = errors.New("invalid user payload")

// Known reports whether r is one of the roles the client understands.
// The empty role is accepted: the backend omits it for accounts that have
// not been assigned one yet.
func (r Role) Known() bool {
	switch r {
	case "", RoleNewUser, RoleLearner, RoleInstructor, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin is true for admin and super_admin.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Profile is the onboarding part of the user's profile.
type Profile struct {
	OnboardingCompleted bool `json:"onboardingCompleted"`
	OnboardingStep      *int `json:"onboardingStep,omitempty"`
}

// UserSummary is the user record returned by sign-in, verification,
// refresh and me.
type UserSummary struct {
	ID            string   `json:"id"`
	Email         string   `json:"email"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Role          Role     `json:"role"`
	EmailVerified bool     `json:"emailVerified"`
	Profile       *Profile `json:"profile"`
}

// Validate rejects records that would otherwise flow half-empty into
// role gating.
func (u *UserSummary) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: missing user", ErrInvalidUser)
	}
	if strings.TrimSpace(u.ID) == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidUser)
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: missing email", ErrInvalidUser)
	}
	if !u.Role.Known() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidUser, u.Role)
	}
	return nil
}

// FullName joins first and last names, skipping empty parts.
func (u *UserSummary) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Clone returns a deep copy so snapshots cannot alias store state.
func (u *UserSummary) Clone() *UserSummary {
	if u == nil {
		return nil
	}
	c := *u
	if u.Profile != nil {
		p := *u.Profile
		if u.Profile.OnboardingStep != nil {
			step := *u.Profile.OnboardingStep
			p.OnboardingStep = &step
		}
		c.Profile = &p
	}
	return &c
}

// SignupData is the registration form.
type SignupData struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
