package services

import (
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/models"
)

// Phase is the coarse state of the session.
type Phase string

const (
	PhaseAnonymous     Phase = "anonymous"
	PhaseValidating    Phase = "validating"
	PhaseOTPPending    Phase = "otp_pending"
	PhaseOTPExhausted  Phase = "otp_exhausted"
	PhaseAuthenticated Phase = "authenticated"
)

// PhaseOf derives the phase from a session snapshot.
func PhaseOf(s models.Session) Phase {
	switch {
	case s.IsAuthenticated:
		return PhaseAuthenticated
	case s.Challenge != nil && s.Challenge.Exhausted():
		return PhaseOTPExhausted
	case s.Challenge != nil:
		return PhaseOTPPending
	case s.IsLoading:
		return PhaseValidating
	default:
		return PhaseAnonymous
	}
}

// action is one state transition fed to reduce.
type action interface {
	isAction()
}

type (
	setLoading struct{ on bool }

	authenticated struct {
		user      *models.UserSummary
		token     string
		expiresAt time.Time
	}

	tokenRefreshed struct {
		token     string
		expiresAt time.Time
		// user is nil when the refresh response carried no user.
		user *models.UserSummary
	}

	userUpdated struct{ user *models.UserSummary }

	challengeStarted struct{ challenge *models.OTPChallenge }
	otpRejected      struct{}
	challengeResent  struct{ at time.Time }
	challengeCleared struct{}

	reset struct{}
)

func (setLoading) isAction()       {}
func (authenticated) isAction()    {}
func (tokenRefreshed) isAction()   {}
func (userUpdated) isAction()      {}
func (challengeStarted) isAction() {}
func (otpRejected) isAction()      {}
func (challengeResent) isAction()  {}
func (challengeCleared) isAction() {}
func (reset) isAction()            {}

// reduce is the only place a Session changes. It never mutates its input.
func reduce(s models.Session, a action) models.Session {
	s = s.Clone()

	switch a := a.(type) {
	case setLoading:
		s.IsLoading = a.on

	case authenticated:
		s.User = a.user.Clone()
		s.AccessToken = a.token
		s.TokenExpiresAt = a.expiresAt
		s.IsAuthenticated = true
		s.Challenge = nil

	case tokenRefreshed:
		s.AccessToken = a.token
		s.TokenExpiresAt = a.expiresAt
		s.IsAuthenticated = true
		if a.user != nil {
			s.User = a.user.Clone()
		}

	case userUpdated:
		s.User = a.user.Clone()

	case challengeStarted:
		s.Challenge = a.challenge.Clone()
		s.IsAuthenticated = false
		s.AccessToken = ""
		s.TokenExpiresAt = time.Time{}
		s.User = nil

	case otpRejected:
		if s.Challenge != nil && !s.Challenge.Exhausted() {
			s.Challenge.Attempts++
		}

	case challengeResent:
		if s.Challenge != nil {
			s.Challenge.Attempts = 0
			s.Challenge.SentAt = a.at
		}

	case challengeCleared:
		s.Challenge = nil

	case reset:
		s = models.Session{}
	}

	return s
}
