package services

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/redirect"
	"github.com/dmitrijs2005/skillsync/internal/client/repositories/flags"
	"github.com/dmitrijs2005/skillsync/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// SessionStore is the authoritative in-memory authentication record.
//
// The access token lives only here and in the API client's header; it is
// never written to the flag store. Login, Signup, VerifyOTP, ResendOTP,
// SwitchOTPPurpose, VerifyLink and Initialize are mutually exclusive.
type SessionStore struct {
	api   client.Client
	flags FlagStore
	nav   Navigator
	sink  TokenSink
	log   logging.Logger
	now   func() time.Time

	device        models.DeviceInfo
	redirectDelay time.Duration
	maxAttempts   int
	debug         bool

	mu      sync.Mutex
	state   models.Session
	gen     uint64
	subs    map[int]func(models.Session)
	nextSub int

	inFlight atomic.Bool
	refresh  singleflight.Group
}

func NewSessionStore(api client.Client, opts ...Option) *SessionStore {
	s := &SessionStore{
		api:           api,
		flags:         noopFlags{},
		nav:           noopNavigator{},
		sink:          api,
		log:           logging.Discard(),
		now:           time.Now,
		redirectDelay: DefaultRedirectDelay,
		maxAttempts:   models.DefaultMaxOTPAttempts,
		subs:          map[int]func(models.Session){},
	}
	s.device = defaultDevice()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current session.
func (s *SessionStore) Snapshot() models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *SessionStore) Phase() Phase {
	return PhaseOf(s.Snapshot())
}

// Device is the descriptor sent with trust and verification requests.
func (s *SessionStore) Device() models.DeviceInfo {
	return s.device
}

// Subscribe registers fn to receive a snapshot after every change. The
// returned func unregisters it.
func (s *SessionStore) Subscribe(fn func(models.Session)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *SessionStore) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// dispatch applies a unconditionally.
func (s *SessionStore) dispatch(a action) {
	s.commit(0, false, a)
}

// dispatchAt applies a only if no reset happened since gen was read.
func (s *SessionStore) dispatchAt(gen uint64, a action) bool {
	return s.commit(gen, true, a)
}

// resetAt bumps the generation so results of requests started earlier are
// discarded, then applies a.
func (s *SessionStore) resetAt(a action) {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()
	s.dispatch(a)
}

func (s *SessionStore) commit(gen uint64, checkGen bool, a action) bool {
	s.mu.Lock()
	if checkGen && gen != s.gen {
		s.mu.Unlock()
		return false
	}
	prev := s.state
	s.state = reduce(prev, a)
	if s.state.AccessToken != prev.AccessToken && s.sink != nil {
		s.sink.SetAccessToken(s.state.AccessToken)
	}
	snap := s.state.Clone()
	subs := make([]func(models.Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap.Clone())
	}
	return true
}

// begin takes the in-flight guard. The returned done releases it and
// clears the loading flag.
func (s *SessionStore) begin() (uint64, func(), error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return 0, nil, ErrOperationInProgress
	}
	gen := s.generation()
	s.dispatchAt(gen, setLoading{on: true})
	return gen, func() {
		s.dispatch(setLoading{on: false})
		s.inFlight.Store(false)
	}, nil
}

func (s *SessionStore) stale(ctx context.Context, op string) error {
	s.log.Warn(ctx, "discarding result of request that outlived the session", "op", op)
	return ErrStaleResult
}

func (s *SessionStore) newChallenge(email string, purpose models.OTPPurpose) *models.OTPChallenge {
	return &models.OTPChallenge{
		ID:             uuid.NewString(),
		PendingEmail:   email,
		PendingPurpose: purpose,
		DeviceInfo:     s.device,
		MaxAttempts:    s.maxAttempts,
		SentAt:         s.now(),
	}
}

// startChallenge records c in state and in the flag store.
func (s *SessionStore) startChallenge(ctx context.Context, gen uint64, c *models.OTPChallenge, rememberMe bool) error {
	if !s.dispatchAt(gen, challengeStarted{challenge: c}) {
		return s.stale(ctx, "start challenge")
	}
	s.log.Info(ctx, "otp challenge started",
		"challenge_id", c.ID, "purpose", c.PendingPurpose, "email", c.PendingEmail)

	s.savePending(ctx, c, rememberMe)
	return nil
}

func (s *SessionStore) savePending(ctx context.Context, c *models.OTPChallenge, rememberMe bool) {
	p := flags.Pending{Email: c.PendingEmail, Purpose: string(c.PendingPurpose), RememberMe: rememberMe, Attempts: c.Attempts}
	if err := s.flags.SavePending(ctx, p); err != nil {
		s.log.Warn(ctx, "saving pending challenge failed", "challenge_id", c.ID, "error", err)
	}
}

// rememberMe reads the flag saved at sign-in. A read failure counts as false.
func (s *SessionStore) rememberMe(ctx context.Context, c *models.OTPChallenge) bool {
	on, err := s.flags.RememberMe(ctx)
	if err != nil {
		s.log.Warn(ctx, "reading remember-me flag failed", "challenge_id", c.ID, "error", err)
	}
	return on
}

func (s *SessionStore) clearPending(ctx context.Context) {
	if err := s.flags.ClearPending(ctx); err != nil {
		s.log.Warn(ctx, "clearing pending challenge failed", "error", err)
	}
}

// establish stores a freshly issued session. A response without a user is
// completed with a Me call.
func (s *SessionStore) establish(ctx context.Context, gen uint64, token string, expiresIn int64, user *models.UserSummary) (*models.UserSummary, error) {
	if user == nil {
		me, err := s.api.Me(client.WithAccessToken(ctx, token))
		if err != nil {
			s.log.Warn(ctx, "loading user after sign-in failed", "error", err)
		} else {
			user = me
		}
	}

	expiresAt := client.ExpiresAt(s.now(), token, expiresIn)
	if !s.dispatchAt(gen, authenticated{user: user, token: token, expiresAt: expiresAt}) {
		return nil, s.stale(ctx, "establish session")
	}
	s.clearPending(ctx)

	var role models.Role
	if user != nil {
		role = user.Role
	}
	s.log.Info(ctx, "session established", "role", role, "expires_at", expiresAt)
	return user, nil
}

// redirectAfterLogin waits for cookies to settle, then navigates to the
// destination for user unless the session was reset in the meantime.
func (s *SessionStore) redirectAfterLogin(ctx context.Context, gen uint64, user *models.UserSummary) {
	route := redirect.DecideDestination(user)
	if s.debug {
		s.saveDebug(ctx, flags.KeyDebugLastRedirect, route)
		s.saveDebug(ctx, flags.KeyDebugNeedsOnboarding, strconv.FormatBool(redirect.NeedsOnboarding(user)))
	}

	if s.redirectDelay > 0 {
		t := time.NewTimer(s.redirectDelay)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
	}

	if s.generation() != gen {
		return
	}
	if err := s.nav.Navigate(ctx, route, false); err != nil {
		s.log.Warn(ctx, "navigation failed", "route", route, "error", err)
	}
}

func (s *SessionStore) saveDebug(ctx context.Context, key, value string) {
	if err := s.flags.SaveDebug(ctx, key, value); err != nil {
		s.log.Debug(ctx, "saving debug snapshot failed", "key", key, "error", err)
	}
}

// IsSuperAdmin reads the role only; the backend remains the authority.
func (s *SessionStore) IsSuperAdmin() bool {
	return s.HasRole(models.RoleSuperAdmin)
}

// HasRole reports whether the signed-in user has one of roles.
func (s *SessionStore) HasRole(roles ...models.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.IsAuthenticated || s.state.User == nil {
		return false
	}
	for _, r := range roles {
		if s.state.User.Role == r {
			return true
		}
	}
	return false
}
