package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/client/client"
	"github.com/dmitrijs2005/skillsync/internal/client/config"
	"github.com/dmitrijs2005/skillsync/internal/client/device"
	"github.com/dmitrijs2005/skillsync/internal/client/models"
	"github.com/dmitrijs2005/skillsync/internal/client/repositories/flags"
	"github.com/dmitrijs2005/skillsync/internal/client/services"
	"github.com/dmitrijs2005/skillsync/internal/logging"
)

type App struct {
	config  *config.Config
	session sessionService
	api     io.Closer
	db      *sql.DB
	log     logging.Logger
	reader  *bufio.Reader
	out     io.Writer
	now     func() time.Time
}

// NewApp opens the flag store, builds the GraphQL client and the session
// store, and returns an App reading from stdin.
func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.New(c.LogLevel, os.Stderr)

	dsn, err := c.ResolveStateDSN()
	if err != nil {
		return nil, fmt.Errorf("resolve state dsn: %w", err)
	}

	db, err := flags.Open(ctx, dsn)
	if err != nil {
		logger.Error(ctx, "error initializing state db", "error", err)
		return nil, err
	}

	if n, err := flags.NewSQLiteRepository(db).PurgeExpired(ctx); err != nil {
		logger.Warn(ctx, "purge expired flags", "error", err)
	} else if n > 0 {
		logger.Debug(ctx, "purged expired flags", "count", n)
	}

	api, err := client.NewGraphQLClient(c.GraphQLURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger),
		client.WithUserAgent(device.DefaultUserAgent()),
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	out := io.Writer(os.Stdout)
	store := services.NewSessionStore(api,
		services.WithFlagStore(flags.NewStore(db, c.FlagTTL)),
		services.WithNavigator(navigator{out: out}),
		services.WithLogger(logger),
		services.WithRedirectDelay(c.RedirectDelay),
		services.WithDebugSnapshots(c.DebugSnapshots),
	)

	return &App{
		config:  c,
		session: store,
		api:     api,
		db:      db,
		log:     logger,
		reader:  bufio.NewReader(os.Stdin),
		out:     out,
		now:     time.Now,
	}, nil
}

// Run restores the session, keeps the token fresh in the background and
// blocks in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	if err := a.session.Initialize(ctx); err != nil {
		a.log.Debug(ctx, "no session restored", "error", err)
	}
	a.printResume()

	ctx, cancel := context.WithCancel(ctx)
	done := a.session.StartAutoRefresh(ctx, a.config.RefreshLead)
	defer func() {
		cancel()
		<-done
	}()

	runREPL(ctx, a, a.status, bufio.NewScanner(a.reader))
}

func (a *App) close() {
	if a.api != nil {
		_ = a.api.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) printResume() {
	s := a.session.Snapshot()
	switch {
	case s.OTPRequired():
		fmt.Fprintf(a.out, "Resuming %s verification for %s. Type 'verify' to enter the code.\n",
			s.Challenge.PendingPurpose, s.PendingEmail())
	case s.IsAuthenticated && s.User != nil:
		fmt.Fprintf(a.out, "Welcome back, %s.\n", displayName(s))
	}
}

func (a *App) isLoggedIn() bool {
	return a.session.Snapshot().IsAuthenticated
}

func (a *App) otpPending() bool {
	return a.session.Snapshot().OTPRequired()
}

// status is the prompt label: the signed-in email, the pending address, or guest.
func (a *App) status() string {
	s := a.session.Snapshot()
	switch {
	case s.IsAuthenticated && s.User != nil:
		return s.User.Email
	case s.OTPRequired():
		return "verify " + s.PendingEmail()
	}
	return "guest"
}

func displayName(s models.Session) string {
	if s.User == nil {
		return ""
	}
	if n := s.User.FullName(); n != "" {
		return n
	}
	return s.User.Email
}
