package flags

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/dbx"
)

// Pending is the persisted part of an OTP challenge.
type Pending struct {
	Email      string
	Purpose    string
	RememberMe bool
	// Attempts is how many wrong codes were already entered.
	Attempts int
}

// Store groups the pending-challenge keys over the flag table. All keys of
// one challenge are written in a single transaction.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewStore(db *sql.DB, ttl time.Duration) *Store {
	return &Store{db: db, ttl: ttl, now: time.Now}
}

// WithClock returns a copy of s using now as its time source.
func (s *Store) WithClock(now func() time.Time) *Store {
	return &Store{db: s.db, ttl: s.ttl, now: now}
}

func (s *Store) repo(db dbx.DBTX) *SQLiteRepository {
	return NewSQLiteRepository(db).WithClock(s.now)
}

func (s *Store) SavePending(ctx context.Context, p Pending) error {
	return dbx.WithTx(ctx, s.db, func(tx dbx.DBTX) error {
		repo := s.repo(tx)
		if err := repo.Set(ctx, KeyPendingEmail, []byte(p.Email), s.ttl); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyPendingPurpose, []byte(p.Purpose), s.ttl); err != nil {
			return err
		}
		if err := repo.Set(ctx, KeyPendingAttempts, []byte(strconv.Itoa(p.Attempts)), s.ttl); err != nil {
			return err
		}
		return repo.Set(ctx, KeyRememberMe, []byte(strconv.FormatBool(p.RememberMe)), s.ttl)
	})
}

// LoadPending returns nil when no complete, unexpired challenge is stored.
func (s *Store) LoadPending(ctx context.Context) (*Pending, error) {
	repo := s.repo(s.db)

	email, err := repo.Get(ctx, KeyPendingEmail)
	if err != nil {
		return nil, err
	}
	purpose, err := repo.Get(ctx, KeyPendingPurpose)
	if err != nil {
		return nil, err
	}
	if len(email) == 0 || len(purpose) == 0 {
		return nil, nil
	}

	remember, err := s.RememberMe(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := repo.Get(ctx, KeyPendingAttempts)
	if err != nil {
		return nil, err
	}
	// Missing or garbled counts read as zero.
	attempts, _ := strconv.Atoi(string(raw))
	return &Pending{Email: string(email), Purpose: string(purpose), RememberMe: remember, Attempts: max(attempts, 0)}, nil
}

// RememberMe reads the flag saved at sign-in; missing or expired means false.
func (s *Store) RememberMe(ctx context.Context) (bool, error) {
	v, err := s.repo(s.db).Get(ctx, KeyRememberMe)
	if err != nil || v == nil {
		return false, err
	}
	b, err := strconv.ParseBool(string(v))
	if err != nil {
		return false, nil
	}
	return b, nil
}

func (s *Store) ClearPending(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, KeyPendingEmail, KeyPendingPurpose, KeyPendingAttempts, KeyRememberMe)
}

// SaveDebug records a debug snapshot with the regular flag TTL.
func (s *Store) SaveDebug(ctx context.Context, key, value string) error {
	return s.repo(s.db).Set(ctx, key, []byte(value), s.ttl)
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return s.repo(s.db).Get(ctx, key)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.repo(s.db).Clear(ctx)
}
