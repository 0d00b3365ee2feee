package flags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/skillsync/internal/dbx"
)

type SQLiteRepository struct {
	db  dbx.DBTX
	now func() time.Time
}

var _ Repository = (*SQLiteRepository)(nil)

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

// WithClock returns a copy of r that reads the current time from now.
func (r *SQLiteRepository) WithClock(now func() time.Time) *SQLiteRepository {
	return &SQLiteRepository{db: r.db, now: now}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value     []byte
		expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `SELECT value, expires_at FROM flags WHERE key = ?`, key).Scan(&value, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get flag[%s]: %w", key, err)
	}

	if expiresAt != 0 && r.now().UnixMilli() >= expiresAt {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM flags WHERE key = ?`, key); err != nil {
			return nil, fmt.Errorf("failed to drop expired flag[%s]: %w", key, err)
		}
		return nil, nil
	}
	return value, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = r.now().Add(ttl).UnixMilli()
	}
	if value == nil {
		value = []byte{}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO flags (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at
	`, key, value, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to set flag[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if _, err := r.db.ExecContext(ctx, `DELETE FROM flags WHERE key = ?`, key); err != nil {
			return fmt.Errorf("failed to delete flag[%s]: %w", key, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM flags`)
	if err != nil {
		return fmt.Errorf("failed to clear flags: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) PurgeExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM flags WHERE expires_at != 0 AND expires_at <= ?`, r.now().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired flags: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged flags: %w", err)
	}
	return n, nil
}
