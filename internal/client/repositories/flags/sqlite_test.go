package flags

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func TestOpen_MigratesSchema(t *testing.T) {
	db := setupDB(t)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM flags`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestOpen_IsIdempotentOnSameFile(t *testing.T) {
	dsn := "file:" + t.TempDir() + "/state.db"

	db, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k1", []byte("v1"), time.Minute))

	v, err := r.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), v)
}

func TestGet_Missing_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestGet_Expired_ReadsAsAbsentAndIsDropped(t *testing.T) {
	db := setupDB(t)
	clock := newClock()
	r := NewSQLiteRepository(db).WithClock(clock.now)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v"), time.Minute))

	clock.advance(59 * time.Second)
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	clock.advance(time.Second)
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM flags WHERE key = 'k'`).Scan(&n))
	assert.Equal(t, 0, n, "expired row must be removed on read")
}

func TestSet_ZeroTTLNeverExpires(t *testing.T) {
	clock := newClock()
	r := NewSQLiteRepository(setupDB(t)).WithClock(clock.now)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("v"), 0))
	clock.advance(365 * 24 * time.Hour)

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestSet_UpsertOverwritesValueAndExpiry(t *testing.T) {
	clock := newClock()
	r := NewSQLiteRepository(setupDB(t)).WithClock(clock.now)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old"), time.Second))
	require.NoError(t, r.Set(ctx, "k", []byte("new"), time.Hour))
	clock.advance(time.Minute)

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestSet_NilValueStoredAsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", nil, time.Minute))
	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.NotNil(t, v)
	assert.Empty(t, v)
}

func TestDelete_MultipleKeysAndIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}, 0))
	require.NoError(t, r.Set(ctx, "b", []byte{2}, 0))
	require.NoError(t, r.Set(ctx, "c", []byte{3}, 0))

	require.NoError(t, r.Delete(ctx, "a", "b"))
	require.NoError(t, r.Delete(ctx, "a"))

	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, v)
	v, err = r.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, []byte{3}, v)
}

func TestClear_RemovesAll(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}, 0))
	require.NoError(t, r.Set(ctx, "b", []byte{2}, time.Hour))
	require.NoError(t, r.Clear(ctx))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM flags`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestPurgeExpired(t *testing.T) {
	clock := newClock()
	r := NewSQLiteRepository(setupDB(t)).WithClock(clock.now)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "short", []byte{1}, time.Second))
	require.NoError(t, r.Set(ctx, "long", []byte{2}, time.Hour))
	require.NoError(t, r.Set(ctx, "forever", []byte{3}, 0))
	clock.advance(time.Minute)

	n, err := r.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGet_DBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	v, err := r.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Nil(t, v)
	assert.Contains(t, err.Error(), "failed to get flag[k]")
}

func TestSet_DBErrorWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	err := r.Set(context.Background(), "k", []byte("v"), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set flag[k]")
}
