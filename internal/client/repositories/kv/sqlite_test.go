package kv

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err)
	return n > 0
}

func TestOpenSQLite_CreatesTables(t *testing.T) {
	s := setupSQLite(t)

	assert.True(t, tableExists(t, s.DB(), "local_storage"))
	assert.True(t, tableExists(t, s.DB(), "goose_db_version"))
}

func TestOpenSQLite_FileIsReopenedWithData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "auth_token", []byte("mock-jwt-token-1-1")))
	require.NoError(t, s.Close())

	// migrations must be idempotent on reopen
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, []byte("mock-jwt-token-1-1"), v)
}

func TestSQLiteStore_SetGetUpsertRemove(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	v, err := s.Get(ctx, "absent")
	require.NoError(t, err)
	require.Nil(t, v) // (nil, nil) when the row is missing

	require.NoError(t, s.Set(ctx, "k", []byte("old")))
	require.NoError(t, s.Set(ctx, "k", []byte("new")))

	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)

	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "k"))

	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_UpdateRollsBack(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	err := s.Update(ctx, func(ctx context.Context, tx Store) error {
		require.NoError(t, tx.Set(ctx, "auth_token", []byte("t")))
		return errors.New("boom")
	})
	require.Error(t, err)

	v, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSQLiteStore_UpdateCommits(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()

	err := s.Update(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Set(ctx, "auth_token", []byte("t")); err != nil {
			return err
		}
		// nested Update on a tx-bound store runs inline
		return tx.(*SQLStore).Update(ctx, func(ctx context.Context, tx Store) error {
			return tx.Set(ctx, "current_user", []byte(`{"id":"1"}`))
		})
	})
	require.NoError(t, err)

	v, _ := s.Get(ctx, "current_user")
	assert.Equal(t, []byte(`{"id":"1"}`), v)
}

func TestSQLiteStore_ErrorsAreWrapped(t *testing.T) {
	s := setupSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.DB().Close())

	_, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get local storage[k]")

	err = s.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set local storage[k]")

	err = s.Remove(ctx, "k")
	require.ErrorContains(t, err, "failed to remove local storage[k]")
}

func TestRunSQLiteMigrations_ErrorFromGoose(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, _ ...goose.OptionsFunc) error {
		assert.Equal(t, "sqlite", dir)
		return errors.New("dirty")
	}

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = RunSQLiteMigrations(context.Background(), db)
	require.ErrorContains(t, err, "sqlite migrations: dirty")
}
