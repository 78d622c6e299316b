package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/agentfree/sessionkit/internal/client/migrations"
	"github.com/agentfree/sessionkit/internal/dbx"
	"github.com/pressly/goose/v3"
)

type dialect struct {
	name      string
	gooseName string
	dir       string
	get       string
	set       string
	remove    string
}

var sqliteDialect = dialect{
	name:      "sqlite",
	gooseName: "sqlite3",
	dir:       migrations.SQLiteDir,
	get:       `SELECT value FROM local_storage WHERE key = ?`,
	set: `
		INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`,
	remove: `DELETE FROM local_storage WHERE key = ?`,
}

var postgresDialect = dialect{
	name:      "postgres",
	gooseName: "pgx",
	dir:       migrations.PostgresDir,
	get:       `SELECT value FROM local_storage WHERE key = $1`,
	set: `
		INSERT INTO local_storage (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`,
	remove: `DELETE FROM local_storage WHERE key = $1`,
}

// SQLStore keeps values in the local_storage table of a SQL database.
type SQLStore struct {
	db      *sql.DB
	conn    dbx.DBTX
	dialect dialect
}

// NewSQLiteStore wraps an already migrated SQLite database.
func NewSQLiteStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, conn: db, dialect: sqliteDialect}
}

// NewPostgresStore wraps an already migrated PostgreSQL database.
func NewPostgresStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, conn: db, dialect: postgresDialect}
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.conn.QueryRowContext(ctx, s.dialect.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get local storage[%s]: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.conn.ExecContext(ctx, s.dialect.set, key, value); err != nil {
		return fmt.Errorf("failed to set local storage[%s]: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if _, err := s.conn.ExecContext(ctx, s.dialect.remove, key); err != nil {
		return fmt.Errorf("failed to remove local storage[%s]: %w", key, err)
	}
	return nil
}

// Update runs fn inside a database transaction.
func (s *SQLStore) Update(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	if s.db == nil {
		// already bound to a transaction
		return fn(ctx, s)
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &SQLStore{conn: tx, dialect: s.dialect})
	})
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the underlying handle.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// goose keeps its base FS and dialect in package globals.
var migrateMu sync.Mutex

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// runMigrations applies the embedded migrations for d to db. It is
// idempotent.
func runMigrations(ctx context.Context, db *sql.DB, d dialect) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(d.gooseName); err != nil {
		return fmt.Errorf("set goose dialect %s: %w", d.gooseName, err)
	}
	if err := gooseUpContext(ctx, db, d.dir); err != nil {
		return fmt.Errorf("%s migrations: %w", d.name, err)
	}
	return nil
}
