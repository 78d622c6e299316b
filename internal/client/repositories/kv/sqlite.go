package kv

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentfree/sessionkit/internal/filex"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens (creating if needed) the SQLite file at path, applies the
// migrations and returns a store over it. ":memory:" is accepted for tests.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if path != ":memory:" {
		if err := filex.EnsureParentDir(path); err != nil {
			return nil, err
		}
	}

	dsn := path
	if path != ":memory:" {
		// the refresh watcher and the REPL may write at the same time
		dsn += "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if path == ":memory:" {
		// every new connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := RunSQLiteMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLiteStore(db), nil
}

// RunSQLiteMigrations creates or upgrades the local_storage table.
func RunSQLiteMigrations(ctx context.Context, db *sql.DB) error {
	return runMigrations(ctx, db, sqliteDialect)
}
