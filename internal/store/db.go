// Package store persists the resolved publication set in a local
// sqlite file and reads it back for the presentation layer.
package store

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type DB struct {
	*sqlx.DB
}

// NewSQLiteDB opens (creating if absent) the store file and applies the
// schema. created reports whether the file did not exist before this
// call, which the catalog service uses to seed a first-ever read.
func NewSQLiteDB(dsn string) (db *DB, created bool, err error) {
	if _, statErr := os.Stat(dsn); os.IsNotExist(statErr) {
		created = true
	}

	sqlxDB, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open db: %w", err)
	}

	// Set pragmas for better concurrency
	if _, err := sqlxDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, false, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := sqlxDB.Exec("PRAGMA busy_timeout=30000"); err != nil {
		return nil, false, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	// Apply schema
	if _, err := sqlxDB.Exec(Schema); err != nil {
		return nil, false, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{sqlxDB}, created, nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
