// Package store persists session memory in a per-project SQLite database
// with FTS5 full-text search.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store wraps a connection to one project's memory database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the memory database at the given path and brings it
// to the current schema version.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening memory db: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating memory db: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// OpenReadOnly opens an existing memory database without taking write locks
// and without migrating. Used for cross-project discovery, where another
// process may own the store.
func OpenReadOnly(dbPath string) (*Store, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("memory db not found: %w", err)
	}

	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening memory db read-only: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path this store was opened from.
func (s *Store) Path() string {
	return s.path
}

// SchemaVersion reports the migration version the store is at.
func (s *Store) SchemaVersion() (int, error) {
	return currentVersion(s.db)
}
