// Package sqlite implements the repository interfaces on top of SQLite.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite, so the server builds without cgo and a
// single binary carries its own database engine. Tests use ":memory:".
//
// STORAGE LAYOUT:
// A snapshot's contributor list is stored as one JSON document in
// snapshots.contributors. The list is only ever read and written whole (the
// dashboard summarises all of it), so normalising contributors into their own
// rows would buy nothing but joins.
package sqlite

import (
	"database/sql"
	"fmt"

	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps the connection pool. It implements repository.SnapshotRepository
// directly; Maintainers returns the maintainer store sharing the same pool.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
//   - "data/dashboard.db" → file-based, persistent
//   - ":memory:"          → in-memory, used by tests
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// An in-memory database lives and dies with its connection. Pin the pool to
	// one connection so every query sees the same tables.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets dashboard reads proceed while a snapshot is being published.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping reports whether the database is reachable. Used by the health check.
func (db *DB) Ping() error {
	return db.conn.Ping()
}

// Maintainers returns the maintainer store backed by the same pool.
func (db *DB) Maintainers() *MaintainerDB {
	return &MaintainerDB{conn: db.conn}
}

// migrate creates the schema. CREATE ... IF NOT EXISTS keeps it idempotent.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS maintainers (
			id         TEXT PRIMARY KEY,
			login      TEXT NOT NULL UNIQUE,
			github_id  INTEGER NOT NULL DEFAULT 0,
			avatar_url TEXT NOT NULL DEFAULT '',
			source     TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating maintainers table: %w", err)
	}

	// published_by is not a foreign key: deleting a maintainer must not take
	// the snapshots they published with it.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			id                TEXT PRIMARY KEY,
			label             TEXT NOT NULL,
			contributors      TEXT NOT NULL DEFAULT '[]',
			contributor_count INTEGER NOT NULL DEFAULT 0,
			published_by      TEXT NOT NULL DEFAULT '',
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating snapshots table: %w", err)
	}

	return nil
}
