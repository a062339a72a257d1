// Package sqlite is the SQLite-backed implementation of the storage
// facade, selected with STORAGE_DRIVER=sqlite. A single connection
// serializes all access, matching the per-collection serialization of the
// JSON driver.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ids are assigned as max(id)+1 by the insert statements rather than
// AUTOINCREMENT, so ids of deleted rows may be reused, the same as the
// JSON driver.
func migrate(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS users(
			id INTEGER PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS categories(
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events(
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			category_id INTEGER NOT NULL,
			time TEXT NOT NULL,
			place TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			approved INTEGER NOT NULL DEFAULT 0,
			blocked INTEGER NOT NULL DEFAULT 0,
			ratings INTEGER NOT NULL DEFAULT 0,
			owner_id INTEGER NOT NULL
		);`,
	}
	ctx := context.Background()
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
