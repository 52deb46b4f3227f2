// Package db opens the SQLite database used for the game-results archive.
package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Open opens (and creates if missing) the SQLite database at path.
func Open(path string) (*sql.DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// modernc sqlite serializes writers; a single connection avoids
	// SQLITE_BUSY under concurrent result saves.
	d.SetMaxOpenConns(1)
	if err := d.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	return d, nil
}

// RunMigrations creates the schema if it does not exist yet.
func RunMigrations(d *sql.DB) error {
	_, err := d.Exec(`CREATE TABLE IF NOT EXISTS game_results (
		id TEXT PRIMARY KEY,
		game_id TEXT NOT NULL,
		scores_json TEXT NOT NULL,
		rounds_json TEXT NOT NULL,
		player_count INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
