package storage

import (
	"database/sql"
	"fmt"
)

// MigrationVersion tracks the current database schema version.
const MigrationVersion = 2

// InitializeDatabase creates the SQLite schema for customizations and
// brings an existing database up to MigrationVersion.
func InitializeDatabase(db *sql.DB) error {
	migrationsTable := `
	CREATE TABLE IF NOT EXISTS migrations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		version INTEGER NOT NULL UNIQUE,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := db.Exec(migrationsTable); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var currentVersion int
	err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to check migration version: %w", err)
	}

	migrations := []func(*sql.Tx) error{applyMigration1, applyMigration2}
	for i, apply := range migrations {
		version := i + 1
		if currentVersion >= version {
			continue
		}
		if err := runMigration(db, version, apply); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", version, err)
		}
	}

	return nil
}

func runMigration(db *sql.DB, version int, apply func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := apply(tx); err != nil {
		return err
	}

	if _, err := tx.Exec("INSERT INTO migrations (version) VALUES (?)", version); err != nil {
		return fmt.Errorf("failed to record migration: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}

// applyMigration1 creates the customizations table, one row per user.
func applyMigration1(tx *sql.Tx) error {
	customizationsTable := `
	CREATE TABLE profile_customizations (
		user_id TEXT PRIMARY KEY,
		background_url TEXT NOT NULL DEFAULT '',
		widgets_json TEXT NOT NULL DEFAULT '[]',
		updated_at TIMESTAMP NOT NULL
	);`

	if _, err := tx.Exec(customizationsTable); err != nil {
		return fmt.Errorf("failed to create profile_customizations table: %w", err)
	}
	return nil
}

// applyMigration2 adds the append-only layout history.
func applyMigration2(tx *sql.Tx) error {
	historyTable := `
	CREATE TABLE layout_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id TEXT NOT NULL,
		background_url TEXT NOT NULL DEFAULT '',
		widgets_json TEXT NOT NULL,
		saved_at TIMESTAMP NOT NULL
	);`

	if _, err := tx.Exec(historyTable); err != nil {
		return fmt.Errorf("failed to create layout_history table: %w", err)
	}

	if _, err := tx.Exec("CREATE INDEX idx_layout_history_user ON layout_history(user_id, id DESC);"); err != nil {
		return fmt.Errorf("failed to create layout history index: %w", err)
	}
	return nil
}
