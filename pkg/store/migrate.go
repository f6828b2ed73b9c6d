package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the latest sqlite schema version.
const SchemaVersion = 1

// Migrate ensures the sqlite schema exists and is at SchemaVersion.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migrate: db is nil")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY);`); err != nil {
		return fmt.Errorf("migrate: create schema_migrations: %w", err)
	}

	var current int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations;`).Scan(&current); err != nil {
		return fmt.Errorf("migrate: read current version: %w", err)
	}
	if current >= SchemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	steps := []struct {
		name string
		sql  string
	}{
		{"create records", `
			CREATE TABLE IF NOT EXISTS records (
				id TEXT PRIMARY KEY,
				collection TEXT NOT NULL,
				created_at TEXT NOT NULL
			);`},
		{"create record_fields", `
			CREATE TABLE IF NOT EXISTS record_fields (
				record_id TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
				collection TEXT NOT NULL,
				name TEXT NOT NULL,
				value TEXT NOT NULL,
				PRIMARY KEY (record_id, name)
			);`},
		{"index record_fields", `
			CREATE INDEX IF NOT EXISTS idx_record_fields_lookup
			ON record_fields (collection, name, value);`},
		{"index records", `
			CREATE INDEX IF NOT EXISTS idx_records_collection
			ON records (collection, created_at);`},
	}
	for _, step := range steps {
		if _, err := tx.Exec(step.sql); err != nil {
			return fmt.Errorf("migrate: %s: %w", step.name, err)
		}
	}
	if _, err := tx.Exec(`INSERT INTO schema_migrations (version) VALUES (?);`, SchemaVersion); err != nil {
		return fmt.Errorf("migrate: record version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}
	return nil
}
