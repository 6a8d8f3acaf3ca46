package sqlite

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	up      string
}

// migrations is ordered by version. Applied versions are recorded in
// schema_migrations and skipped on later runs.
var migrations = []migration{
	{
		version: 1,
		name:    "create_media_table",
		up: `
			CREATE TABLE IF NOT EXISTS media (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				collection TEXT NOT NULL,
				display_name TEXT NOT NULL,
				mime_type TEXT NOT NULL,
				relative_path TEXT NOT NULL,
				data_path TEXT NOT NULL UNIQUE,
				size INTEGER NOT NULL DEFAULT 0,
				is_pending INTEGER NOT NULL DEFAULT 1,
				date_added TIMESTAMP NOT NULL,
				date_modified TIMESTAMP
			);

			CREATE INDEX IF NOT EXISTS idx_media_collection_date_added
			ON media(collection, date_added DESC);
		`,
	},
	{
		version: 2,
		name:    "index_media_display_name",
		up: `
			CREATE INDEX IF NOT EXISTS idx_media_relative_path_display_name
			ON media(relative_path, display_name);
		`,
	},
}

func runMigrations(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	currentVersion := 0
	err = conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if err := applyMigration(conn, m); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(conn *sql.DB, m migration) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
	}

	if _, err := tx.Exec(m.up); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
	}

	_, err = tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", m.version, m.name)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", m.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
	}
	return nil
}
