package store

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// CreateSchema creates the database schema if it doesn't exist.
func CreateSchema(db *sql.DB) error {
	if err := createSchemaVersionTable(db); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	if err := createMapsTable(db); err != nil {
		return fmt.Errorf("creating maps table: %w", err)
	}

	if err := createMappingsTable(db); err != nil {
		return fmt.Errorf("creating mappings table: %w", err)
	}

	return nil
}

func createSchemaVersionTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return err
	}

	if count == 0 {
		_, err = db.Exec("INSERT INTO schema_version (version) VALUES (?)", SchemaVersion)
	}
	return err
}

func createMapsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS maps (
			id TEXT PRIMARY KEY,
			lines INTEGER NOT NULL,
			segments INTEGER NOT NULL
		)
	`)
	return err
}

func createMappingsTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS mappings (
			map_id TEXT NOT NULL REFERENCES maps(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			gen_line INTEGER NOT NULL,
			gen_col INTEGER NOT NULL,
			fields INTEGER NOT NULL,
			source INTEGER,
			src_line INTEGER,
			src_col INTEGER,
			name INTEGER,
			PRIMARY KEY (map_id, seq)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS mappings_gen ON mappings (map_id, gen_line, gen_col)`)
	return err
}
