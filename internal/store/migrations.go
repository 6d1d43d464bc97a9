package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

const (
	// CurrentSchemaVersion tracks the database schema version
	CurrentSchemaVersion = "1.0.0"
)

// Migration represents a database schema migration
type Migration struct {
	Version string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: "1.0.0",
		Up:      migrationV1Up,
		Down:    migrationV1Down,
	},
}

const migrationV1Up = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
    version TEXT PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

-- Entries table: one row per indexed unit, keyed by (corpus, id)
CREATE TABLE IF NOT EXISTS entries (
    corpus TEXT NOT NULL,
    id TEXT NOT NULL,
    text TEXT NOT NULL,
    content_hash BLOB NOT NULL,
    embedding BLOB NOT NULL,
    dimension INTEGER NOT NULL,
    path TEXT NOT NULL,
    entry_type TEXT NOT NULL,
    priority INTEGER NOT NULL DEFAULT 5,
    module_owner TEXT,
    last_modified TIMESTAMP,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (corpus, id)
);

CREATE INDEX IF NOT EXISTS idx_entries_corpus ON entries(corpus);
CREATE INDEX IF NOT EXISTS idx_entries_path ON entries(path);
CREATE INDEX IF NOT EXISTS idx_entries_type ON entries(entry_type);
CREATE INDEX IF NOT EXISTS idx_entries_hash ON entries(content_hash);

-- Index build metadata (last build time, model version, etc.)
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

const migrationV1Down = `
DROP TABLE IF EXISTS meta;
DROP TABLE IF EXISTS entries;
DROP TABLE IF EXISTS schema_version;
`

// ApplyMigrations runs all pending migrations
func ApplyMigrations(ctx context.Context, db *sql.DB) error {
	// Check if schema_version table exists
	var tableName string
	err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableName)

	// Parse current version (default to 0.0.0 if no migrations applied)
	var currentVersion *semver.Version
	if err == sql.ErrNoRows {
		currentVersion = semver.MustParse("0.0.0")
	} else if err != nil {
		return fmt.Errorf("failed to check schema_version table: %w", err)
	} else {
		var currentVersionStr string
		err = db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&currentVersionStr)
		if err == sql.ErrNoRows || currentVersionStr == "" {
			currentVersion = semver.MustParse("0.0.0")
		} else if err != nil {
			return fmt.Errorf("failed to read schema_version: %w", err)
		} else {
			currentVersion, err = semver.NewVersion(currentVersionStr)
			if err != nil {
				return fmt.Errorf("invalid current schema version %s: %w", currentVersionStr, err)
			}
		}
	}

	// Run migrations in order
	for _, migration := range AllMigrations {
		migrationVersion, err := semver.NewVersion(migration.Version)
		if err != nil {
			return fmt.Errorf("invalid migration version %s: %w", migration.Version, err)
		}

		if !currentVersion.LessThan(migrationVersion) {
			continue // Already applied
		}

		if _, err = db.ExecContext(ctx, migration.Up); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", migration.Version, err)
		}

		if _, err = db.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", migration.Version, err)
		}

		currentVersion = migrationVersion
	}

	return nil
}

// RollbackMigration rolls back the most recent migration
func RollbackMigration(ctx context.Context, db *sql.DB) error {
	var currentVersion string
	err := db.QueryRowContext(ctx, "SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("no migrations to rollback: %w", err)
	}

	var migration *Migration
	for i := range AllMigrations {
		if AllMigrations[i].Version == currentVersion {
			migration = &AllMigrations[i]
			break
		}
	}

	if migration == nil {
		return fmt.Errorf("migration %s not found", currentVersion)
	}

	if _, err = db.ExecContext(ctx, migration.Down); err != nil {
		return fmt.Errorf("failed to rollback migration %s: %w", currentVersion, err)
	}

	if _, err = db.ExecContext(ctx, "DELETE FROM schema_version WHERE version = ?", currentVersion); err != nil {
		return fmt.Errorf("failed to remove migration record %s: %w", currentVersion, err)
	}

	return nil
}
