package db

import (
	"database/sql"
	"fmt"
	"strconv"
)

// SchemaVersion is the current database schema version
const SchemaVersion = 1

const schema = `
-- Roster: one row per staff member, keyed by canonical email local part.
-- Multi-valued fields are space-delimited, matching the import format.
CREATE TABLE IF NOT EXISTS assignments (
    email    TEXT PRIMARY KEY,
    courses  TEXT NOT NULL,
    leads    TEXT NOT NULL DEFAULT '',
    sections TEXT NOT NULL,
    teams    TEXT NOT NULL DEFAULT ''
);

-- Role directory: claiming label to Discord role ID.
CREATE TABLE IF NOT EXISTS roles (
    label      TEXT PRIMARY KEY,
    discord_id TEXT NOT NULL
);

-- Grant ledger: one row per completed claim. The primary key on email
-- is the idempotency guard for re-claim attempts.
CREATE TABLE IF NOT EXISTS grants (
    email           TEXT PRIMARY KEY,
    discord_user_id TEXT NOT NULL,
    claimed_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (email) REFERENCES assignments(email)
);

-- Schema info table for version tracking
CREATE TABLE IF NOT EXISTS schema_info (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Migration defines a database migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// Migrations is the list of all database migrations in order.
// Version 1 is the initial schema; nothing to migrate yet.
var Migrations = []Migration{}

func (db *DB) schemaVersion() (int, error) {
	var value string
	err := db.conn.QueryRow("SELECT value FROM schema_info WHERE key = 'version'").Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		// Table might not exist yet
		return 0, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("parse schema version %q: %w", value, err)
	}
	return v, nil
}

func (db *DB) setSchemaVersion(v int) error {
	_, err := db.conn.Exec(
		`INSERT INTO schema_info (key, value) VALUES ('version', ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		strconv.Itoa(v),
	)
	return err
}

func (db *DB) runMigrations() error {
	current, err := db.schemaVersion()
	if err != nil {
		return err
	}

	for _, m := range Migrations {
		if m.Version <= current {
			continue
		}
		if _, err := db.conn.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Description, err)
		}
		if err := db.setSchemaVersion(m.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		current = m.Version
	}

	if current < SchemaVersion {
		return db.setSchemaVersion(SchemaVersion)
	}
	return nil
}
