package db

import (
	"database/sql"
	"fmt"

	"github.com/coursekit/rollcall/internal/models"
)

// GetRole returns the directory entry for a role label, or nil if no
// role has been recorded under that label.
func (db *DB) GetRole(label string) (*models.Role, error) {
	r := &models.Role{}
	err := db.conn.QueryRow(
		`SELECT label, discord_id FROM roles WHERE label = ?`, label,
	).Scan(&r.Label, &r.DiscordID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return r, nil
}

// InsertRole records a label -> Discord role ID mapping. Labels are
// immutable once claims begin; a collision is rejected, never updated.
func (db *DB) InsertRole(label, discordID string) error {
	_, err := db.conn.Exec(
		`INSERT INTO roles (label, discord_id) VALUES (?, ?)`, label, discordID)
	if isUniqueViolation(err) {
		return fmt.Errorf("role %s: %w", label, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("insert role %s: %w", label, err)
	}
	return nil
}

// ListRoles returns all directory entries ordered by label.
func (db *DB) ListRoles() ([]*models.Role, error) {
	rows, err := db.conn.Query(`SELECT label, discord_id FROM roles ORDER BY label`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		r := &models.Role{}
		if err := rows.Scan(&r.Label, &r.DiscordID); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		roles = append(roles, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list roles: iterate: %w", err)
	}
	return roles, nil
}

// CountRoles returns the number of directory entries.
func (db *DB) CountRoles() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM roles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}
	return n, nil
}
