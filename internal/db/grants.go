package db

import (
	"fmt"
	"time"

	"github.com/coursekit/rollcall/internal/models"
)

// HasGrant reports whether the identity has already completed a claim.
func (db *DB) HasGrant(key string) (bool, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM grants WHERE email = ?`, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check grant: %w", err)
	}
	return n > 0, nil
}

// InsertGrant records a completed claim. The ledger is append-only; a
// second insert for the same identity fails with ErrDuplicate, which is
// the sole concurrency guard against double claims.
func (db *DB) InsertGrant(key, discordUserID string) error {
	_, err := db.conn.Exec(
		`INSERT INTO grants (email, discord_user_id, claimed_at) VALUES (?, ?, ?)`,
		key, discordUserID, time.Now().UTC(),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("grant %s: %w", key, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("insert grant %s: %w", key, err)
	}
	return nil
}

// ListGrants returns all recorded claims ordered by claim time.
func (db *DB) ListGrants() ([]*models.Grant, error) {
	rows, err := db.conn.Query(
		`SELECT email, discord_user_id, claimed_at FROM grants ORDER BY claimed_at`)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}
	defer rows.Close()

	var grants []*models.Grant
	for rows.Next() {
		g := &models.Grant{}
		if err := rows.Scan(&g.Email, &g.DiscordUserID, &g.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan grant: %w", err)
		}
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list grants: iterate: %w", err)
	}
	return grants, nil
}

// CountGrants returns the number of completed claims.
func (db *DB) CountGrants() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM grants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count grants: %w", err)
	}
	return n, nil
}
