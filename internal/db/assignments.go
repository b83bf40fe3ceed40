package db

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/coursekit/rollcall/internal/models"
)

// GetAssignment returns the roster row for the given identity key, or
// nil if the key is not on the roster.
func (db *DB) GetAssignment(key string) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := db.conn.QueryRow(
		`SELECT email, courses, leads, sections, teams FROM assignments WHERE email = ?`, key,
	).Scan(&a.Email, &a.Courses, &a.Leads, &a.Sections, &a.Teams)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// InsertAssignment adds one roster row. Each row commits independently
// so a failed bulk import leaves earlier rows in place.
func (db *DB) InsertAssignment(a *models.Assignment) error {
	_, err := db.conn.Exec(
		`INSERT INTO assignments (email, courses, leads, sections, teams) VALUES (?, ?, ?, ?, ?)`,
		a.Email, a.Courses, a.Leads, a.Sections, a.Teams,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("assignment %s: %w", a.Email, ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("insert assignment %s: %w", a.Email, err)
	}
	return nil
}

// ListAssignments returns the full roster ordered by email.
func (db *DB) ListAssignments() ([]*models.Assignment, error) {
	rows, err := db.conn.Query(
		`SELECT email, courses, leads, sections, teams FROM assignments ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.Assignment
	for rows.Next() {
		a := &models.Assignment{}
		if err := rows.Scan(&a.Email, &a.Courses, &a.Leads, &a.Sections, &a.Teams); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assignments: iterate: %w", err)
	}
	return assignments, nil
}

// CountAssignments returns the roster size.
func (db *DB) CountAssignments() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM assignments`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assignments: %w", err)
	}
	return n, nil
}

// DistinctTeams returns the sorted set of team labels across all roster
// rows. The teams column is space-delimited so the decomposition happens
// here rather than in SQL.
func (db *DB) DistinctTeams() ([]string, error) {
	rows, err := db.conn.Query(`SELECT teams FROM assignments WHERE teams <> ''`)
	if err != nil {
		return nil, fmt.Errorf("distinct teams: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var teams string
		if err := rows.Scan(&teams); err != nil {
			return nil, fmt.Errorf("scan teams: %w", err)
		}
		for _, t := range strings.Fields(teams) {
			seen[t] = true
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("distinct teams: iterate: %w", err)
	}

	teams := make([]string, 0, len(seen))
	for t := range seen {
		teams = append(teams, t)
	}
	sort.Strings(teams)
	return teams, nil
}
