package models

import (
	"strings"
	"time"
)

// Assignment is one roster row: a staff member's course, lead, section,
// and team memberships for the term. Multi-valued fields are stored as
// space-delimited strings, exactly as imported.
type Assignment struct {
	Email    string // canonical identity key (lowercase local part)
	Courses  string // space-delimited, non-empty
	Leads    string // space-delimited, may be empty
	Sections string // space-delimited, non-empty
	Teams    string // space-delimited, may be empty
}

// CourseList returns the courses as an ordered list.
func (a *Assignment) CourseList() []string { return strings.Fields(a.Courses) }

// LeadList returns the lead courses as an ordered list.
func (a *Assignment) LeadList() []string { return strings.Fields(a.Leads) }

// SectionList returns the sections as an ordered list.
func (a *Assignment) SectionList() []string { return strings.Fields(a.Sections) }

// TeamList returns the teams as an ordered list.
func (a *Assignment) TeamList() []string { return strings.Fields(a.Teams) }

// Role maps a human-readable role label to a Discord role ID.
// Labels follow the claiming conventions: "CS101", "CS101 Lead",
// "Section 1 - CS101", "Team Rocket".
type Role struct {
	Label     string
	DiscordID string
}

// Grant records that an identity completed the claim flow. One row per
// identity; the primary key on Email is the idempotency guard.
type Grant struct {
	Email         string
	DiscordUserID string
	ClaimedAt     time.Time
}

// Config holds the per-server settings stored in .rollcall/config.json.
type Config struct {
	GuildID    string   `json:"guild_id"`
	Domains    []string `json:"domains"` // first entry is the primary domain
	TeamPrefix string   `json:"team_prefix,omitempty"`
}
