// Package claim implements the role claim flow: expanding a roster
// assignment into role labels, resolving them through the role
// directory, and recording the completed grant.
package claim

import (
	"errors"
	"fmt"

	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/models"
)

// ErrNotFound means the identity key has no roster assignment. Terminal
// for the attempt; the user is directed to an administrator.
var ErrNotFound = errors.New("no roster assignment for this email")

// ErrAlreadyClaimed means a grant record already exists for the
// identity. No membership mutation or store write happens.
var ErrAlreadyClaimed = errors.New("roles already claimed for this email")

// RosterStore is the read side of the roster consumed by the resolver.
type RosterStore interface {
	GetAssignment(key string) (*models.Assignment, error)
}

// RoleDirectory resolves role labels to Discord role IDs.
type RoleDirectory interface {
	GetRole(label string) (*models.Role, error)
}

// GrantRecorder is the idempotency ledger for completed claims.
type GrantRecorder interface {
	HasGrant(key string) (bool, error)
	InsertGrant(key, discordUserID string) error
}

// Membership applies role grants on the chat platform. One call per
// resolved role ID; not transactional.
type Membership interface {
	AddRole(userID, roleID string) error
}

// Resolution is the outcome of resolving one identity's assignment.
// RoleIDs is deduplicated, preserving label construction order.
// Unresolved lists labels the directory has no entry for; their
// absence is a soft error the caller decides how to surface.
type Resolution struct {
	Key        string
	RoleIDs    []string
	Labels     map[string]string // resolved label -> role ID
	Unresolved []string
}

// Resolver runs the claim algorithm against the stores.
type Resolver struct {
	roster    RosterStore
	directory RoleDirectory
	grants    GrantRecorder
}

// NewResolver constructs a Resolver over the given stores.
func NewResolver(roster RosterStore, directory RoleDirectory, grants GrantRecorder) *Resolver {
	return &Resolver{roster: roster, directory: directory, grants: grants}
}

// Labels expands an assignment into its candidate role labels in a
// deterministic order: courses, lead courses, every course × every
// section, teams. The full cross product over sections is deliberate:
// the roster does not associate sections with specific courses, so a
// TA on two courses and two sections gets all four section labels.
func Labels(a *models.Assignment) []string {
	var labels []string

	for _, c := range a.CourseList() {
		labels = append(labels, c)
	}
	for _, c := range a.LeadList() {
		labels = append(labels, c+" Lead")
	}
	for _, c := range a.CourseList() {
		for _, s := range a.SectionList() {
			labels = append(labels, "Section "+s+" - "+c)
		}
	}
	for _, t := range a.TeamList() {
		labels = append(labels, t)
	}

	return labels
}

// Resolve looks up the assignment for key and resolves its labels
// through the role directory. Labels without a directory entry are
// collected in Resolution.Unresolved rather than failing the call;
// an assignment where nothing resolves still returns successfully
// with an empty RoleIDs.
func (r *Resolver) Resolve(key string) (*Resolution, error) {
	assignment, err := r.roster.GetAssignment(key)
	if err != nil {
		return nil, fmt.Errorf("fetch assignment: %w", err)
	}
	if assignment == nil {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}

	res := &Resolution{
		Key:    key,
		Labels: make(map[string]string),
	}
	seen := make(map[string]bool)

	for _, label := range Labels(assignment) {
		role, err := r.directory.GetRole(label)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", label, err)
		}
		if role == nil {
			res.Unresolved = append(res.Unresolved, label)
			continue
		}
		res.Labels[label] = role.DiscordID
		// The section cross product can repeat role IDs
		if !seen[role.DiscordID] {
			seen[role.DiscordID] = true
			res.RoleIDs = append(res.RoleIDs, role.DiscordID)
		}
	}

	return res, nil
}

// Complete applies the resolved grants and records the claim. The
// grant check runs before any membership mutation, so a repeat claim
// fails with ErrAlreadyClaimed and changes nothing. A membership
// failure part way through leaves the applied grants in place, reports
// how far it got, and writes no grant record.
func (r *Resolver) Complete(key, discordUserID string, res *Resolution, membership Membership) error {
	claimed, err := r.grants.HasGrant(key)
	if err != nil {
		return fmt.Errorf("check grant ledger: %w", err)
	}
	if claimed {
		return fmt.Errorf("%s: %w", key, ErrAlreadyClaimed)
	}

	for i, roleID := range res.RoleIDs {
		if err := membership.AddRole(discordUserID, roleID); err != nil {
			return fmt.Errorf("add role %s (%d of %d applied): %w",
				roleID, i, len(res.RoleIDs), err)
		}
	}

	if err := r.grants.InsertGrant(key, discordUserID); err != nil {
		// Lost a race with a concurrent claim for the same key
		if errors.Is(err, db.ErrDuplicate) {
			return fmt.Errorf("%s: %w", key, ErrAlreadyClaimed)
		}
		return fmt.Errorf("record grant: %w", err)
	}
	return nil
}
