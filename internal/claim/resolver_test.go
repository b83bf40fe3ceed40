package claim

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/models"
)

type fakeRoster map[string]*models.Assignment

func (f fakeRoster) GetAssignment(key string) (*models.Assignment, error) {
	return f[key], nil
}

type fakeDirectory map[string]string

func (f fakeDirectory) GetRole(label string) (*models.Role, error) {
	id, ok := f[label]
	if !ok {
		return nil, nil
	}
	return &models.Role{Label: label, DiscordID: id}, nil
}

type fakeGrants struct {
	recorded map[string]string
	inserts  int
}

func newFakeGrants() *fakeGrants {
	return &fakeGrants{recorded: make(map[string]string)}
}

func (f *fakeGrants) HasGrant(key string) (bool, error) {
	_, ok := f.recorded[key]
	return ok, nil
}

func (f *fakeGrants) InsertGrant(key, userID string) error {
	f.inserts++
	if _, ok := f.recorded[key]; ok {
		return fmt.Errorf("grant %s: %w", key, db.ErrDuplicate)
	}
	f.recorded[key] = userID
	return nil
}

type fakeMembership struct {
	added     []string
	failAfter int // fail when len(added) reaches this; -1 never fails
}

func (f *fakeMembership) AddRole(userID, roleID string) error {
	if f.failAfter >= 0 && len(f.added) >= f.failAfter {
		return fmt.Errorf("platform rejected role %s", roleID)
	}
	f.added = append(f.added, roleID)
	return nil
}

func TestLabelsConstruction(t *testing.T) {
	tests := []struct {
		name       string
		assignment models.Assignment
		want       []string
	}{
		{
			name: "single course single section",
			assignment: models.Assignment{
				Courses: "CS101", Sections: "1",
			},
			want: []string{"CS101", "Section 1 - CS101"},
		},
		{
			name: "lead course",
			assignment: models.Assignment{
				Courses: "CS101", Leads: "CS101", Sections: "1",
			},
			want: []string{"CS101", "CS101 Lead", "Section 1 - CS101"},
		},
		{
			name: "full cross product of courses and sections",
			assignment: models.Assignment{
				Courses: "CS101 CS201", Sections: "1 2",
			},
			want: []string{
				"CS101", "CS201",
				"Section 1 - CS101", "Section 2 - CS101",
				"Section 1 - CS201", "Section 2 - CS201",
			},
		},
		{
			name: "teams appended last",
			assignment: models.Assignment{
				Courses: "CS101", Sections: "1", Teams: "Rocket Aqua",
			},
			want: []string{"CS101", "Section 1 - CS101", "Rocket", "Aqua"},
		},
		{
			name: "lead not in courses still constructed",
			assignment: models.Assignment{
				Courses: "CS101", Leads: "CS999", Sections: "1",
			},
			want: []string{"CS101", "CS999 Lead", "Section 1 - CS101"},
		},
		{
			name: "empty optional fields yield no labels",
			assignment: models.Assignment{
				Courses: "CS101", Leads: "", Sections: "1", Teams: "",
			},
			want: []string{"CS101", "Section 1 - CS101"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Labels(&tt.assignment)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Labels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveHappyPath(t *testing.T) {
	roster := fakeRoster{
		"a": {Email: "a", Courses: "CS101", Sections: "1"},
	}
	directory := fakeDirectory{
		"CS101":             "10",
		"Section 1 - CS101": "11",
	}
	r := NewResolver(roster, directory, newFakeGrants())

	res, err := r.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(res.RoleIDs, []string{"10", "11"}) {
		t.Errorf("RoleIDs = %v, want [10 11]", res.RoleIDs)
	}
	if len(res.Unresolved) != 0 {
		t.Errorf("Unresolved = %v, want empty", res.Unresolved)
	}
}

func TestResolveUnresolvedLabelsAreSoftErrors(t *testing.T) {
	roster := fakeRoster{
		"a": {Email: "a", Courses: "CS101", Sections: "1"},
	}
	directory := fakeDirectory{
		"CS101": "10",
	}
	r := NewResolver(roster, directory, newFakeGrants())

	res, err := r.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(res.RoleIDs, []string{"10"}) {
		t.Errorf("RoleIDs = %v, want [10]", res.RoleIDs)
	}
	if !reflect.DeepEqual(res.Unresolved, []string{"Section 1 - CS101"}) {
		t.Errorf("Unresolved = %v, want [Section 1 - CS101]", res.Unresolved)
	}
}

func TestResolveCrossProduct(t *testing.T) {
	roster := fakeRoster{
		"ta": {Email: "ta", Courses: "CS101 CS201", Sections: "1 2"},
	}
	directory := fakeDirectory{
		"CS101":             "1",
		"CS201":             "2",
		"Section 1 - CS101": "11",
		"Section 2 - CS101": "12",
		"Section 1 - CS201": "21",
		"Section 2 - CS201": "22",
	}
	r := NewResolver(roster, directory, newFakeGrants())

	res, err := r.Resolve("ta")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	// Two courses and two sections resolve to all four section roles
	want := []string{"1", "2", "11", "12", "21", "22"}
	if !reflect.DeepEqual(res.RoleIDs, want) {
		t.Errorf("RoleIDs = %v, want %v", res.RoleIDs, want)
	}
}

func TestResolveDeduplicatesRepeatedIDs(t *testing.T) {
	// A team role sharing an ID with a course role must be granted once
	roster := fakeRoster{
		"a": {Email: "a", Courses: "CS101", Sections: "1", Teams: "Helpers"},
	}
	directory := fakeDirectory{
		"CS101":             "10",
		"Section 1 - CS101": "11",
		"Helpers":           "10",
	}
	r := NewResolver(roster, directory, newFakeGrants())

	res, err := r.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !reflect.DeepEqual(res.RoleIDs, []string{"10", "11"}) {
		t.Errorf("RoleIDs = %v, want [10 11]", res.RoleIDs)
	}
}

func TestResolveDeterministic(t *testing.T) {
	roster := fakeRoster{
		"a": {Email: "a", Courses: "CS101 CS201", Leads: "CS201", Sections: "1 2", Teams: "Rocket"},
	}
	directory := fakeDirectory{
		"CS101":             "1",
		"CS201":             "2",
		"CS201 Lead":        "3",
		"Section 2 - CS101": "4",
		"Rocket":            "5",
	}
	r := NewResolver(roster, directory, newFakeGrants())

	first, err := r.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := r.Resolve("a")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if !reflect.DeepEqual(again.RoleIDs, first.RoleIDs) {
			t.Fatalf("RoleIDs changed between calls: %v vs %v", again.RoleIDs, first.RoleIDs)
		}
		if !reflect.DeepEqual(again.Unresolved, first.Unresolved) {
			t.Fatalf("Unresolved changed between calls: %v vs %v", again.Unresolved, first.Unresolved)
		}
	}
}

func TestResolveUnknownIdentity(t *testing.T) {
	r := NewResolver(fakeRoster{}, fakeDirectory{}, newFakeGrants())

	_, err := r.Resolve("nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(nobody) err = %v, want ErrNotFound", err)
	}
}

func TestResolveAllUnresolvedStillSucceeds(t *testing.T) {
	roster := fakeRoster{
		"a": {Email: "a", Courses: "CS101", Sections: "1"},
	}
	r := NewResolver(roster, fakeDirectory{}, newFakeGrants())

	res, err := r.Resolve("a")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(res.RoleIDs) != 0 {
		t.Errorf("RoleIDs = %v, want empty", res.RoleIDs)
	}
	if len(res.Unresolved) != 2 {
		t.Errorf("Unresolved = %v, want both labels", res.Unresolved)
	}
}

func TestCompleteGrantsAndRecords(t *testing.T) {
	grants := newFakeGrants()
	r := NewResolver(fakeRoster{}, fakeDirectory{}, grants)
	membership := &fakeMembership{failAfter: -1}

	res := &Resolution{Key: "a", RoleIDs: []string{"10", "11"}}
	if err := r.Complete("a", "user-1", res, membership); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if !reflect.DeepEqual(membership.added, []string{"10", "11"}) {
		t.Errorf("added roles = %v, want [10 11]", membership.added)
	}
	if grants.recorded["a"] != "user-1" {
		t.Errorf("grant recorded = %q, want user-1", grants.recorded["a"])
	}
}

func TestCompleteSecondClaimRejectedWithoutSideEffects(t *testing.T) {
	grants := newFakeGrants()
	r := NewResolver(fakeRoster{}, fakeDirectory{}, grants)
	res := &Resolution{Key: "a", RoleIDs: []string{"10"}}

	first := &fakeMembership{failAfter: -1}
	if err := r.Complete("a", "user-1", res, first); err != nil {
		t.Fatalf("first Complete: %v", err)
	}
	insertsAfterFirst := grants.inserts

	second := &fakeMembership{failAfter: -1}
	err := r.Complete("a", "user-1", res, second)
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second Complete err = %v, want ErrAlreadyClaimed", err)
	}
	if len(second.added) != 0 {
		t.Errorf("second attempt mutated membership: %v", second.added)
	}
	if grants.inserts != insertsAfterFirst {
		t.Errorf("second attempt wrote to the ledger")
	}
}

func TestCompleteDuplicateInsertMapsToAlreadyClaimed(t *testing.T) {
	// Simulates losing the race: HasGrant said no, but the insert
	// collides with a concurrent claim's row.
	grants := newFakeGrants()
	grants.recorded["a"] = "other-user"
	racy := &racingGrants{fakeGrants: grants}

	r := NewResolver(fakeRoster{}, fakeDirectory{}, racy)
	res := &Resolution{Key: "a", RoleIDs: nil}

	err := r.Complete("a", "user-1", res, &fakeMembership{failAfter: -1})
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("Complete err = %v, want ErrAlreadyClaimed", err)
	}
}

// racingGrants reports no existing grant but fails the insert, like a
// concurrent claim winning between the check and the write.
type racingGrants struct {
	*fakeGrants
}

func (r *racingGrants) HasGrant(key string) (bool, error) { return false, nil }

func TestCompletePlatformFailureLeavesNoGrantRecord(t *testing.T) {
	grants := newFakeGrants()
	r := NewResolver(fakeRoster{}, fakeDirectory{}, grants)
	membership := &fakeMembership{failAfter: 1}

	res := &Resolution{Key: "a", RoleIDs: []string{"10", "11", "12"}}
	err := r.Complete("a", "user-1", res, membership)
	if err == nil {
		t.Fatal("Complete should fail when the platform rejects a role")
	}
	if len(membership.added) != 1 {
		t.Errorf("applied = %v, want exactly the first role", membership.added)
	}
	if _, ok := grants.recorded["a"]; ok {
		t.Error("grant recorded despite incomplete membership grants")
	}
}
