package db

import (
	"errors"
	"reflect"
	"testing"

	"github.com/coursekit/rollcall/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	database, err := Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestOpenRequiresInit(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("Open on uninitialized dir should fail")
	}
}

func TestInitializeThenOpen(t *testing.T) {
	dir := t.TempDir()

	database, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := database.InsertRole("CS101", "10"); err != nil {
		t.Fatalf("InsertRole: %v", err)
	}
	database.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer reopened.Close()

	role, err := reopened.GetRole("CS101")
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if role == nil || role.DiscordID != "10" {
		t.Errorf("role = %+v, want CS101 -> 10", role)
	}

	v, err := reopened.schemaVersion()
	if err != nil {
		t.Fatalf("schemaVersion: %v", err)
	}
	if v != SchemaVersion {
		t.Errorf("schema version = %d, want %d", v, SchemaVersion)
	}
}

func TestAssignments(t *testing.T) {
	database := testDB(t)

	a := &models.Assignment{
		Email:    "a",
		Courses:  "CS101 CS201",
		Leads:    "CS101",
		Sections: "1 2",
		Teams:    "Rocket",
	}
	if err := database.InsertAssignment(a); err != nil {
		t.Fatalf("InsertAssignment: %v", err)
	}

	got, err := database.GetAssignment("a")
	if err != nil {
		t.Fatalf("GetAssignment: %v", err)
	}
	if !reflect.DeepEqual(got, a) {
		t.Errorf("GetAssignment = %+v, want %+v", got, a)
	}

	missing, err := database.GetAssignment("nobody")
	if err != nil {
		t.Fatalf("GetAssignment(nobody): %v", err)
	}
	if missing != nil {
		t.Errorf("GetAssignment(nobody) = %+v, want nil", missing)
	}

	err = database.InsertAssignment(&models.Assignment{Email: "a", Courses: "X", Sections: "1"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate insert err = %v, want ErrDuplicate", err)
	}

	// The failed duplicate must not clobber the committed row
	kept, err := database.GetAssignment("a")
	if err != nil {
		t.Fatalf("GetAssignment after duplicate: %v", err)
	}
	if kept.Courses != "CS101 CS201" {
		t.Errorf("committed row changed: %+v", kept)
	}
}

func TestDistinctTeams(t *testing.T) {
	database := testDB(t)

	rows := []*models.Assignment{
		{Email: "a", Courses: "CS101", Sections: "1", Teams: "Rocket Aqua"},
		{Email: "b", Courses: "CS101", Sections: "2", Teams: "Rocket"},
		{Email: "c", Courses: "CS201", Sections: "1", Teams: ""},
	}
	for _, a := range rows {
		if err := database.InsertAssignment(a); err != nil {
			t.Fatalf("InsertAssignment(%s): %v", a.Email, err)
		}
	}

	teams, err := database.DistinctTeams()
	if err != nil {
		t.Fatalf("DistinctTeams: %v", err)
	}
	if !reflect.DeepEqual(teams, []string{"Aqua", "Rocket"}) {
		t.Errorf("DistinctTeams = %v, want [Aqua Rocket]", teams)
	}
}

func TestRoles(t *testing.T) {
	database := testDB(t)

	if err := database.InsertRole("CS101", "10"); err != nil {
		t.Fatalf("InsertRole: %v", err)
	}
	if err := database.InsertRole("Section 1 - CS101", "11"); err != nil {
		t.Fatalf("InsertRole: %v", err)
	}

	role, err := database.GetRole("Section 1 - CS101")
	if err != nil {
		t.Fatalf("GetRole: %v", err)
	}
	if role == nil || role.DiscordID != "11" {
		t.Errorf("role = %+v, want id 11", role)
	}

	missing, err := database.GetRole("CS999")
	if err != nil {
		t.Fatalf("GetRole(CS999): %v", err)
	}
	if missing != nil {
		t.Errorf("GetRole(CS999) = %+v, want nil", missing)
	}

	// No update path: re-insertion under an existing label is rejected
	err = database.InsertRole("CS101", "99")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate role err = %v, want ErrDuplicate", err)
	}
	kept, _ := database.GetRole("CS101")
	if kept.DiscordID != "10" {
		t.Errorf("role id changed to %s, want 10", kept.DiscordID)
	}

	roles, err := database.ListRoles()
	if err != nil {
		t.Fatalf("ListRoles: %v", err)
	}
	if len(roles) != 2 {
		t.Errorf("ListRoles len = %d, want 2", len(roles))
	}

	n, err := database.CountRoles()
	if err != nil {
		t.Fatalf("CountRoles: %v", err)
	}
	if n != 2 {
		t.Errorf("CountRoles = %d, want 2", n)
	}
}

func TestGrants(t *testing.T) {
	database := testDB(t)

	// grants are foreign-keyed to the roster
	a := &models.Assignment{Email: "a", Courses: "CS101", Sections: "1"}
	if err := database.InsertAssignment(a); err != nil {
		t.Fatalf("InsertAssignment: %v", err)
	}

	has, err := database.HasGrant("a")
	if err != nil {
		t.Fatalf("HasGrant: %v", err)
	}
	if has {
		t.Error("HasGrant before claim = true, want false")
	}

	if err := database.InsertGrant("a", "user-1"); err != nil {
		t.Fatalf("InsertGrant: %v", err)
	}

	has, err = database.HasGrant("a")
	if err != nil {
		t.Fatalf("HasGrant: %v", err)
	}
	if !has {
		t.Error("HasGrant after claim = false, want true")
	}

	// Re-insert is the idempotency guard
	err = database.InsertGrant("a", "user-2")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("duplicate grant err = %v, want ErrDuplicate", err)
	}

	grants, err := database.ListGrants()
	if err != nil {
		t.Fatalf("ListGrants: %v", err)
	}
	if len(grants) != 1 || grants[0].DiscordUserID != "user-1" {
		t.Errorf("ListGrants = %+v, want the original user-1 grant", grants)
	}
	if grants[0].ClaimedAt.IsZero() {
		t.Error("ClaimedAt not recorded")
	}
}
