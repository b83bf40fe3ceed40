// Package platform is the boundary to the chat platform. Commands and
// the resolver talk to the Client interface; the Discord implementation
// uses REST only, no gateway connection.
package platform

// Client covers the platform side effects rollcall performs: role
// membership grants, role creation, and channel setup.
type Client interface {
	// AddRole grants one role to a guild member. Called once per
	// resolved role ID during a claim; not transactional across calls.
	AddRole(userID, roleID string) error

	// CreateRole creates a guild role and returns its ID.
	CreateRole(name string) (string, error)

	// RoleName returns the display name for a role ID, used to derive
	// team channel names.
	RoleName(roleID string) (string, error)

	// CreateTextChannel creates a text channel under a category and
	// allows viewRoleID to view it. Hiding the channel from everyone
	// else relies on the category already denying @everyone; channels
	// sync that permission on creation.
	CreateTextChannel(name, categoryID, viewRoleID string) (string, error)
}
