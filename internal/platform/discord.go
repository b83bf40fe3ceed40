package platform

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Discord implements Client against one guild using the Discord REST
// API.
type Discord struct {
	session *discordgo.Session
	guildID string
}

// NewDiscord builds a REST-only Discord client for the given guild.
func NewDiscord(token, guildID string) (*Discord, error) {
	if guildID == "" {
		return nil, fmt.Errorf("no guild configured")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Discord{session: session, guildID: guildID}, nil
}

// AddRole grants a role to a guild member.
func (d *Discord) AddRole(userID, roleID string) error {
	if err := d.session.GuildMemberRoleAdd(d.guildID, userID, roleID); err != nil {
		return fmt.Errorf("add role %s to %s: %w", roleID, userID, err)
	}
	return nil
}

// CreateRole creates a guild role with the given name. New roles land
// at the bottom of the role list; repositioning is left to the
// administrator.
func (d *Discord) CreateRole(name string) (string, error) {
	role, err := d.session.GuildRoleCreate(d.guildID, &discordgo.RoleParams{Name: name})
	if err != nil {
		return "", fmt.Errorf("create role %q: %w", name, err)
	}
	return role.ID, nil
}

// RoleName looks up the display name of a guild role.
func (d *Discord) RoleName(roleID string) (string, error) {
	roles, err := d.session.GuildRoles(d.guildID)
	if err != nil {
		return "", fmt.Errorf("list guild roles: %w", err)
	}
	for _, r := range roles {
		if r.ID == roleID {
			return r.Name, nil
		}
	}
	return "", fmt.Errorf("role %s not found in guild", roleID)
}

// CreateTextChannel creates a text channel under categoryID visible to
// viewRoleID.
func (d *Discord) CreateTextChannel(name, categoryID, viewRoleID string) (string, error) {
	ch, err := d.session.GuildChannelCreateComplex(d.guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildText,
		ParentID: categoryID,
		PermissionOverwrites: []*discordgo.PermissionOverwrite{
			{
				ID:    viewRoleID,
				Type:  discordgo.PermissionOverwriteTypeRole,
				Allow: discordgo.PermissionViewChannel,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create channel %q: %w", name, err)
	}
	return ch.ID, nil
}
