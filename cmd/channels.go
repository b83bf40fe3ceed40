package cmd

import (
	"fmt"
	"strings"

	"github.com/coursekit/rollcall/internal/config"
	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/output"
	"github.com/spf13/cobra"
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "Create course and team channels",
	Long: `Creates the per-course and per-team text channels. Channels are created
inside an existing category; hiding them from @everyone relies on the
category already denying view access, which new channels sync.`,
}

var channelsCourseCmd = &cobra.Command{
	Use:   "course <course>",
	Short: "Create the four channels for one course",
	Long: `Creates <course>-general and <course>-shift-coverage visible to the
course TA role, and <course>-lead-general and <course>-lead-shift-coverage
visible to the course lead role. Both roles must already be in the role
directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		course := args[0]

		categoryID, _ := cmd.Flags().GetString("category")
		leadCategoryID, _ := cmd.Flags().GetString("lead-category")
		if categoryID == "" || leadCategoryID == "" {
			return fmt.Errorf("--category and --lead-category are required")
		}

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		taRole, err := database.GetRole(course)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if taRole == nil {
			err := fmt.Errorf("no role recorded for %q", course)
			output.Error("%v", err)
			return err
		}
		leadRole, err := database.GetRole(course + " Lead")
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if leadRole == nil {
			err := fmt.Errorf("no role recorded for %q", course+" Lead")
			output.Error("%v", err)
			return err
		}

		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		client, err := newPlatformClient(cfg)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		channels := []struct {
			name, category, roleID string
		}{
			{course + "-general", categoryID, taRole.DiscordID},
			{course + "-shift-coverage", categoryID, taRole.DiscordID},
			{course + "-lead-general", leadCategoryID, leadRole.DiscordID},
			{course + "-lead-shift-coverage", leadCategoryID, leadRole.DiscordID},
		}
		for _, ch := range channels {
			if _, err := client.CreateTextChannel(ch.name, ch.category, ch.roleID); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Info("created #%s", ch.name)
		}

		output.Success("Course channels created for %s", course)
		return nil
	},
}

var channelsTeamCmd = &cobra.Command{
	Use:   "team",
	Short: "Create one channel per roster team",
	Long: `Creates a team-<label> channel for every distinct team on the roster,
visible to that team's role. The label is the Discord role name with the
team prefix stripped, falling back to the roster team label when the role
name cannot be fetched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		categoryID, _ := cmd.Flags().GetString("category")
		if categoryID == "" {
			return fmt.Errorf("--category is required")
		}

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		cfg, err := config.Load(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		prefix := cfg.TeamPrefix
		if flagPrefix, _ := cmd.Flags().GetString("team-prefix"); flagPrefix != "" {
			prefix = flagPrefix
		}

		teams, err := database.DistinctTeams()
		if err != nil {
			output.Error("%v", err)
			return err
		}
		if len(teams) == 0 {
			err := fmt.Errorf("no teams found on the roster")
			output.Error("%v", err)
			return err
		}

		client, err := newPlatformClient(cfg)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		for _, team := range teams {
			role, err := database.GetRole(team)
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if role == nil {
				err := fmt.Errorf("no role recorded for team %q", team)
				output.Error("%v", err)
				return err
			}

			label := team
			if name, err := client.RoleName(role.DiscordID); err == nil {
				label = strings.TrimPrefix(name, prefix)
			}

			if _, err := client.CreateTextChannel(channelName("team-"+label), categoryID, role.DiscordID); err != nil {
				output.Error("%v", err)
				return err
			}
			output.Info("created #team-%s", label)
		}

		output.Success("Team channels created (%d)", len(teams))
		return nil
	},
}

// channelName normalizes a display label into Discord channel-name form.
func channelName(label string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(label), " ", "-"))
}

func init() {
	setupCmd.AddCommand(channelsCmd)
	channelsCmd.AddCommand(channelsCourseCmd)
	channelsCmd.AddCommand(channelsTeamCmd)

	channelsCourseCmd.Flags().String("category", "", "Category channel ID for TA channels")
	channelsCourseCmd.Flags().String("lead-category", "", "Category channel ID for lead TA channels")

	channelsTeamCmd.Flags().String("category", "", "Category channel ID for team channels")
	channelsTeamCmd.Flags().String("team-prefix", "", "Prefix stripped from team role names (default from config)")
}
