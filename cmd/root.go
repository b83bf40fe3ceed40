package cmd

import (
	"fmt"
	"os"

	"github.com/coursekit/rollcall/internal/config"
	"github.com/coursekit/rollcall/internal/models"
	"github.com/coursekit/rollcall/internal/platform"
	"github.com/spf13/cobra"
)

var (
	version string
	baseDir string
)

// SetVersion sets the version string
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

var rootCmd = &cobra.Command{
	Use:   "rollcall",
	Short: "Course-staff role claims for a Discord server",
	Long: `rollcall - assigns course-staff (TA) Discord roles from a term roster.

Administrators import the roster and role directory once per term and set
up course/team channels; each TA then claims their own roles with 'claim'.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initBaseDir)

	rootCmd.AddGroup(
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
		&cobra.Group{ID: "claim", Title: "Claim Commands:"},
		&cobra.Group{ID: "system", Title: "System Commands:"},
	)

	rootCmd.SetHelpCommandGroupID("system")
	rootCmd.SetCompletionCommandGroupID("system")
}

func initBaseDir() {
	var err error
	baseDir, err = os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot determine working directory: %v\n", err)
		os.Exit(1)
	}
}

// getBaseDir returns the base directory for the server state
func getBaseDir() string {
	return baseDir
}

// newPlatformClient builds the Discord client from config and the
// BOT_TOKEN environment variable.
func newPlatformClient(cfg *models.Config) (platform.Client, error) {
	token, err := config.Token()
	if err != nil {
		return nil, err
	}
	return platform.NewDiscord(token, cfg.GuildID)
}
