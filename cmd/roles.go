package cmd

import (
	"os"
	"strings"

	"github.com/coursekit/rollcall/internal/bulk"
	"github.com/coursekit/rollcall/internal/config"
	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/output"
	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Populate the role directory",
	Long: `Records label -> Discord role ID mappings used by 'claim'. Labels follow
the claiming conventions: 'CS101', 'CS101 Lead', 'Section 1 - CS101',
team names. Entries are immutable once claims begin.`,
}

var rolesCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new Discord role and record it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		name := args[0]

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
		client, err := newPlatformClient(cfg)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		roleID, err := client.CreateRole(name)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if err := database.InsertRole(name, roleID); err != nil {
			output.Error("role created on Discord (id %s) but not recorded: %v", roleID, err)
			return err
		}

		output.Success("Role %q created and recorded (id %s)", name, roleID)
		return nil
	},
}

var rolesRegisterCmd = &cobra.Command{
	Use:   "register <name> <discord-role-id>",
	Short: "Record an existing Discord role",
	Long: `Records an already-existing Discord role under the given label. Spaces in
the label are preserved; pass the label quoted.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()
		name, roleID := args[0], args[1]

		if strings.TrimSpace(name) == "" {
			output.Error("role label must not be empty")
			return os.ErrInvalid
		}

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		if err := database.InsertRole(name, roleID); err != nil {
			output.Error("%v", err)
			return err
		}

		output.Success("Role %q recorded (id %s)", name, roleID)
		return nil
	},
}

var rolesImportCmd = &cobra.Command{
	Use:   "import <roles.csv>",
	Short: "Bulk import the role directory",
	Long: `Imports role directory entries from a CSV file with the header
'role,discord_id'. Each row commits independently: a malformed row
aborts the rest of the file but already-imported rows stand.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		f, err := os.Open(args[0])
		if err != nil {
			output.Error("open roles file: %v", err)
			return err
		}
		defer f.Close()

		count, err := bulk.EachRole(f, database.InsertRole)
		if err != nil {
			output.Error("import aborted after %d row(s): %v", count, err)
			return err
		}

		output.Success("Imported %d role(s)", count)
		return nil
	},
}

func init() {
	setupCmd.AddCommand(rolesCmd)
	rolesCmd.AddCommand(rolesCreateCmd)
	rolesCmd.AddCommand(rolesRegisterCmd)
	rolesCmd.AddCommand(rolesImportCmd)
}
