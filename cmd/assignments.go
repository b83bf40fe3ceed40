package cmd

import (
	"os"
	"strings"

	"github.com/coursekit/rollcall/internal/bulk"
	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/models"
	"github.com/coursekit/rollcall/internal/output"
	"github.com/spf13/cobra"
)

var assignmentsCmd = &cobra.Command{
	Use:   "assignments <roster.csv>",
	Short: "Import TA assignments for claiming",
	Long: `Imports the term roster from a CSV file with the header
'email,courses,leads,sections,teams'. Multi-valued fields are space
delimited. Each row commits independently: a malformed row aborts the
rest of the file but already-imported rows stand.`,
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
			output.Error("open roster: %v", err)
			return err
		}
		defer f.Close()

		count, err := bulk.EachAssignment(f, func(a *models.Assignment) error {
			a.Email = canonicalKey(a.Email)
			return database.InsertAssignment(a)
		})
		if err != nil {
			output.Error("import aborted after %d row(s): %v", count, err)
			return err
		}

		output.Success("Imported %d assignment(s). TAs claim their roles with 'rollcall claim'", count)
		return nil
	},
}

// canonicalKey reduces an imported email to the roster key form the
// verifier produces: lowercase, everything before the first "@".
func canonicalKey(email string) string {
	key := strings.ToLower(strings.TrimSpace(email))
	if at := strings.Index(key, "@"); at >= 0 {
		key = key[:at]
	}
	return key
}

func init() {
	setupCmd.AddCommand(assignmentsCmd)
}
