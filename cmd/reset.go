package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:     "reset",
	Short:   "Reset the server for a new term (not implemented)",
	GroupID: "system",
	Long: `Will archive channels, hide roles, and drop the term tables so a new
roster can be imported. Not implemented yet; for now, delete .rollcall/
and re-run init.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("reset is not implemented yet: delete .rollcall/ and re-run 'rollcall init'")
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
