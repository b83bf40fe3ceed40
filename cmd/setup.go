package cmd

import (
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:     "setup",
	Short:   "Administrative term-setup commands",
	Long:    `Import the roster, populate the role directory, and create course/team channels.`,
	GroupID: "setup",
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
