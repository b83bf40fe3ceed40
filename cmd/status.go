package cmd

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/output"
	"github.com/coursekit/rollcall/internal/tui/status"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Live dashboard of claim progress",
	GroupID: "system",
	Long:    `Shows the roster with per-TA claim state, role directory size, and teams.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		database, err := db.Open(baseDir)
		if err != nil {
			output.Error("%v", err)
			return err
		}
		defer database.Close()

		interval, _ := cmd.Flags().GetDuration("refresh")
		model := status.NewModel(database, interval)

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			output.Error("dashboard failed: %v", err)
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().Duration("refresh", 5*time.Second, "Data refresh interval")
}
