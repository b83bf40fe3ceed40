package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/coursekit/rollcall/internal/config"
	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/models"
	"github.com/coursekit/rollcall/internal/output"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize the server state for a new term",
	Long:    `Creates the local .rollcall directory with the SQLite database and config.`,
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		if _, err := os.Stat(filepath.Join(baseDir, ".rollcall")); err == nil {
			output.Warning(".rollcall/ already exists")
			return nil
		}

		guildID, _ := cmd.Flags().GetString("guild")
		domains, _ := cmd.Flags().GetStringArray("domain")
		if guildID == "" {
			return fmt.Errorf("--guild is required")
		}
		if len(domains) == 0 {
			return fmt.Errorf("at least one --domain is required (first is the primary domain)")
		}

		database, err := db.Initialize(baseDir)
		if err != nil {
			output.Error("failed to initialize database: %v", err)
			return err
		}
		defer database.Close()

		cfg := &models.Config{
			GuildID:    guildID,
			Domains:    domains,
			TeamPrefix: config.DefaultTeamPrefix,
		}
		if err := config.Save(baseDir, cfg); err != nil {
			output.Error("failed to write config: %v", err)
			return err
		}

		fmt.Println("INITIALIZED .rollcall/")
		fmt.Printf("Guild: %s\n", guildID)
		fmt.Printf("Domains: %v (primary: %s)\n", domains, domains[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().String("guild", "", "Discord guild (server) ID")
	initCmd.Flags().StringArray("domain", nil, "Accepted email domain, repeatable; first is primary")
}
