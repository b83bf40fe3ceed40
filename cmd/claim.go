package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/coursekit/rollcall/internal/claim"
	"github.com/coursekit/rollcall/internal/config"
	"github.com/coursekit/rollcall/internal/db"
	"github.com/coursekit/rollcall/internal/identity"
	"github.com/coursekit/rollcall/internal/output"
	"github.com/spf13/cobra"
)

var claimCmd = &cobra.Command{
	Use:     "claim",
	Short:   "Claim your TA roles",
	GroupID: "claim",
	Long: `Collects your university email, looks up your roster assignment, and
grants the matching Discord roles. Each TA claims exactly once per term.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		baseDir := getBaseDir()

		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			return fmt.Errorf("--user (your Discord user ID) is required")
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
		verifier, err := identity.NewVerifier(cfg.Domains)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		email, err := promptEmail(verifier)
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				output.Warning("claim cancelled")
				return nil
			}
			output.Error("%v", err)
			return err
		}

		key, err := verifier.Verify(email)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		resolver := claim.NewResolver(database, database, database)
		res, err := resolver.Resolve(key)
		if err != nil {
			if errors.Is(err, claim.ErrNotFound) {
				output.Error("email was not found. Double check the email you entered, or contact the course administrator(s)")
				return err
			}
			output.Error("%v", err)
			return err
		}

		if len(res.RoleIDs) == 0 {
			output.Warning("none of your role labels could be resolved; no roles granted and no claim recorded")
			output.Info("%s", output.FormatResolution(res))
			output.Info("Contact the course administrator(s) and claim again once the directory is fixed.")
			return nil
		}

		client, err := newPlatformClient(cfg)
		if err != nil {
			output.Error("%v", err)
			return err
		}

		if err := resolver.Complete(key, userID, res, client); err != nil {
			if errors.Is(err, claim.ErrAlreadyClaimed) {
				output.Error("roles were already claimed for %s; contact an administrator if this is wrong", key)
				return err
			}
			output.Error("claim incomplete, contact an administrator: %v", err)
			return err
		}

		output.Info("%s", output.FormatResolution(res))
		output.Success("Claim recorded for %s. This record is kept until the term reset.", key)
		return nil
	},
}

// promptEmail runs the interactive email form. Validation happens in
// the form so an invalid domain re-prompts instead of failing the
// command.
func promptEmail(verifier *identity.Verifier) (string, error) {
	var email string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("University Email").
				Placeholder(fmt.Sprintf("you@%s", verifier.PrimaryDomain())).
				Description(fmt.Sprintf("Must include @%s", verifier.PrimaryDomain())).
				Validate(func(s string) error {
					if _, err := verifier.Verify(s); err != nil {
						return fmt.Errorf("invalid email: must include @%s", verifier.PrimaryDomain())
					}
					return nil
				}).
				Value(&email),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return email, nil
}

func init() {
	rootCmd.AddCommand(claimCmd)

	claimCmd.Flags().String("user", "", "Your Discord user ID")
}
