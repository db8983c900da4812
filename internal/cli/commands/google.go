package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewGoogleCmd creates the google login command. The authorization
// code comes from the provider's OAuth flow and is opaque here.
func NewGoogleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "google <code>",
		Short: "Authenticate with a Google OAuth authorization code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(cmd)
			if err != nil {
				return err
			}

			if _, err := d.svc.LoginWithGoogle(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Println("✓ Login successful!")
			if user := d.svc.CurrentUser(); user != nil {
				fmt.Printf("  User: %s\n", user.Email)
				fmt.Printf("  Role: %s\n", user.Role)
			}
			return nil
		},
	}
}
