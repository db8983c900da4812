package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the current identity derived from the credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := buildDeps(cmd)
			if err != nil {
				return err
			}

			user := d.svc.CurrentUser()
			if user == nil {
				fmt.Println("not authenticated")
				return nil
			}

			fmt.Printf("id:    %s\n", user.ID)
			fmt.Printf("email: %s\n", user.Email)
			fmt.Printf("role:  %s\n", user.Role)
			return nil
		},
	}
}
