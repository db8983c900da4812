package commands

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/JoelChinoP/voting-system-front/internal/validators"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session credential",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, email, password)
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (or set VOTING_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set VOTING_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(cmd *cobra.Command, email, password string) error {
	// Environment fallbacks, useful for CI.
	if email == "" {
		email = os.Getenv("VOTING_EMAIL")
	}
	if password == "" {
		password = os.Getenv("VOTING_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or VOTING_EMAIL env var)")
	}

	// Prompt for the password when interactive.
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println()
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or VOTING_PASSWORD env var)")
		}
	}

	d, err := buildDeps(cmd)
	if err != nil {
		return err
	}

	if _, err := d.svc.Login(cmd.Context(), email, password); err != nil {
		var verr *validators.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid input: %s", verr.Message)
		}
		return err
	}

	fmt.Println("✓ Login successful!")
	if user := d.svc.CurrentUser(); user != nil {
		fmt.Printf("  User: %s\n", user.Email)
		fmt.Printf("  Role: %s\n", user.Role)
	}
	return nil
}
