package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and escalate the session",
	}

	cmd.AddCommand(newLoginEmailCmd())
	cmd.AddCommand(newLoginRequestCodeCmd())
	cmd.AddCommand(newLoginCodeCmd())

	return cmd
}

func newLoginEmailCmd() *cobra.Command {
	var email, username string

	cmd := &cobra.Command{
		Use:   "email",
		Short: "Log in with an email address (partial session)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			req := map[string]any{"email": email}
			if cmd.Flags().Changed("username") {
				req["username"] = username
			}
			var result SessionResult

			if err := client.Post(cmd.Context(), "/api/v1/session/email", req, &result); err != nil {
				return err
			}

			// Save token
			if err := saveRotatedToken(); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&username, "username", "", "Username for a new account")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newLoginRequestCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request-code",
		Short: "Mail a login code to the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/session/code/request", nil, nil); err != nil {
				return err
			}

			output(cmd).PrintMessage("Login code sent")
			return nil
		},
	}
}

func newLoginCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "code <code>",
		Short: "Escalate the session with a login code (full session)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"code": args[0]}
			var result SessionResult

			if err := client.Post(cmd.Context(), "/api/v1/session/code", req, &result); err != nil {
				return err
			}

			if err := saveRotatedToken(); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionResult

			if err := client.Get(cmd.Context(), "/api/v1/session", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
