package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/projecthub/internal/client/api"
	"github.com/spf13/cobra"
)

func (a *App) registerCommand() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := a.prompt(email, "Email")
			if err != nil {
				return err
			}
			password, err := a.password()
			if err != nil {
				return err
			}

			res, err := a.api.Register(cmd.Context(), addr, password, name)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Registered %s (id %s)\n", res.User.Email, res.User.ID)
			if res.Token == "" {
				fmt.Fprintln(a.out, "Run 'projecthub login' to sign in.")
				return nil
			}
			if err := a.tokens.Save(res.Token); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged in.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&name, "name", "", "full name")
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := a.prompt(email, "Email")
			if err != nil {
				return err
			}
			password, err := a.password()
			if err != nil {
				return err
			}

			res, err := a.api.Login(cmd.Context(), addr, password)
			if err != nil {
				return err
			}
			if err := a.tokens.Save(res.Token); err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Logged in as %s\n", res.User.Email)
			if res.ExpiresAt != nil {
				fmt.Fprintf(a.out, "Session expires at %s\n", res.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.token()
			if err != nil {
				return err
			}

			// a token the server already rejects is as good as revoked
			if err := a.api.Logout(cmd.Context(), token); err != nil && !errors.Is(err, api.ErrUnauthorized) {
				return err
			}
			if err := a.tokens.Clear(); err != nil {
				return err
			}

			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}
