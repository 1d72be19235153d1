package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) profileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.token()
			if err != nil {
				return err
			}
			u, err := a.api.Profile(cmd.Context(), token)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "ID:      %s\n", u.ID)
			fmt.Fprintf(a.out, "Email:   %s\n", u.Email)
			if u.FullName != "" {
				fmt.Fprintf(a.out, "Name:    %s\n", u.FullName)
			}
			fmt.Fprintf(a.out, "Created: %s\n", u.CreatedAt.Local().Format(timeLayout))
			return nil
		},
	}
}

func (a *App) usersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := a.token()
			if err != nil {
				return err
			}
			users, err := a.api.Users(cmd.Context(), token)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tNAME\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.FullName, u.CreatedAt.Local().Format(timeLayout))
			}
			return w.Flush()
		},
	}
}
