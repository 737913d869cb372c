package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldreports/internal/client/client"
	"github.com/spf13/cobra"
)

func newLoginCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login [token]",
		Short: "Store the device token issued for this unit",
		Long: `Store the device token used to authenticate sync requests.

When the token is not given as an argument it is read from the terminal
without echo.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			var token string
			if len(args) == 1 {
				token = args[0]
			} else {
				t, err := GetSecret(a.reader, "Device token", a.out)
				if err != nil {
					return err
				}
				token = t
			}

			if err := a.auth.SaveToken(ctx, token); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Token saved.")

			if err := a.auth.Ping(ctx); err != nil {
				if errors.Is(err, client.ErrUnavailable) {
					fmt.Fprintln(a.out, "Server is not reachable right now; reports will be sent on the next sync.")
					return nil
				}
				return err
			}
			fmt.Fprintln(a.out, "Server is reachable.")
			return nil
		},
	}
}

func newLogoutCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored device token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		},
	}
}
