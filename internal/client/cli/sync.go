package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fieldreports/internal/client/client"
	"github.com/spf13/cobra"
)

func newSyncCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Send pending reports to the server",
		Long: `Send every report that is not yet synced, including the ones the server
rejected before, and record the answer for each of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			s, err := a.reports.Sync(cmd.Context())
			switch {
			case errors.Is(err, client.ErrUnauthorized):
				return errors.New("no valid device token, run 'fieldctl login' first")
			case errors.Is(err, client.ErrUnavailable):
				return fmt.Errorf("server unavailable, reports stay queued: %w", err)
			case err != nil:
				return err
			}

			if s.Sent == 0 {
				fmt.Fprintln(a.out, "Nothing to sync.")
				return nil
			}
			fmt.Fprintf(a.out, "Sent %d, synced %d, failed %d.\n", s.Sent, s.Synced, s.Failed)
			return nil
		},
	}
}
