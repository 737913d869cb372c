package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newListCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show captured reports and their delivery state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			items, err := a.reports.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(a.out, "No reports.")
				return nil
			}

			w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LOCAL ID\tCOLLECTED\tNAME\tOCCURRENCE\tSTATUS\tSERVER ID\tERROR")
			for _, r := range items {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.LocalID,
					r.CollectedAt.Local().Format(time.DateTime),
					r.FullName(),
					r.TypeOfOccurrence(),
					r.Status,
					r.ServerID,
					r.LastError,
				)
			}
			return w.Flush()
		},
	}
}
