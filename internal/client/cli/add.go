package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/spf13/cobra"
)

// now is a test seam for the default event time.
var now = time.Now

func fieldLabel(f fields.Field) string {
	label := strings.ReplaceAll(f.Name, "_", " ")
	label = strings.ToUpper(label[:1]) + label[1:]
	switch {
	case f.Name == fields.DateAndTimeOfEvent:
		return label + " (RFC 3339, empty for now)"
	case f.Kind == fields.Date:
		return label + " (YYYY-MM-DD)"
	case f.Required:
		return label + " *"
	}
	return label
}

func newAddCommand(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add",
		Short: "Capture a new report into the local outbox",
		Long: `Prompt for every report field and queue the report for the next sync.

Fields marked with * are required. The transcription accepts several lines
and ends on an empty line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()

			var p fields.Patch
			for _, f := range fields.Catalog {
				var (
					v   string
					err error
				)
				if f.Name == fields.Transcription {
					v, err = GetMultiline(a.reader, fieldLabel(f), a.out)
				} else {
					v, err = GetSimpleText(a.reader, fieldLabel(f), a.out)
				}
				if err != nil {
					return fmt.Errorf("read %s: %w", f.Name, err)
				}
				if f.Name == fields.DateAndTimeOfEvent && v == "" {
					v = now().UTC().Format(time.RFC3339)
				}
				p = append(p, fields.Entry{Name: f.Name, Value: v})
			}

			rep, err := a.reports.Add(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Report %s queued.\n", rep.LocalID)
			return nil
		},
	}
}
