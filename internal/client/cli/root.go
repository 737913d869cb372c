package cli

import (
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/client/config"
	"github.com/spf13/cobra"
)

// NewRootCommand builds the fieldctl command tree.
//
// Settings are layered: defaults, then the JSON file given with -c, then
// FIELDCTL_* environment variables, then the flags that were set explicitly.
func NewRootCommand() *cobra.Command {
	var (
		configPath string
		serverURL  string
		dbPath     string
		timeout    time.Duration
		app        *App
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "Capture incident reports offline and deliver them to the server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("server") {
				cfg.ServerURL = serverURL
			}
			if flags.Changed("db") {
				cfg.DatabasePath = dbPath
			}
			if flags.Changed("timeout") {
				cfg.RequestTimeout = timeout
			}

			app, err = openApp(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to a JSON config file")
	pf.StringVarP(&serverURL, "server", "a", "", "server base URL")
	pf.StringVarP(&dbPath, "db", "d", "", "local database file")
	pf.DurationVarP(&timeout, "timeout", "t", 0, "request timeout")

	getApp := func() *App { return app }
	root.AddCommand(
		newLoginCommand(getApp),
		newLogoutCommand(getApp),
		newAddCommand(getApp),
		newListCommand(getApp),
		newSyncCommand(getApp),
	)

	return root
}
