package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/fieldreports/internal/client/client"
	"github.com/dmitrijs2005/fieldreports/internal/client/config"
	"github.com/dmitrijs2005/fieldreports/internal/client/services"
	"github.com/dmitrijs2005/fieldreports/internal/filex"
	"github.com/dmitrijs2005/fieldreports/internal/logging"
)

const (
	appName       = "fieldctl"
	defaultDBFile = "fieldctl.db"
)

// App holds the services a command runs against. It is built once per
// invocation by the root command and closed when the command returns.
type App struct {
	config  *config.Config
	db      *sql.DB
	log     logging.Logger
	auth    services.AuthService
	reports services.ReportService
	reader  *bufio.Reader
	out     io.Writer
}

func openApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*App, error) {
	path := cfg.DatabasePath
	if path == "" {
		p, err := filex.DefaultDatabasePath(appName, defaultDBFile)
		if err != nil {
			return nil, err
		}
		path = p
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open local database %s: %w", path, err)
	}

	var opts []services.ReportOption
	if cfg.OutboxPassphrase != "" {
		ci, err := services.OpenOutboxCipher(ctx, db, cfg.OutboxPassphrase)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		opts = append(opts, services.WithOutboxCipher(ci))
	}

	log := logging.New(logging.Options{Level: "warn", Output: os.Stderr})
	c := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout)
	auth := services.NewAuthService(c, db)

	return &App{
		config:  cfg,
		db:      db,
		log:     log,
		auth:    auth,
		reports: services.NewReportService(c, auth, db, log, opts...),
		reader:  bufio.NewReader(in),
		out:     out,
	}, nil
}

func (a *App) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}
