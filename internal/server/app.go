// Package server wires configuration, storage, collaborators and the
// HTTP and gRPC front ends into a runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/otelx"
	"github.com/dmitrijs2005/fieldreports/internal/server/archive"
	"github.com/dmitrijs2005/fieldreports/internal/server/autofill"
	"github.com/dmitrijs2005/fieldreports/internal/server/config"
	"github.com/dmitrijs2005/fieldreports/internal/server/document"
	"github.com/dmitrijs2005/fieldreports/internal/server/httpapi"
	"github.com/dmitrijs2005/fieldreports/internal/server/identity"
	"github.com/dmitrijs2005/fieldreports/internal/server/notify"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fieldreports/internal/server/services"
	"github.com/dmitrijs2005/fieldreports/internal/server/transcribe"
	_ "github.com/jackc/pgx/v5/stdlib"

	gs "github.com/dmitrijs2005/fieldreports/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	http          *httpapi.Server
	grpc          *gs.GRPCServer
	traceShutdown func(context.Context) error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(logging.Options{Level: c.LogLevel, File: c.LogFile, MaxSizeMB: 50, MaxBackups: 5})

	traceShutdown, err := otelx.Setup(ctx, "fieldreports", c.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("tracing init error: %w", err)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	idv, err := identity.New(c.PoliceIdentifiers, c.PoliceIdentifierPattern)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("identity directory error: %w", err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		logger.Warn(ctx, "unknown timezone, using UTC", "timezone", c.Timezone, "error", err)
		loc = time.UTC
	}
	renderer := document.NewPDFRenderer(loc)

	var mailer notify.Mailer = notify.NopMailer{}
	if c.ResendAPIKey != "" {
		mailer = notify.NewResendMailer(c.ResendAPIKey, c.EmailFrom)
	} else {
		logger.Info(ctx, "email disabled: no resend api key")
	}

	var store archive.Store = archive.NopStore{}
	if c.S3Bucket != "" {
		s3, err := archive.NewS3Store(ctx, archive.Config{
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("archive init error: %w", err)
		}
		store = s3
	}

	var tr transcribe.Transcriber = transcribe.Disabled{}
	if c.OpenAIAPIKey != "" {
		tr = transcribe.NewOpenAI(transcribe.Options{
			APIKey:   c.OpenAIAPIKey,
			Model:    c.TranscriptionModel,
			Language: c.TranscriptionLanguage,
			Timeout:  c.TranscriptionTimeout,
		})
	}

	var ex autofill.Extractor = autofill.Disabled{}
	if c.AnthropicAPIKey != "" {
		ex = autofill.NewAnthropic(c.AnthropicAPIKey, c.AutofillModel)
	}

	notifier := services.NewNotifier(renderer, mailer, store, logger)

	svc := httpapi.Services{
		Records:     services.NewRecordService(db, rm, idv, notifier, renderer, logger),
		Sync:        services.NewSyncService(db, rm, notifier, logger),
		AuditLogs:   services.NewAuditLogService(db, rm),
		Transcriber: tr,
		Extractor:   ex,
	}

	if c.DeviceTokenSecret == "" {
		logger.Warn(ctx, "device token secret is empty: sync accepts any authorization header")
	}

	return &App{
		config: c,
		logger: logger,
		db:     db,
		http: httpapi.NewServer(httpapi.Options{
			Address:           c.HTTPAddr,
			DeviceTokenSecret: c.DeviceTokenSecret,
			CORSOrigins:       c.CORSOrigins,
			TrustedProxies:    c.TrustedProxies,
		}, svc, logger),
		grpc:          gs.NewGRPCServer(c.GRPCAddr, logger, db),
		traceShutdown: traceShutdown,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) run(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, "server stopped", "server", name, "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.run(ctx, cancelFunc, "http", app.http.Run)
	}()
	go func() {
		defer wg.Done()
		app.run(ctx, cancelFunc, "grpc", app.grpc.Run)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.traceShutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "trace flush error", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
}
