// Package httpapi exposes the record, sync, audit and assistant operations
// over HTTP using gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/server/autofill"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/dmitrijs2005/fieldreports/internal/server/services"
	"github.com/dmitrijs2005/fieldreports/internal/server/transcribe"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	shutdownTimeout = 10 * time.Second
	serviceName     = "fieldreports"
)

type RecordService interface {
	Create(ctx context.Context, in models.NewRecord) (*models.Record, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	List(ctx context.Context, f models.RecordFilter) (models.Page[*models.Record], error)
	Update(ctx context.Context, req services.UpdateRequest) (*models.Record, error)
	Delete(ctx context.Context, req services.DeleteRequest) error
	Document(ctx context.Context, id string) ([]byte, error)
}

type SyncService interface {
	Reconcile(ctx context.Context, items []models.SyncItem) models.SyncResult
}

type AuditLogService interface {
	List(ctx context.Context, f models.AuditFilter) (models.Page[*models.AuditEntry], error)
}

// Services bundles the collaborators the handlers call into.
type Services struct {
	Records     RecordService
	Sync        SyncService
	AuditLogs   AuditLogService
	Transcriber transcribe.Transcriber
	Extractor   autofill.Extractor
}

// Options configures the HTTP server.
type Options struct {
	Address string
	// DeviceTokenSecret enables JWT verification on the sync endpoint. When
	// empty any non-empty Authorization header is accepted.
	DeviceTokenSecret string
	CORSOrigins       []string
	// TrustedProxies lists proxies whose X-Forwarded-For is believed. Empty
	// means the client address is always the connection peer.
	TrustedProxies []string
}

type Server struct {
	address string
	secret  []byte
	origins []string
	proxies []string
	svc     Services
	logger  logging.Logger
}

func NewServer(opts Options, svc Services, l logging.Logger) *Server {
	if svc.Transcriber == nil {
		svc.Transcriber = transcribe.Disabled{}
	}
	if svc.Extractor == nil {
		svc.Extractor = autofill.Disabled{}
	}
	return &Server{
		address: opts.Address,
		secret:  []byte(opts.DeviceTokenSecret),
		origins: opts.CORSOrigins,
		proxies: opts.TrustedProxies,
		svc:     svc,
		logger:  l.With("module", "http_server"),
	}
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	if len(s.origins) == 0 || (len(s.origins) == 1 && s.origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = s.origins
	}
	cfg.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	cfg.AddAllowHeaders("Origin", "Content-Type", "Authorization")
	cfg.AddExposeHeaders("Content-Length", "Content-Disposition")
	return cfg
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(s.proxies); err != nil {
		s.logger.Error(context.Background(), "invalid trusted proxies, trusting none", "proxies", s.proxies, "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(otelgin.Middleware(serviceName), s.requestLogger(), s.recovery(), cors.New(s.corsConfig()))

	r.GET("/health", s.health)

	r.POST("/records", s.createRecord)
	r.GET("/records", s.listRecords)
	r.GET("/records/:id", s.getRecord)
	r.PUT("/records/:id", s.updateRecord)
	r.DELETE("/records/:id", s.deleteRecord)
	r.GET("/records/:id/pdf", s.recordDocument)

	r.POST("/sync/records", s.deviceAuth(), s.syncRecords)

	r.GET("/audit-logs", s.listAuditLogs)

	r.POST("/transcribe", s.transcribe)
	r.POST("/autofill", s.autofill)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
