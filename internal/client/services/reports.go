package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/client/client"
	"github.com/dmitrijs2005/fieldreports/internal/client/models"
	"github.com/dmitrijs2005/fieldreports/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldreports/internal/client/repositories/reports"
	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/cryptox"
	"github.com/dmitrijs2005/fieldreports/internal/dbx"
	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/google/uuid"
)

// SyncSummary counts the outcome of one sync run.
type SyncSummary struct {
	Sent   int
	Synced int
	Failed int
}

type ReportService interface {
	// Add validates the captured fields and queues a new report.
	Add(ctx context.Context, p fields.Patch) (*models.Report, error)
	List(ctx context.Context) ([]*models.Report, error)
	// Sync sends every pending report and applies the server answer.
	Sync(ctx context.Context) (SyncSummary, error)
}

type reportService struct {
	client client.Client
	auth   AuthService
	db     *sql.DB
	cipher *cryptox.Cipher
	log    logging.Logger
	newID  func() string
	now    func() time.Time
}

type ReportOption func(*reportService)

// WithOutboxCipher seals the fields of newly captured reports.
func WithOutboxCipher(c *cryptox.Cipher) ReportOption {
	return func(s *reportService) { s.cipher = c }
}

func NewReportService(c client.Client, auth AuthService, db *sql.DB, log logging.Logger, opts ...ReportOption) ReportService {
	s := &reportService{
		client: c,
		auth:   auth,
		db:     db,
		log:    log.With("module", "reports"),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *reportService) repo(db dbx.DBTX) *reports.SQLiteRepository {
	return reports.NewSQLiteRepository(db).WithCipher(s.cipher)
}

func validateCapture(p fields.Patch) error {
	var missing []string
	for _, f := range fields.Catalog {
		if !f.Required {
			continue
		}
		if v, ok := p.Get(f.Name); !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, f.Name+" is required")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", common.ErrorValidation, strings.Join(missing, "; "))
	}
	return fields.Validate(p)
}

func (s *reportService) Add(ctx context.Context, p fields.Patch) (*models.Report, error) {
	var kept fields.Patch
	for _, e := range p {
		if v := strings.TrimSpace(e.Value); v != "" {
			kept = append(kept, fields.Entry{Name: e.Name, Value: v})
		}
	}

	if err := validateCapture(kept); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rep := &models.Report{
		LocalID:     s.newID(),
		Fields:      kept,
		CollectedAt: now,
		Status:      models.StatusPending,
		UpdatedAt:   now,
	}

	if err := s.repo(s.db).Insert(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *reportService) List(ctx context.Context) ([]*models.Report, error) {
	return s.repo(s.db).ListAll(ctx)
}

func (s *reportService) Sync(ctx context.Context) (SyncSummary, error) {
	var summary SyncSummary

	token, err := s.auth.Token(ctx)
	if err != nil {
		return summary, err
	}

	pending, err := s.repo(s.db).ListPending(ctx)
	if err != nil {
		return summary, err
	}
	if len(pending) == 0 {
		return summary, nil
	}

	items := make([]json.RawMessage, 0, len(pending))
	for _, rep := range pending {
		b, err := rep.SyncPayload()
		if err != nil {
			return summary, err
		}
		items = append(items, b)
	}
	summary.Sent = len(items)

	result, err := s.client.SyncRecords(ctx, token, items)
	if err != nil {
		return summary, err
	}

	at := s.now().UTC()
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repo(tx)
		for _, it := range result.Synced {
			if err := repo.MarkSynced(ctx, it.LocalID, it.ServerID, at); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					s.log.Warn(ctx, "server acknowledged unknown report", "local_id", it.LocalID)
					continue
				}
				return err
			}
			summary.Synced++
		}
		for _, it := range result.Failed {
			if err := repo.MarkFailed(ctx, it.LocalID, it.Error, at); err != nil {
				if errors.Is(err, common.ErrorNotFound) {
					s.log.Warn(ctx, "server rejected unknown report", "local_id", it.LocalID)
					continue
				}
				return err
			}
			summary.Failed++
		}
		return metadata.NewSQLiteRepository(tx).Set(ctx, metadata.KeyLastSyncAt, at.Format(time.RFC3339))
	})
	if err != nil {
		return summary, fmt.Errorf("applying sync result: %w", err)
	}

	s.log.Info(ctx, "sync finished", "sent", summary.Sent, "synced", summary.Synced, "failed", summary.Failed)
	return summary, nil
}
