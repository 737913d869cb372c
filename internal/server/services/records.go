// Package services contains server-side business logic: record mutation
// under identity authorization with audit, offline sync reconciliation and
// the audit trail queries.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/dbx"
	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/server/diff"
	"github.com/dmitrijs2005/fieldreports/internal/server/document"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/dmitrijs2005/fieldreports/internal/server/identity"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// TypeFilterAll disables the occurrence type filter.
const TypeFilterAll = "all"

// UpdateRequest is an authorized partial update.
type UpdateRequest struct {
	RecordID         string
	PoliceIdentifier string
	Patch            fields.Patch
	SourceAddress    string
}

// DeleteRequest is an authorized delete.
type DeleteRequest struct {
	RecordID         string
	PoliceIdentifier string
	SourceAddress    string
}

type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	identity    identity.Validator
	audit       AuditRecorder
	notifier    *Notifier
	renderer    document.Renderer
	log         logging.Logger
	newID       func() string
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, idv identity.Validator,
	notifier *Notifier, renderer document.Renderer, log logging.Logger) *RecordService {
	return &RecordService{
		db:          db,
		repomanager: m,
		identity:    idv,
		notifier:    notifier,
		renderer:    renderer,
		log:         log.With("module", "records"),
		newID:       uuid.NewString,
	}
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid record id", common.ErrorValidation)
	}
	return nil
}

// Create stores a new record and fires the best-effort notifications.
func (s *RecordService) Create(ctx context.Context, in models.NewRecord) (*models.Record, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	rec, err := in.ToRecord()
	if err != nil {
		return nil, err
	}
	rec.ID = s.newID()

	created, err := s.repomanager.Records(s.db).Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}
	s.log.Info(ctx, "record created", "record_id", created.ID)

	s.notifier.RecordCreated(ctx, created)
	return created, nil
}

func (s *RecordService) Get(ctx context.Context, id string) (*models.Record, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	rec, err := s.repomanager.Records(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting record: %w", err)
	}
	return rec, nil
}

func (s *RecordService) List(ctx context.Context, f models.RecordFilter) (models.Page[*models.Record], error) {
	if f.Page < 1 {
		f.Page = 1
	}
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	if f.TypeFilter == TypeFilterAll {
		f.TypeFilter = ""
	}

	recs, total, err := s.repomanager.Records(s.db).List(ctx, f)
	if err != nil {
		return models.Page[*models.Record]{}, fmt.Errorf("error listing records: %w", err)
	}
	return models.NewPage(recs, total, f.Page), nil
}

// Update applies a sanitized patch and appends its audit entry in the same
// transaction. An unauthorized identifier changes nothing.
func (s *RecordService) Update(ctx context.Context, req UpdateRequest) (*models.Record, error) {
	if err := checkID(req.RecordID); err != nil {
		return nil, err
	}
	if !s.identity.IsAuthorized(req.PoliceIdentifier) {
		return nil, common.ErrorForbidden
	}
	u, err := fields.Sanitize(req.Patch)
	if err != nil {
		return nil, err
	}
	policeID := strings.TrimSpace(req.PoliceIdentifier)

	var updated *models.Record
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Records(tx)

		before, err := repo.GetForUpdate(ctx, req.RecordID)
		if err != nil {
			return err
		}

		after := before
		if !u.Empty() {
			if after, err = repo.Update(ctx, req.RecordID, u); err != nil {
				return err
			}
		}

		changes := diff.Compute(before, after, u.ChangedKeys)
		if err := s.audit.RecordUpdate(ctx, s.repomanager.AuditLogs(tx), req.RecordID, policeID, changes, req.SourceAddress); err != nil {
			return err
		}
		updated = after
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error updating record: %w", err)
	}

	s.log.Info(ctx, "record updated", "record_id", req.RecordID, "changed", u.ChangedKeys, "police_identifier", policeID)
	return updated, nil
}

// Delete removes a record and keeps its snapshot in the audit log.
func (s *RecordService) Delete(ctx context.Context, req DeleteRequest) error {
	if err := checkID(req.RecordID); err != nil {
		return err
	}
	if !s.identity.IsAuthorized(req.PoliceIdentifier) {
		return common.ErrorForbidden
	}
	policeID := strings.TrimSpace(req.PoliceIdentifier)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		deleted, err := s.repomanager.Records(tx).Delete(ctx, req.RecordID)
		if err != nil {
			return err
		}
		return s.audit.RecordDelete(ctx, s.repomanager.AuditLogs(tx), req.RecordID, policeID, deleted.Snapshot(), req.SourceAddress)
	})
	if err != nil {
		return fmt.Errorf("error deleting record: %w", err)
	}

	s.log.Info(ctx, "record deleted", "record_id", req.RecordID, "police_identifier", policeID)
	return nil
}

// Document renders the stored record.
func (s *RecordService) Document(ctx context.Context, id string) ([]byte, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.Render(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return pdf, nil
}
