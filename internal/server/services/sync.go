package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/records"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fieldreports/internal/timex"
	"github.com/google/uuid"
)

// SyncService reconciles batches of records captured offline. Delivery is
// idempotent per client local id.
type SyncService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	notifier    *Notifier
	log         logging.Logger
	newID       func() string
	now         func() time.Time
}

func NewSyncService(db *sql.DB, m repomanager.RepositoryManager, notifier *Notifier, log logging.Logger) *SyncService {
	return &SyncService{
		db:          db,
		repomanager: m,
		notifier:    notifier,
		log:         log.With("module", "sync"),
		newID:       uuid.NewString,
		now:         time.Now,
	}
}

// Reconcile processes items in order. Every item lands in exactly one of
// Synced or Failed; a failing item never stops the batch.
func (s *SyncService) Reconcile(ctx context.Context, items []models.SyncItem) models.SyncResult {
	res := models.SyncResult{Synced: []models.SyncedItem{}, Failed: []models.FailedItem{}}
	repo := s.repomanager.Records(s.db)

	for _, item := range items {
		serverID, created, err := s.reconcileOne(ctx, repo, item)
		if err != nil {
			s.log.Warn(ctx, "sync item failed", "local_id", item.LocalID, "error", err)
			res.Failed = append(res.Failed, models.FailedItem{LocalID: item.LocalID, Error: failureMessage(err)})
			continue
		}
		res.Synced = append(res.Synced, models.SyncedItem{LocalID: item.LocalID, ServerID: serverID})
		if created != nil {
			s.notifier.RecordCreated(ctx, created)
		}
	}

	s.log.Info(ctx, "sync batch reconciled", "items", len(items), "synced", len(res.Synced), "failed", len(res.Failed))
	return res
}

func (s *SyncService) reconcileOne(ctx context.Context, repo records.Repository, item models.SyncItem) (string, *models.Record, error) {
	if err := item.Validate(); err != nil {
		return "", nil, err
	}

	if item.LocalID != "" {
		id, err := repo.FindByLocalID(ctx, item.LocalID)
		if err == nil {
			return id, nil, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return "", nil, err
		}
	}

	rec, err := item.ToRecord()
	if err != nil {
		return "", nil, err
	}
	rec.ID = s.newID()
	if item.LocalID != "" {
		localID := item.LocalID
		rec.LocalID = &localID
	}
	if item.CollectedAt != "" {
		at, err := timex.ParseTimestamp(item.CollectedAt)
		if err != nil {
			return "", nil, fmt.Errorf("%w: collected_at: %v", common.ErrorValidation, err)
		}
		rec.CollectedAt = &at
	}
	received := s.now().UTC()
	rec.ReceivedAt = &received
	status := common.SyncStatusSynced
	rec.SyncStatus = &status

	created, err := repo.Create(ctx, rec)
	if errors.Is(err, common.ErrorAlreadyExists) && item.LocalID != "" {
		// another delivery of the same local id won the insert
		id, ferr := repo.FindByLocalID(ctx, item.LocalID)
		if ferr != nil {
			return "", nil, ferr
		}
		return id, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return created.ID, created, nil
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return err.Error()
	case errors.Is(err, common.ErrorAlreadyExists):
		return "record already exists"
	default:
		return "could not store record"
	}
}
