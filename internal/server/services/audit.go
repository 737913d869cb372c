package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/fieldreports/internal/server/diff"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/auditlogs"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/repomanager"
)

// AuditRecorder appends audit entries. Callers pass a repository bound to the
// transaction of the mutation being audited, after that mutation succeeded.
type AuditRecorder struct{}

func sourcePtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (AuditRecorder) append(ctx context.Context, repo auditlogs.Repository, e *models.AuditEntry, details any) error {
	b, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode audit details: %w", err)
	}
	e.Details = b
	if _, err := repo.Append(ctx, e); err != nil {
		return fmt.Errorf("error appending audit entry: %w", err)
	}
	return nil
}

// RecordUpdate stores the change set of an update.
func (a AuditRecorder) RecordUpdate(ctx context.Context, repo auditlogs.Repository, recordID, identity string, changes diff.ChangeSet, source string) error {
	return a.append(ctx, repo, &models.AuditEntry{
		RecordID:         recordID,
		Action:           models.AuditActionUpdate,
		PoliceIdentifier: identity,
		SourceAddress:    sourcePtr(source),
	}, changes)
}

// RecordDelete stores the snapshot of a deleted record.
func (a AuditRecorder) RecordDelete(ctx context.Context, repo auditlogs.Repository, recordID, identity string, snapshot models.Snapshot, source string) error {
	return a.append(ctx, repo, &models.AuditEntry{
		RecordID:         recordID,
		Action:           models.AuditActionDelete,
		PoliceIdentifier: identity,
		SourceAddress:    sourcePtr(source),
	}, models.DeleteDetails{Snapshot: snapshot})
}

// AuditLogService serves the audit trail.
type AuditLogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewAuditLogService(db *sql.DB, m repomanager.RepositoryManager) *AuditLogService {
	return &AuditLogService{db: db, repomanager: m}
}

func (s *AuditLogService) List(ctx context.Context, f models.AuditFilter) (models.Page[*models.AuditEntry], error) {
	if f.Page < 1 {
		f.Page = 1
	}
	entries, total, err := s.repomanager.AuditLogs(s.db).List(ctx, f)
	if err != nil {
		return models.Page[*models.AuditEntry]{}, fmt.Errorf("error listing audit log: %w", err)
	}
	return models.NewPage(entries, total, f.Page), nil
}
