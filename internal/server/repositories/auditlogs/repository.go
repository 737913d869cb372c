package auditlogs

import (
	"context"

	"github.com/dmitrijs2005/fieldreports/internal/server/models"
)

// Repository is append-only: entries are never updated or removed.
type Repository interface {
	Append(ctx context.Context, e *models.AuditEntry) (*models.AuditEntry, error)
	List(ctx context.Context, f models.AuditFilter) ([]*models.AuditEntry, int, error)
}
