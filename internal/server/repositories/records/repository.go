package records

import (
	"context"

	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Record) (*models.Record, error)
	GetByID(ctx context.Context, id string) (*models.Record, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Record, error)
	Update(ctx context.Context, id string, u fields.Update) (*models.Record, error)
	Delete(ctx context.Context, id string) (*models.Record, error)
	FindByLocalID(ctx context.Context, localID string) (string, error)
	List(ctx context.Context, f models.RecordFilter) ([]*models.Record, int, error)
}
