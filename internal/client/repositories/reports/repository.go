// Package reports persists the client outbox of captured incident reports.
package reports

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/client/models"
)

type Repository interface {
	Insert(ctx context.Context, r *models.Report) error
	// ListPending returns reports not yet acknowledged by the server, oldest
	// first. Failed reports are included so they are retried.
	ListPending(ctx context.Context) ([]*models.Report, error)
	ListAll(ctx context.Context) ([]*models.Report, error)
	MarkSynced(ctx context.Context, localID, serverID string, at time.Time) error
	MarkFailed(ctx context.Context, localID, reason string, at time.Time) error
}
