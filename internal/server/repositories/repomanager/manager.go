package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fieldreports/internal/dbx"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/auditlogs"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/records"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Records(db dbx.DBTX) records.Repository
	AuditLogs(db dbx.DBTX) auditlogs.Repository
}
