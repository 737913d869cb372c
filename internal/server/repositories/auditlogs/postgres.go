// Package auditlogs stores the append-only record audit trail in PostgreSQL.
package auditlogs

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fieldreports/internal/dbx"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, e *models.AuditEntry) (*models.AuditEntry, error) {
	query :=
		`INSERT INTO audit_log (record_id, action, police_identifier, details, source_address)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		e.RecordID, string(e.Action), e.PoliceIdentifier, []byte(e.Details), e.SourceAddress,
	).Scan(&e.ID, &e.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, f models.AuditFilter) ([]*models.AuditEntry, int, error) {
	var (
		conds []string
		args  []any
	)
	if f.RecordID != "" {
		args = append(args, f.RecordID)
		conds = append(conds, fmt.Sprintf("record_id = $%d", len(args)))
	}
	if f.Action != "" {
		args = append(args, string(f.Action))
		conds = append(conds, fmt.Sprintf("action = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM audit_log`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	args = append(args, models.PageSize, models.Offset(f.Page))
	query := fmt.Sprintf(
		`SELECT id, record_id, action, police_identifier, details, source_address, created_at
		 FROM audit_log%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.AuditEntry
	for rows.Next() {
		e := &models.AuditEntry{}
		var details []byte
		if err := rows.Scan(&e.ID, &e.RecordID, &e.Action, &e.PoliceIdentifier, &details, &e.SourceAddress, &e.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		e.Details = details
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}
