// Package records stores incident records in PostgreSQL.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/dbx"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const selectColumns = `id, date_and_time_of_event, place_of_the_fact, type_of_occurrence, full_name,
		 cpf_or_rg, date_of_birth::text, gender, nationality, marital_status, profession,
		 full_address, phone_or_cell_phone, email, relationship_with_the_fact, transcription,
		 local_id, collected_at, received_at, sync_status, created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.Record, error) {
	r := &models.Record{}
	err := s.Scan(&r.ID, &r.DateAndTimeOfEvent, &r.PlaceOfTheFact, &r.TypeOfOccurrence, &r.FullName,
		&r.CpfOrRg, &r.DateOfBirth, &r.Gender, &r.Nationality, &r.MaritalStatus, &r.Profession,
		&r.FullAddress, &r.PhoneOrCellPhone, &r.Email, &r.RelationshipWithTheFact, &r.Transcription,
		&r.LocalID, &r.CollectedAt, &r.ReceivedAt, &r.SyncStatus, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	query :=
		`INSERT INTO records (id, date_and_time_of_event, place_of_the_fact, type_of_occurrence, full_name,
		 cpf_or_rg, date_of_birth, gender, nationality, marital_status, profession,
		 full_address, phone_or_cell_phone, email, relationship_with_the_fact, transcription,
		 local_id, collected_at, received_at, sync_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.DateAndTimeOfEvent, rec.PlaceOfTheFact, rec.TypeOfOccurrence, rec.FullName,
		rec.CpfOrRg, rec.DateOfBirth, rec.Gender, rec.Nationality, rec.MaritalStatus, rec.Profession,
		rec.FullAddress, rec.PhoneOrCellPhone, rec.Email, rec.RelationshipWithTheFact, rec.Transcription,
		rec.LocalID, rec.CollectedAt, rec.ReceivedAt, rec.SyncStatus,
	).Scan(&rec.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Record, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM records WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Record, error) {
	return r.getOne(ctx, `SELECT `+selectColumns+` FROM records WHERE id = $1 FOR UPDATE`, id)
}

// Update sets the columns of u in ChangedKeys order and returns the
// stored row.
func (r *PostgresRepository) Update(ctx context.Context, id string, u fields.Update) (*models.Record, error) {
	if u.Empty() {
		return nil, fmt.Errorf("%w: nothing to update", common.ErrorValidation)
	}

	sets := make([]string, 0, len(u.ChangedKeys))
	args := make([]any, 0, len(u.ChangedKeys)+1)
	for _, k := range u.ChangedKeys {
		if _, ok := fields.Lookup(k); !ok {
			return nil, fmt.Errorf("%w: unknown field %s", common.ErrorValidation, k)
		}
		args = append(args, u.Values[k])
		sets = append(sets, fmt.Sprintf("%s = $%d", k, len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE records SET %s WHERE id = $%d RETURNING `+selectColumns,
		strings.Join(sets, ", "), len(args))

	return r.getOne(ctx, query, args...)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (*models.Record, error) {
	return r.getOne(ctx, `DELETE FROM records WHERE id = $1 RETURNING `+selectColumns, id)
}

func (r *PostgresRepository) FindByLocalID(ctx context.Context, localID string) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM records WHERE local_id = $1`, localID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func listConditions(f models.RecordFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.SearchTerm != "" {
		args = append(args, "%"+f.SearchTerm+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			`(unaccent(id::text) ILIKE unaccent($%[1]d) OR unaccent(full_name) ILIKE unaccent($%[1]d)`+
				` OR unaccent(place_of_the_fact) ILIKE unaccent($%[1]d) OR unaccent(type_of_occurrence) ILIKE unaccent($%[1]d))`, n))
	}
	if f.TypeFilter != "" {
		args = append(args, f.TypeFilter)
		conds = append(conds, fmt.Sprintf("type_of_occurrence = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of records, newest first, and the total number of
// matching rows.
func (r *PostgresRepository) List(ctx context.Context, f models.RecordFilter) ([]*models.Record, int, error) {
	where, args := listConditions(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM records`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	args = append(args, models.PageSize, models.Offset(f.Page))
	query := fmt.Sprintf(`SELECT `+selectColumns+` FROM records%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}
