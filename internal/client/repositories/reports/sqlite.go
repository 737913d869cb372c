package reports

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/client/models"
	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/cryptox"
	"github.com/dmitrijs2005/fieldreports/internal/dbx"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
)

const selectColumns = `local_id, fields, collected_at, status, server_id, last_error, updated_at`

// sealedPrefix marks a fields column holding base64(nonce || ciphertext).
const sealedPrefix = "sealed:"

// ErrLocked is returned when a sealed report is read without a cipher.
var ErrLocked = errors.New("outbox is encrypted, passphrase required")

type SQLiteRepository struct {
	db     dbx.DBTX
	cipher *cryptox.Cipher
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// WithCipher makes the repository seal the fields of new reports with c.
// Searchable summary columns are left blank for sealed reports.
// A nil c keeps the repository in plain mode.
func (r *SQLiteRepository) WithCipher(c *cryptox.Cipher) *SQLiteRepository {
	r.cipher = c
	return r
}

func (r *SQLiteRepository) encodeFields(payload []byte) (string, error) {
	if r.cipher == nil {
		return string(payload), nil
	}
	sealed, err := r.cipher.Seal(payload)
	if err != nil {
		return "", err
	}
	return sealedPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

func (r *SQLiteRepository) decodeFields(column string) ([]byte, error) {
	enc, ok := strings.CutPrefix(column, sealedPrefix)
	if !ok {
		return []byte(column), nil
	}
	if r.cipher == nil {
		return nil, ErrLocked
	}
	sealed, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, err
	}
	return r.cipher.Open(sealed)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func (r *SQLiteRepository) Insert(ctx context.Context, rep *models.Report) error {
	payload, err := rep.Fields.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode report fields: %w", err)
	}

	column, err := r.encodeFields(payload)
	if err != nil {
		return fmt.Errorf("failed to seal report fields: %w", err)
	}
	fullName, occurrence := rep.FullName(), rep.TypeOfOccurrence()
	if r.cipher != nil {
		fullName, occurrence = "", ""
	}

	query := `INSERT INTO reports (local_id, fields, full_name, type_of_occurrence, collected_at, status, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query, rep.LocalID, column, fullName, occurrence,
		formatTime(rep.CollectedAt), string(rep.Status), formatTime(rep.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) scanReport(rows *sql.Rows) (*models.Report, error) {
	var (
		rep                    models.Report
		payload, collected     string
		status, updated        string
		serverID, lastErrorMsg sql.NullString
	)
	if err := rows.Scan(&rep.LocalID, &payload, &collected, &status, &serverID, &lastErrorMsg, &updated); err != nil {
		return nil, err
	}

	raw, err := r.decodeFields(payload)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", rep.LocalID, err)
	}
	p, err := fields.ParsePatch(raw)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", rep.LocalID, err)
	}
	rep.Fields = p

	if rep.CollectedAt, err = time.Parse(time.RFC3339Nano, collected); err != nil {
		return nil, fmt.Errorf("report %s: collected_at: %w", rep.LocalID, err)
	}
	if rep.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("report %s: updated_at: %w", rep.LocalID, err)
	}
	rep.Status = models.Status(status)
	rep.ServerID = serverID.String
	rep.LastError = lastErrorMsg.String

	return &rep, nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Report, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select reports: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Report, 0)
	for rows.Next() {
		rep, err := r.scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		result = append(result, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) ListPending(ctx context.Context) ([]*models.Report, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM reports WHERE status <> ? ORDER BY collected_at, local_id`,
		string(models.StatusSynced))
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]*models.Report, error) {
	return r.list(ctx, `SELECT `+selectColumns+` FROM reports ORDER BY collected_at DESC, local_id`)
}

func (r *SQLiteRepository) mark(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, localID, serverID string, at time.Time) error {
	return r.mark(ctx, `UPDATE reports SET status = ?, server_id = ?, last_error = NULL, updated_at = ? WHERE local_id = ?`,
		string(models.StatusSynced), serverID, formatTime(at), localID)
}

func (r *SQLiteRepository) MarkFailed(ctx context.Context, localID, reason string, at time.Time) error {
	return r.mark(ctx, `UPDATE reports SET status = ?, last_error = ?, updated_at = ? WHERE local_id = ?`,
		string(models.StatusFailed), reason, formatTime(at), localID)
}
