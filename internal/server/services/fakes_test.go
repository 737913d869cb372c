package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/dbx"
	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/dmitrijs2005/fieldreports/internal/server/identity"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/dmitrijs2005/fieldreports/internal/server/notify"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/auditlogs"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/records"
	"github.com/dmitrijs2005/fieldreports/internal/server/repositories/repomanager"
)

// -------- in-memory store --------

type memStore struct {
	records     map[string]*models.Record
	audit       []*models.AuditEntry
	creates     int
	auditErr    error
	createErr   error
	raceLocalID string
	lastFilter  models.RecordFilter
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*models.Record{}}
}

func (s *memStore) put(r *models.Record) {
	cp := *r
	s.records[r.ID] = &cp
}

func (s *memStore) get(id string) *models.Record {
	r, ok := s.records[id]
	if !ok {
		return nil
	}
	cp := *r
	return &cp
}

type fakeRecordsRepo struct {
	records.Repository
	s *memStore
}

func (f *fakeRecordsRepo) Create(ctx context.Context, r *models.Record) (*models.Record, error) {
	if f.s.createErr != nil {
		return nil, f.s.createErr
	}
	if r.LocalID != nil {
		if *r.LocalID == f.s.raceLocalID {
			winner := *r
			winner.ID = "winner-" + *r.LocalID
			f.s.put(&winner)
			f.s.raceLocalID = ""
			return nil, common.ErrorAlreadyExists
		}
		for _, existing := range f.s.records {
			if existing.LocalID != nil && *existing.LocalID == *r.LocalID {
				return nil, common.ErrorAlreadyExists
			}
		}
	}
	f.s.creates++
	r.CreatedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	f.s.put(r)
	return f.s.get(r.ID), nil
}

func (f *fakeRecordsRepo) GetByID(ctx context.Context, id string) (*models.Record, error) {
	if r := f.s.get(id); r != nil {
		return r, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeRecordsRepo) GetForUpdate(ctx context.Context, id string) (*models.Record, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeRecordsRepo) Update(ctx context.Context, id string, u fields.Update) (*models.Record, error) {
	r := f.s.get(id)
	if r == nil {
		return nil, common.ErrorNotFound
	}
	applyValues(r, u.Values)
	f.s.put(r)
	return f.s.get(id), nil
}

func (f *fakeRecordsRepo) Delete(ctx context.Context, id string) (*models.Record, error) {
	r := f.s.get(id)
	if r == nil {
		return nil, common.ErrorNotFound
	}
	delete(f.s.records, id)
	return r, nil
}

func (f *fakeRecordsRepo) FindByLocalID(ctx context.Context, localID string) (string, error) {
	for _, r := range f.s.records {
		if r.LocalID != nil && *r.LocalID == localID {
			return r.ID, nil
		}
	}
	return "", common.ErrorNotFound
}

func (f *fakeRecordsRepo) List(ctx context.Context, flt models.RecordFilter) ([]*models.Record, int, error) {
	f.s.lastFilter = flt
	var out []*models.Record
	for id := range f.s.records {
		r := f.s.get(id)
		if flt.TypeFilter != "" && r.TypeOfOccurrence != flt.TypeFilter {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

type fakeAuditRepo struct {
	auditlogs.Repository
	s *memStore
}

func (f *fakeAuditRepo) Append(ctx context.Context, e *models.AuditEntry) (*models.AuditEntry, error) {
	if f.s.auditErr != nil {
		return nil, f.s.auditErr
	}
	e.ID = int64(len(f.s.audit) + 1)
	f.s.audit = append(f.s.audit, e)
	return e, nil
}

func (f *fakeAuditRepo) List(ctx context.Context, flt models.AuditFilter) ([]*models.AuditEntry, int, error) {
	var out []*models.AuditEntry
	for _, e := range f.s.audit {
		if flt.RecordID != "" && e.RecordID != flt.RecordID {
			continue
		}
		if flt.Action != "" && e.Action != flt.Action {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	s *memStore
}

func (m *fakeRepoManager) Records(db dbx.DBTX) records.Repository     { return &fakeRecordsRepo{s: m.s} }
func (m *fakeRepoManager) AuditLogs(db dbx.DBTX) auditlogs.Repository { return &fakeAuditRepo{s: m.s} }

// -------- collaborators --------

type fakeRenderer struct {
	calls int
	err   error
	panic bool
}

func (f *fakeRenderer) Render(r *models.Record) ([]byte, error) {
	f.calls++
	if f.panic {
		panic("font missing")
	}
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-" + r.ID), nil
}

type fakeMailer struct {
	sent []notify.Confirmation
	err  error
}

func (f *fakeMailer) SendConfirmation(ctx context.Context, c notify.Confirmation) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, c)
	return nil
}

type fakeArchive struct {
	keys []string
	err  error
}

func (f *fakeArchive) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	return nil
}

// -------- helpers --------

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type fixture struct {
	db       *sql.DB
	mock     sqlmock.Sqlmock
	store    *memStore
	renderer *fakeRenderer
	mailer   *fakeMailer
	archive  *fakeArchive
	records  *RecordService
	sync     *SyncService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	t.Cleanup(func() { db.Close() })

	idv, err := identity.New(nil, identity.DefaultPattern)
	if err != nil {
		t.Fatalf("identity.New error: %v", err)
	}

	f := &fixture{
		db: db, mock: mock, store: newMemStore(),
		renderer: &fakeRenderer{}, mailer: &fakeMailer{}, archive: &fakeArchive{},
	}
	m := &fakeRepoManager{s: f.store}
	n := NewNotifier(f.renderer, f.mailer, f.archive, logging.Nop{})

	seq := 0
	newID := func() string {
		seq++
		return fmt.Sprintf("00000000-0000-4000-8000-%012d", seq)
	}

	f.records = NewRecordService(db, m, idv, n, f.renderer, logging.Nop{})
	f.records.newID = newID
	f.sync = NewSyncService(db, m, n, logging.Nop{})
	f.sync.newID = newID
	f.sync.now = func() time.Time { return time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC) }
	return f
}

func strPtr(s string) *string { return &s }

var errBoom = errors.New("boom")

// applyValues writes sanitized column values onto r the way the UPDATE
// statement does.
func applyValues(r *models.Record, values map[string]any) {
	optional := func(v any) *string {
		if s, ok := v.(string); ok {
			return &s
		}
		return nil
	}
	for k, v := range values {
		switch k {
		case fields.DateAndTimeOfEvent:
			if t, ok := v.(time.Time); ok {
				r.DateAndTimeOfEvent = t
			}
		case fields.PlaceOfTheFact:
			r.PlaceOfTheFact, _ = v.(string)
		case fields.TypeOfOccurrence:
			r.TypeOfOccurrence, _ = v.(string)
		case fields.FullName:
			r.FullName, _ = v.(string)
		case fields.RelationshipWithTheFact:
			r.RelationshipWithTheFact, _ = v.(string)
		case fields.CpfOrRg:
			r.CpfOrRg = optional(v)
		case fields.DateOfBirth:
			r.DateOfBirth = optional(v)
		case fields.Gender:
			r.Gender = optional(v)
		case fields.Nationality:
			r.Nationality = optional(v)
		case fields.MaritalStatus:
			r.MaritalStatus = optional(v)
		case fields.Profession:
			r.Profession = optional(v)
		case fields.FullAddress:
			r.FullAddress = optional(v)
		case fields.PhoneOrCellPhone:
			r.PhoneOrCellPhone = optional(v)
		case fields.Email:
			r.Email = optional(v)
		case fields.Transcription:
			r.Transcription = optional(v)
		}
	}
}
