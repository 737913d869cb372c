package httpapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/dmitrijs2005/fieldreports/internal/server/models"
	"github.com/dmitrijs2005/fieldreports/internal/server/services"
)

type fakeRecords struct {
	created    []models.NewRecord
	updates    []services.UpdateRequest
	deletes    []services.DeleteRequest
	lastFilter models.RecordFilter
	record     *models.Record
	page       models.Page[*models.Record]
	pdf        []byte
	err        error
	panicOnGet bool
}

func (f *fakeRecords) Create(_ context.Context, in models.NewRecord) (*models.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &models.Record{ID: "11111111-1111-1111-1111-111111111111"}, nil
}

func (f *fakeRecords) Get(context.Context, string) (*models.Record, error) {
	if f.panicOnGet {
		panic("boom")
	}
	return f.record, f.err
}

func (f *fakeRecords) List(_ context.Context, flt models.RecordFilter) (models.Page[*models.Record], error) {
	f.lastFilter = flt
	return f.page, f.err
}

func (f *fakeRecords) Update(_ context.Context, req services.UpdateRequest) (*models.Record, error) {
	f.updates = append(f.updates, req)
	return f.record, f.err
}

func (f *fakeRecords) Delete(_ context.Context, req services.DeleteRequest) error {
	f.deletes = append(f.deletes, req)
	return f.err
}

func (f *fakeRecords) Document(context.Context, string) ([]byte, error) {
	return f.pdf, f.err
}

type fakeSync struct {
	items  []models.SyncItem
	result models.SyncResult
}

func (f *fakeSync) Reconcile(_ context.Context, items []models.SyncItem) models.SyncResult {
	f.items = items
	return f.result
}

type fakeAudit struct {
	lastFilter models.AuditFilter
	page       models.Page[*models.AuditEntry]
	err        error
}

func (f *fakeAudit) List(_ context.Context, flt models.AuditFilter) (models.Page[*models.AuditEntry], error) {
	f.lastFilter = flt
	return f.page, f.err
}

type fakeTranscriber struct {
	got      []byte
	filename string
	text     string
	err      error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, audio io.Reader, filename, _ string) (string, error) {
	f.got, _ = io.ReadAll(audio)
	f.filename = filename
	return f.text, f.err
}

type fakeExtractor struct {
	narrative string
	patch     fields.Patch
	err       error
}

func (f *fakeExtractor) Extract(_ context.Context, narrative string) (fields.Patch, error) {
	f.narrative = narrative
	return f.patch, f.err
}

type harness struct {
	records *fakeRecords
	sync    *fakeSync
	audit   *fakeAudit
	tr      *fakeTranscriber
	ex      *fakeExtractor
	server  *Server
}

func newHarness(t *testing.T, secret string) *harness {
	t.Helper()
	return newHarnessWithOptions(t, Options{Address: ":0", DeviceTokenSecret: secret})
}

func newHarnessWithOptions(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{
		records: &fakeRecords{},
		sync:    &fakeSync{},
		audit:   &fakeAudit{},
		tr:      &fakeTranscriber{},
		ex:      &fakeExtractor{},
	}
	h.server = NewServer(opts, Services{
		Records:     h.records,
		Sync:        h.sync,
		AuditLogs:   h.audit,
		Transcriber: h.tr,
		Extractor:   h.ex,
	}, logging.Nop{})
	return h
}

func (h *harness) do(method, target string, body []byte, header map[string]string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.server.Router().ServeHTTP(w, req)
	return w
}

func (h *harness) doRequest(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.server.Router().ServeHTTP(w, req)
	return w
}
