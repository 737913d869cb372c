package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

type fakeServer struct {
	*httptest.Server
	token    atomic.Value
	lastBody atomic.Value
	batches  atomic.Int32
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST /sync/records", func(w http.ResponseWriter, r *http.Request) {
		fs.token.Store(r.Header.Get("Authorization"))
		fs.batches.Add(1)

		body, _ := io.ReadAll(r.Body)
		fs.lastBody.Store(body)
		type synced struct {
			LocalID  string `json:"localId"`
			ServerID string `json:"serverId"`
		}
		out := struct {
			Synced []synced `json:"synced"`
			Failed []any    `json:"failed"`
		}{Failed: []any{}}
		for i, it := range gjson.ParseBytes(body).Array() {
			out.Synced = append(out.Synced, synced{
				LocalID:  it.Get("localId").String(),
				ServerID: "srv-" + string(rune('a'+i)),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func run(t *testing.T, server, db, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", server, "--db", db, "--timeout", "5s"}, args...))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := root.ExecuteContext(ctx)
	return out.String(), err
}

const reportInput = "2025-03-01T10:00:00Z\n" + // date and time
	"Rua A, 10\n" + // place
	"furto\n" + // occurrence
	"Maria Souza\n" + // full name
	"\n\n\n\n\n\n\n\n" + // cpf .. phone
	"maria@example.com\n" + // email
	"vitima\n" + // relationship
	"line one\nline two\n\n" // transcription

func TestLoginAddListSync(t *testing.T) {
	srv := newFakeServer(t)
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	out, err := run(t, srv.URL, db, "", "login", "Bearer tok-123")
	require.NoError(t, err)
	require.Contains(t, out, "Token saved.")
	require.Contains(t, out, "Server is reachable.")

	out, err = run(t, srv.URL, db, reportInput, "add")
	require.NoError(t, err, out)
	require.Contains(t, out, "queued.")

	out, err = run(t, srv.URL, db, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Maria Souza")
	require.Contains(t, out, "furto")
	require.Contains(t, out, "pending")

	out, err = run(t, srv.URL, db, "", "sync")
	require.NoError(t, err)
	require.Contains(t, out, "Sent 1, synced 1, failed 0.")
	require.Equal(t, "Bearer tok-123", srv.token.Load())

	out, err = run(t, srv.URL, db, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "synced")
	require.Contains(t, out, "srv-a")

	out, err = run(t, srv.URL, db, "", "sync")
	require.NoError(t, err)
	require.Contains(t, out, "Nothing to sync.")
	require.EqualValues(t, 1, srv.batches.Load())
}

func TestAdd_MissingRequiredField(t *testing.T) {
	srv := newFakeServer(t)
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	input := strings.Repeat("\n", 14) + "\n"
	_, err := run(t, srv.URL, db, input, "add")
	require.Error(t, err)
	require.Contains(t, err.Error(), "place_of_the_fact is required")
}

func TestAdd_DefaultsEventTimeToNow(t *testing.T) {
	old := now
	t.Cleanup(func() { now = old })
	now = func() time.Time { return time.Date(2025, 5, 6, 7, 8, 9, 0, time.UTC) }

	srv := newFakeServer(t)
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	input := "\n" + strings.TrimPrefix(reportInput, "2025-03-01T10:00:00Z\n")
	_, err := run(t, srv.URL, db, input, "add")
	require.NoError(t, err)

	out, err := run(t, srv.URL, db, "", "login", "tok")
	require.NoError(t, err, out)

	_, err = run(t, srv.URL, db, "", "sync")
	require.NoError(t, err)
	payload, _ := srv.lastBody.Load().([]byte)
	require.Equal(t, "2025-05-06T07:08:09Z", gjson.GetBytes(payload, "0.date_and_time_of_event").String())
}

func TestSync_WithoutToken(t *testing.T) {
	srv := newFakeServer(t)
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	_, err := run(t, srv.URL, db, reportInput, "add")
	require.NoError(t, err)

	_, err = run(t, srv.URL, db, "", "sync")
	require.Error(t, err)
	require.Contains(t, err.Error(), "fieldctl login")
	require.EqualValues(t, 0, srv.batches.Load())
}

func TestSync_ServerDown(t *testing.T) {
	srv := newFakeServer(t)
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	_, err := run(t, srv.URL, db, "", "login", "tok")
	require.NoError(t, err)
	_, err = run(t, srv.URL, db, reportInput, "add")
	require.NoError(t, err)

	srv.Close()

	_, err = run(t, srv.URL, db, "", "sync")
	require.Error(t, err)
	require.Contains(t, err.Error(), "reports stay queued")

	out, err := run(t, srv.URL, db, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "pending")
}

func TestLogin_ServerDownStillSaves(t *testing.T) {
	srv := newFakeServer(t)
	srv.Close()
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	out, err := run(t, srv.URL, db, "", "login", "tok")
	require.NoError(t, err)
	require.Contains(t, out, "Token saved.")
	require.Contains(t, out, "not reachable")
}

func TestLogout(t *testing.T) {
	srv := newFakeServer(t)
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	_, err := run(t, srv.URL, db, "", "login", "tok")
	require.NoError(t, err)
	out, err := run(t, srv.URL, db, "", "logout")
	require.NoError(t, err)
	require.Contains(t, out, "Logged out.")

	_, err = run(t, srv.URL, db, reportInput, "add")
	require.NoError(t, err)
	_, err = run(t, srv.URL, db, "", "sync")
	require.Error(t, err)
}

func TestList_Empty(t *testing.T) {
	srv := newFakeServer(t)
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	out, err := run(t, srv.URL, db, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No reports.")
}

func TestFieldLabel(t *testing.T) {
	require.Equal(t, "Full name *", fieldLabel(mustField(t, "full_name")))
	require.Equal(t, "Gender", fieldLabel(mustField(t, "gender")))
	require.Equal(t, "Date of birth (YYYY-MM-DD)", fieldLabel(mustField(t, "date_of_birth")))
}

func mustField(t *testing.T, name string) fields.Field {
	t.Helper()
	f, ok := fields.Lookup(name)
	require.True(t, ok, name)
	return f
}

func TestOutboxPassphrase(t *testing.T) {
	srv := newFakeServer(t)
	db := filepath.Join(t.TempDir(), "fieldctl.db")

	t.Setenv("FIELDCTL_OUTBOX_PASSPHRASE", "pw")
	_, err := run(t, srv.URL, db, reportInput, "add")
	require.NoError(t, err)

	out, err := run(t, srv.URL, db, "", "list")
	require.NoError(t, err)
	require.Contains(t, out, "Maria Souza")

	t.Setenv("FIELDCTL_OUTBOX_PASSPHRASE", "wrong")
	_, err = run(t, srv.URL, db, "", "list")
	require.Error(t, err)
	require.Contains(t, err.Error(), "wrong outbox passphrase")
}
