package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/fieldreports/internal/client/client"
	"github.com/dmitrijs2005/fieldreports/internal/client/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "fieldctl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fakeClient struct {
	PingErr error

	SyncResult *models.SyncResult
	SyncErr    error
	// respond builds the result from the sent batch when set.
	respond func(items []json.RawMessage) *models.SyncResult

	gotToken string
	gotItems []json.RawMessage
	calls    int
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) SyncRecords(_ context.Context, token string, items []json.RawMessage) (*models.SyncResult, error) {
	f.calls++
	f.gotToken = token
	f.gotItems = items
	if f.SyncErr != nil {
		return nil, f.SyncErr
	}
	if f.respond != nil {
		return f.respond(items), nil
	}
	return f.SyncResult, nil
}
