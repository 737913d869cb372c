package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/client/client"
	"github.com/dmitrijs2005/fieldreports/internal/client/models"
	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/logging"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func capture(name string) fields.Patch {
	return fields.Patch{
		{Name: fields.DateAndTimeOfEvent, Value: "2024-03-01T10:00:00Z"},
		{Name: fields.PlaceOfTheFact, Value: "Praça da Sé"},
		{Name: fields.TypeOfOccurrence, Value: "furto"},
		{Name: fields.FullName, Value: name},
		{Name: fields.RelationshipWithTheFact, Value: "vítima"},
		{Name: fields.Gender, Value: "  "},
	}
}

type env struct {
	client *fakeClient
	auth   AuthService
	svc    *reportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := setupDB(t)
	fc := &fakeClient{}
	auth := NewAuthService(fc, db)
	svc := NewReportService(fc, auth, db, logging.Nop{}).(*reportService)

	n := 0
	svc.newID = func() string {
		n++
		return fmt.Sprintf("local-%d", n)
	}
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return &env{client: fc, auth: auth, svc: svc}
}

func TestAdd_QueuesPendingReport(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	rep, err := e.svc.Add(ctx, capture("Ana"))
	require.NoError(t, err)
	assert.Equal(t, "local-1", rep.LocalID)
	assert.Equal(t, models.StatusPending, rep.Status)
	_, hasGender := rep.Fields.Get(fields.Gender)
	assert.False(t, hasGender, "blank optional values are not captured")

	all, err := e.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ana", all[0].FullName())
}

func TestAdd_RequiresMandatoryFields(t *testing.T) {
	e := newEnv(t)

	p := capture("")
	_, err := e.svc.Add(context.Background(), p)
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Contains(t, err.Error(), "full_name is required")
}

func TestAdd_RejectsInvalidValues(t *testing.T) {
	e := newEnv(t)

	p := append(capture("Ana"), fields.Entry{Name: fields.Email, Value: "not-an-email"})
	_, err := e.svc.Add(context.Background(), p)
	require.ErrorIs(t, err, common.ErrorValidation)
}

func TestSync_RequiresToken(t *testing.T) {
	e := newEnv(t)

	_, err := e.svc.Sync(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Zero(t, e.client.calls)
}

func TestSync_NothingPending(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.auth.SaveToken(ctx, "tok"))

	sum, err := e.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncSummary{}, sum)
	assert.Zero(t, e.client.calls)
}

func TestSync_AppliesResults(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.auth.SaveToken(ctx, "tok"))

	_, err := e.svc.Add(ctx, capture("Ana"))
	require.NoError(t, err)
	_, err = e.svc.Add(ctx, capture("Bruno"))
	require.NoError(t, err)

	e.client.SyncResult = &models.SyncResult{
		Synced: []models.SyncedItem{{LocalID: "local-1", ServerID: "srv-1"}},
		Failed: []models.FailedItem{{LocalID: "local-2", Error: "could not store record"}},
	}

	sum, err := e.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncSummary{Sent: 2, Synced: 1, Failed: 1}, sum)
	assert.Equal(t, "tok", e.client.gotToken)
	require.Len(t, e.client.gotItems, 2)
	assert.Equal(t, "local-1", gjson.GetBytes(e.client.gotItems[0], "localId").String())
	assert.Equal(t, "Ana", gjson.GetBytes(e.client.gotItems[0], "full_name").String())

	all, err := e.svc.List(ctx)
	require.NoError(t, err)
	byID := map[string]*models.Report{}
	for _, r := range all {
		byID[r.LocalID] = r
	}
	assert.Equal(t, models.StatusSynced, byID["local-1"].Status)
	assert.Equal(t, "srv-1", byID["local-1"].ServerID)
	assert.Equal(t, models.StatusFailed, byID["local-2"].Status)
	assert.Equal(t, "could not store record", byID["local-2"].LastError)

	// failed reports are retried, synced ones are not resent
	e.client.SyncResult = &models.SyncResult{Synced: []models.SyncedItem{{LocalID: "local-2", ServerID: "srv-2"}}}
	sum, err = e.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, SyncSummary{Sent: 1, Synced: 1}, sum)
	assert.Equal(t, "local-2", gjson.GetBytes(e.client.gotItems[0], "localId").String())
}

func TestSync_RetryAfterLostResponseIsSafe(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.auth.SaveToken(ctx, "tok"))
	_, err := e.svc.Add(ctx, capture("Ana"))
	require.NoError(t, err)

	e.client.SyncErr = fmt.Errorf("%w: connection reset", client.ErrUnavailable)
	_, err = e.svc.Sync(ctx)
	require.ErrorIs(t, err, client.ErrUnavailable)

	e.client.SyncErr = nil
	e.client.respond = func(items []json.RawMessage) *models.SyncResult {
		res := &models.SyncResult{}
		for _, it := range items {
			res.Synced = append(res.Synced, models.SyncedItem{LocalID: gjson.GetBytes(it, "localId").String(), ServerID: "srv-1"})
		}
		return res
	}

	sum, err := e.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Synced)
}

func TestSync_UnknownAcknowledgementIsIgnored(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.auth.SaveToken(ctx, "tok"))
	_, err := e.svc.Add(ctx, capture("Ana"))
	require.NoError(t, err)

	e.client.SyncResult = &models.SyncResult{Synced: []models.SyncedItem{
		{LocalID: "ghost", ServerID: "srv-x"},
		{LocalID: "local-1", ServerID: "srv-1"},
	}}

	sum, err := e.svc.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Synced)
}
