// Package models defines the client-side records kept in the local outbox
// and the sync wire shapes exchanged with the server.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/tidwall/sjson"
)

// Status is the delivery state of a locally captured report.
type Status string

const (
	StatusPending Status = "pending"
	StatusSynced  Status = "synced"
	StatusFailed  Status = "failed"
)

// Report is an incident captured offline, waiting in the outbox until the
// server acknowledges it.
type Report struct {
	// LocalID is generated on the device and doubles as the idempotency key.
	LocalID     string
	Fields      fields.Patch
	CollectedAt time.Time
	Status      Status
	// ServerID is set once the server confirmed the record.
	ServerID  string
	LastError string
	UpdatedAt time.Time
}

func (r *Report) FullName() string {
	v, _ := r.Fields.Get(fields.FullName)
	return v
}

func (r *Report) TypeOfOccurrence() string {
	v, _ := r.Fields.Get(fields.TypeOfOccurrence)
	return v
}

// SyncPayload renders the report as one element of a sync batch: the
// captured fields plus localId and collected_at.
func (r *Report) SyncPayload() ([]byte, error) {
	b, err := r.Fields.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	if b, err = sjson.SetBytes(b, "localId", r.LocalID); err != nil {
		return nil, fmt.Errorf("set localId: %w", err)
	}
	if b, err = sjson.SetBytes(b, "collected_at", r.CollectedAt.UTC().Format(time.RFC3339)); err != nil {
		return nil, fmt.Errorf("set collected_at: %w", err)
	}
	return b, nil
}

type SyncedItem struct {
	LocalID  string `json:"localId"`
	ServerID string `json:"serverId"`
}

type FailedItem struct {
	LocalID string `json:"localId"`
	Error   string `json:"error"`
}

// SyncResult is the server answer to a sync batch.
type SyncResult struct {
	Synced []SyncedItem `json:"synced"`
	Failed []FailedItem `json:"failed"`
}
