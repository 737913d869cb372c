package models

import (
	"encoding/json"
	"time"
)

type AuditAction string

const (
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// AuditEntry is an immutable audit log row.
type AuditEntry struct {
	ID               int64           `json:"id"`
	RecordID         string          `json:"record_id"`
	Action           AuditAction     `json:"action"`
	PoliceIdentifier string          `json:"police_identifier"`
	Details          json.RawMessage `json:"details"`
	SourceAddress    *string         `json:"source_address"`
	CreatedAt        time.Time       `json:"created_at"`
}

// DeleteDetails is the audit payload of a delete.
type DeleteDetails struct {
	Snapshot Snapshot `json:"snapshot"`
}
