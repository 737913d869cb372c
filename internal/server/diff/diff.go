// Package diff compares record snapshots taken around an update.
package diff

import (
	"bytes"
	"encoding/json"
)

// Snapshot exposes the stored value of a record field. Absent or NULL
// fields return nil.
type Snapshot interface {
	Value(field string) any
}

// Change is the before/after pair of one field.
type Change struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// ChangeSet is the audit payload of an update.
type ChangeSet struct {
	ChangedKeys []string
	Changes     map[string]Change
}

// Compute builds the change set for changedKeys only, in their order.
func Compute(before, after Snapshot, changedKeys []string) ChangeSet {
	cs := ChangeSet{
		ChangedKeys: make([]string, 0, len(changedKeys)),
		Changes:     make(map[string]Change, len(changedKeys)),
	}
	for _, k := range changedKeys {
		if _, dup := cs.Changes[k]; dup {
			continue
		}
		cs.ChangedKeys = append(cs.ChangedKeys, k)
		cs.Changes[k] = Change{From: value(before, k), To: value(after, k)}
	}
	return cs
}

func value(s Snapshot, k string) any {
	if s == nil {
		return nil
	}
	return s.Value(k)
}

// MarshalJSON writes {"changedKeys": [...], "diff": {...}} with the diff
// object keyed in changedKeys order.
func (cs ChangeSet) MarshalJSON() ([]byte, error) {
	keys := cs.ChangedKeys
	if keys == nil {
		keys = []string{}
	}

	var buf bytes.Buffer
	buf.WriteString(`{"changedKeys":`)
	b, err := json.Marshal(keys)
	if err != nil {
		return nil, err
	}
	buf.Write(b)

	buf.WriteString(`,"diff":{`)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		cb, err := json.Marshal(cs.Changes[k])
		if err != nil {
			return nil, err
		}
		buf.Write(cb)
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}

// UnmarshalJSON restores a change set written by MarshalJSON.
func (cs *ChangeSet) UnmarshalJSON(b []byte) error {
	var raw struct {
		ChangedKeys []string          `json:"changedKeys"`
		Diff        map[string]Change `json:"diff"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	cs.ChangedKeys = raw.ChangedKeys
	cs.Changes = raw.Diff
	return nil
}
