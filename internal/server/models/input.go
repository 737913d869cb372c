package models

import (
	"fmt"

	"github.com/dmitrijs2005/fieldreports/internal/common"
	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
	"github.com/dmitrijs2005/fieldreports/internal/timex"
)

// NewRecord is the create payload. Optional fields left empty are stored
// as NULL.
type NewRecord struct {
	DateAndTimeOfEvent      string `json:"date_and_time_of_event" validate:"notblank,datetime=2006-01-02T15:04:05Z07:00"`
	PlaceOfTheFact          string `json:"place_of_the_fact" validate:"notblank"`
	TypeOfOccurrence        string `json:"type_of_occurrence" validate:"notblank"`
	FullName                string `json:"full_name" validate:"notblank"`
	CpfOrRg                 string `json:"cpf_or_rg,omitempty"`
	DateOfBirth             string `json:"date_of_birth,omitempty" validate:"omitempty,dateish"`
	Gender                  string `json:"gender,omitempty"`
	Nationality             string `json:"nationality,omitempty"`
	MaritalStatus           string `json:"marital_status,omitempty"`
	Profession              string `json:"profession,omitempty"`
	FullAddress             string `json:"full_address,omitempty"`
	PhoneOrCellPhone        string `json:"phone_or_cell_phone,omitempty"`
	Email                   string `json:"email,omitempty" validate:"omitempty,email"`
	RelationshipWithTheFact string `json:"relationship_with_the_fact" validate:"notblank"`
	Transcription           string `json:"transcription,omitempty"`
}

// Validate checks the payload rules and wraps failures in
// common.ErrorValidation.
func (n NewRecord) Validate() error {
	if err := fields.Validator().Struct(n); err != nil {
		return fmt.Errorf("%w: %s", common.ErrorValidation, fields.FormatError(err))
	}
	return nil
}

// ToRecord converts a validated payload into a record without id.
func (n NewRecord) ToRecord() (*Record, error) {
	at, err := timex.ParseTimestamp(n.DateAndTimeOfEvent)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrorValidation, fields.DateAndTimeOfEvent, err)
	}

	r := &Record{
		DateAndTimeOfEvent:      at,
		PlaceOfTheFact:          n.PlaceOfTheFact,
		TypeOfOccurrence:        n.TypeOfOccurrence,
		FullName:                n.FullName,
		CpfOrRg:                 nonEmpty(n.CpfOrRg),
		Gender:                  nonEmpty(n.Gender),
		Nationality:             nonEmpty(n.Nationality),
		MaritalStatus:           nonEmpty(n.MaritalStatus),
		Profession:              nonEmpty(n.Profession),
		FullAddress:             nonEmpty(n.FullAddress),
		PhoneOrCellPhone:        nonEmpty(n.PhoneOrCellPhone),
		Email:                   nonEmpty(n.Email),
		RelationshipWithTheFact: n.RelationshipWithTheFact,
		Transcription:           nonEmpty(n.Transcription),
	}
	if n.DateOfBirth != "" {
		d, err := fields.NormalizeDate(n.DateOfBirth)
		if err != nil {
			return nil, err
		}
		r.DateOfBirth = &d
	}
	return r, nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SyncItem is one offline-captured record in a sync batch.
type SyncItem struct {
	LocalID string `json:"localId"`
	NewRecord
	CollectedAt string `json:"collected_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// Validate checks the record payload and the collection time.
func (s SyncItem) Validate() error {
	if err := fields.Validator().Struct(s); err != nil {
		return fmt.Errorf("%w: %s", common.ErrorValidation, fields.FormatError(err))
	}
	return nil
}

// SyncedItem maps a client local id to the server record id.
type SyncedItem struct {
	LocalID  string `json:"localId"`
	ServerID string `json:"serverId"`
}

// FailedItem reports why an item could not be reconciled.
type FailedItem struct {
	LocalID string `json:"localId"`
	Error   string `json:"error"`
}

// SyncResult has one entry per submitted item, in either list.
type SyncResult struct {
	Synced []SyncedItem `json:"synced"`
	Failed []FailedItem `json:"failed"`
}
