package models

import (
	"time"

	"github.com/dmitrijs2005/fieldreports/internal/server/fields"
)

// Record is a stored incident report.
type Record struct {
	ID                      string     `json:"id"`
	DateAndTimeOfEvent      time.Time  `json:"date_and_time_of_event"`
	PlaceOfTheFact          string     `json:"place_of_the_fact"`
	TypeOfOccurrence        string     `json:"type_of_occurrence"`
	FullName                string     `json:"full_name"`
	CpfOrRg                 *string    `json:"cpf_or_rg"`
	DateOfBirth             *string    `json:"date_of_birth"`
	Gender                  *string    `json:"gender"`
	Nationality             *string    `json:"nationality"`
	MaritalStatus           *string    `json:"marital_status"`
	Profession              *string    `json:"profession"`
	FullAddress             *string    `json:"full_address"`
	PhoneOrCellPhone        *string    `json:"phone_or_cell_phone"`
	Email                   *string    `json:"email"`
	RelationshipWithTheFact string     `json:"relationship_with_the_fact"`
	Transcription           *string    `json:"transcription"`
	LocalID                 *string    `json:"local_id"`
	CollectedAt             *time.Time `json:"collected_at"`
	ReceivedAt              *time.Time `json:"received_at"`
	SyncStatus              *string    `json:"sync_status"`
	CreatedAt               time.Time  `json:"created_at"`
}

func optional(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

// Value returns the stored value of a catalogue field, nil when NULL or
// unknown.
func (r *Record) Value(field string) any {
	if p := r.nullable(field); p != nil {
		return optional(*p)
	}
	switch field {
	case fields.DateAndTimeOfEvent:
		return r.DateAndTimeOfEvent
	case fields.PlaceOfTheFact:
		return r.PlaceOfTheFact
	case fields.TypeOfOccurrence:
		return r.TypeOfOccurrence
	case fields.FullName:
		return r.FullName
	case fields.RelationshipWithTheFact:
		return r.RelationshipWithTheFact
	}
	return nil
}

func (r *Record) nullable(field string) **string {
	switch field {
	case fields.CpfOrRg:
		return &r.CpfOrRg
	case fields.DateOfBirth:
		return &r.DateOfBirth
	case fields.Gender:
		return &r.Gender
	case fields.Nationality:
		return &r.Nationality
	case fields.MaritalStatus:
		return &r.MaritalStatus
	case fields.Profession:
		return &r.Profession
	case fields.FullAddress:
		return &r.FullAddress
	case fields.PhoneOrCellPhone:
		return &r.PhoneOrCellPhone
	case fields.Email:
		return &r.Email
	case fields.Transcription:
		return &r.Transcription
	}
	return nil
}

// Snapshot is the part of a record kept in the audit log on delete.
type Snapshot struct {
	ID                      string    `json:"id"`
	DateAndTimeOfEvent      time.Time `json:"date_and_time_of_event"`
	PlaceOfTheFact          string    `json:"place_of_the_fact"`
	TypeOfOccurrence        string    `json:"type_of_occurrence"`
	FullName                string    `json:"full_name"`
	RelationshipWithTheFact string    `json:"relationship_with_the_fact"`
	CreatedAt               time.Time `json:"created_at"`
}

func (r *Record) Snapshot() Snapshot {
	return Snapshot{
		ID:                      r.ID,
		DateAndTimeOfEvent:      r.DateAndTimeOfEvent,
		PlaceOfTheFact:          r.PlaceOfTheFact,
		TypeOfOccurrence:        r.TypeOfOccurrence,
		FullName:                r.FullName,
		RelationshipWithTheFact: r.RelationshipWithTheFact,
		CreatedAt:               r.CreatedAt,
	}
}
