// Package fields owns the static catalogue of record fields and the pure
// transforms applied to client payloads before they reach storage: ordered
// patch parsing, validation and sanitization of partial updates.
//
// The required/nullable classification lives here, not in the database
// schema, so the sanitizer can be exercised with literal inputs.
package fields

// Kind selects the normalization applied to a field value.
type Kind int

const (
	Text Kind = iota
	// Date values are stored as YYYY-MM-DD; timestamps are truncated.
	Date
	// Timestamp values are RFC 3339 instants.
	Timestamp
)

// Field describes one writable record column.
type Field struct {
	Name     string
	Required bool
	Kind     Kind
	// Rule is a validator tag applied to non-empty values.
	Rule string
}

const (
	DateAndTimeOfEvent      = "date_and_time_of_event"
	PlaceOfTheFact          = "place_of_the_fact"
	TypeOfOccurrence        = "type_of_occurrence"
	FullName                = "full_name"
	CpfOrRg                 = "cpf_or_rg"
	DateOfBirth             = "date_of_birth"
	Gender                  = "gender"
	Nationality             = "nationality"
	MaritalStatus           = "marital_status"
	Profession              = "profession"
	FullAddress             = "full_address"
	PhoneOrCellPhone        = "phone_or_cell_phone"
	Email                   = "email"
	RelationshipWithTheFact = "relationship_with_the_fact"
	Transcription           = "transcription"
)

const timestampRule = "datetime=2006-01-02T15:04:05Z07:00"

// Catalog lists the writable record fields in display order.
var Catalog = []Field{
	{Name: DateAndTimeOfEvent, Required: true, Kind: Timestamp, Rule: timestampRule},
	{Name: PlaceOfTheFact, Required: true},
	{Name: TypeOfOccurrence, Required: true},
	{Name: FullName, Required: true},
	{Name: CpfOrRg},
	{Name: DateOfBirth, Kind: Date, Rule: "dateish"},
	{Name: Gender},
	{Name: Nationality},
	{Name: MaritalStatus},
	{Name: Profession},
	{Name: FullAddress},
	{Name: PhoneOrCellPhone},
	{Name: Email, Rule: "email"},
	{Name: RelationshipWithTheFact, Required: true},
	{Name: Transcription},
}

var byName = func() map[string]Field {
	m := make(map[string]Field, len(Catalog))
	for _, f := range Catalog {
		m[f.Name] = f
	}
	return m
}()

// Lookup returns the catalogue entry for name.
func Lookup(name string) (Field, bool) {
	f, ok := byName[name]
	return f, ok
}

// IsRequired reports whether name is a known field that may never be cleared.
func IsRequired(name string) bool {
	return byName[name].Required
}
