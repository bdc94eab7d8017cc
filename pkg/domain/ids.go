package domain

import (
	"github.com/google/uuid"

	dErrors "vaxcard/pkg/domain-errors"
)

// Typed UUIDs keep person, vaccine, and record identifiers from being mixed
// up at compile time. Construct from external input via the Parse helpers so
// the non-nil invariant is enforced at trust boundaries.
type (
	PersonID  uuid.UUID
	VaccineID uuid.UUID
	RecordID  uuid.UUID
)

func NewPersonID() PersonID   { return PersonID(uuid.New()) }
func NewVaccineID() VaccineID { return VaccineID(uuid.New()) }
func NewRecordID() RecordID   { return RecordID(uuid.New()) }

func (id PersonID) String() string  { return uuid.UUID(id).String() }
func (id VaccineID) String() string { return uuid.UUID(id).String() }
func (id RecordID) String() string  { return uuid.UUID(id).String() }

func (id PersonID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id VaccineID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParsePersonID constructs a PersonID from external input.
func ParsePersonID(s string) (PersonID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return PersonID{}, err
	}
	return PersonID(u), nil
}

// ParseVaccineID constructs a VaccineID from external input.
func ParseVaccineID(s string) (VaccineID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return VaccineID{}, err
	}
	return VaccineID(u), nil
}

// ParseRecordID constructs a RecordID from external input.
func ParseRecordID(s string) (RecordID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return RecordID{}, err
	}
	return RecordID(u), nil
}

// MarshalText renders the ID as its canonical UUID string in JSON.
func (id PersonID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *PersonID) UnmarshalText(b []byte) error {
	parsed, err := ParsePersonID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id VaccineID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *VaccineID) UnmarshalText(b []byte) error {
	parsed, err := ParseVaccineID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id RecordID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *RecordID) UnmarshalText(b []byte) error {
	parsed, err := ParseRecordID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
