package person

import (
	"strings"
	"time"

	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
)

const maxAge = 130

// Person is a registered card holder.
//
// Invariants:
//   - Name is non-empty
//   - Document is non-empty and unique across all people
//   - Sex is one of the supported enum values
//   - Age is in [0, 130]
//
// Deleting a person cascades to every vaccination record referencing it;
// both succeed or both fail, enforced by the store.
type Person struct {
	ID        id.PersonID `json:"id"`
	Name      string      `json:"name"`
	Document  string      `json:"document"`
	Sex       id.Sex      `json:"sex"`
	Age       int         `json:"age"`
	CreatedAt time.Time   `json:"created_at"`
}

// New validates invariants and constructs a Person.
func New(personID id.PersonID, name, document string, sex id.Sex, age int, now time.Time) (*Person, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person name cannot be empty")
	}
	if document == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person document cannot be empty")
	}
	if !sex.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person sex must be F, M or O")
	}
	if age < 0 || age > maxAge {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "person age must be between 0 and 130")
	}
	return &Person{
		ID:        personID,
		Name:      name,
		Document:  document,
		Sex:       sex,
		Age:       age,
		CreatedAt: now,
	}, nil
}

// CreateRequest is the inbound payload for registering a person.
type CreateRequest struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Sex      string `json:"sex"`
	Age      int    `json:"age"`
}

// Normalize trims whitespace before validation.
func (r *CreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Document = strings.TrimSpace(r.Document)
	r.Sex = strings.ToUpper(strings.TrimSpace(r.Sex))
}
