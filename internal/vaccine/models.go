package vaccine

import (
	"strings"
	"time"

	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
)

// Vaccine is a catalog entry.
//
// Invariants:
//   - Name is non-empty
//   - Code is a non-empty slug, unique across the catalog
//   - AllowedDoses is a non-empty subset of the canonical labels, kept in
//     canonical order
type Vaccine struct {
	ID           id.VaccineID `json:"id"`
	Name         string       `json:"name"`
	Code         string       `json:"code"`
	AllowedDoses []id.Dose    `json:"allowed_doses"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Allows reports whether the dose is in the vaccine's allowed set.
func (v *Vaccine) Allows(dose id.Dose) bool {
	for _, d := range v.AllowedDoses {
		if d == dose {
			return true
		}
	}
	return false
}

// New validates invariants and constructs a Vaccine. An empty allowed set
// defaults to all five canonical doses.
func New(vaccineID id.VaccineID, name, code string, allowed []id.Dose, now time.Time) (*Vaccine, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vaccine name cannot be empty")
	}
	if code == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "vaccine code cannot be empty")
	}
	if len(allowed) == 0 {
		allowed = append([]id.Dose{}, id.DoseOrder...)
	}
	return &Vaccine{
		ID:           vaccineID,
		Name:         name,
		Code:         code,
		AllowedDoses: allowed,
		CreatedAt:    now,
	}, nil
}

// CreateRequest is the inbound payload for registering a vaccine.
type CreateRequest struct {
	Name         string   `json:"name"`
	Code         string   `json:"code"`
	AllowedDoses []string `json:"allowed_doses,omitempty"`
}

// Normalize trims whitespace and lowercases the code slug.
func (r *CreateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.ToLower(strings.TrimSpace(r.Code))
}
