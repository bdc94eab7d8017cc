package vaccination

import (
	"strings"
	"time"

	id "vaxcard/pkg/domain"
)

// Record is one applied dose of one vaccine for one person.
//
// Invariant: the triple (PersonID, VaccineID, Dose) is unique; a person
// cannot hold two records for the same vaccine at the same dose level. The
// store enforces this at write time; the validation engine rejects the
// common case before the write.
type Record struct {
	ID        id.RecordID  `json:"id"`
	PersonID  id.PersonID  `json:"person_id"`
	VaccineID id.VaccineID `json:"vaccine_id"`
	Dose      id.Dose      `json:"dose"`
	AppliedAt id.Date      `json:"applied_at"`
	Lot       string       `json:"lot,omitempty"`
	Location  string       `json:"location,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// RegisterRequest is the inbound payload for registering a vaccination.
type RegisterRequest struct {
	PersonID  string `json:"person_id"`
	VaccineID string `json:"vaccine_id"`
	Dose      string `json:"dose"`
	AppliedAt string `json:"applied_at"`
	Lot       string `json:"lot,omitempty"`
	Location  string `json:"location,omitempty"`
}

// Normalize trims free-text fields.
func (r *RegisterRequest) Normalize() {
	r.Dose = strings.ToUpper(strings.TrimSpace(r.Dose))
	r.Lot = strings.TrimSpace(r.Lot)
	r.Location = strings.TrimSpace(r.Location)
}
