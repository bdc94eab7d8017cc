package audit

import (
	"context"
	"time"
)

// Event is emitted from domain logic to capture key mutations. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time
	Action     string
	EntityType string
	EntityID   string
	RequestID  string
}

// Actions recorded by the services.
const (
	EventPersonCreated         = "person_created"
	EventPersonDeleted         = "person_deleted"
	EventVaccineCreated        = "vaccine_created"
	EventVaccineDeleted        = "vaccine_deleted"
	EventVaccinationRegistered = "vaccination_registered"
	EventVaccinationDeleted    = "vaccination_deleted"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}
