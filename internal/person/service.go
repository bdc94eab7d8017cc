package person

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vaxcard/internal/platform/metrics"
	"vaxcard/internal/platform/middleware"
	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
	"vaxcard/pkg/platform/audit"
	"vaxcard/pkg/platform/sentinel"
)

// Store persists people. Implementations return sentinel errors; the service
// translates them into domain errors.
type Store interface {
	Create(ctx context.Context, person *Person) error
	FindByID(ctx context.Context, personID id.PersonID) (*Person, error)
	List(ctx context.Context) ([]*Person, error)
	// Delete removes the person and every vaccination record referencing
	// it as one atomic unit.
	Delete(ctx context.Context, personID id.PersonID) error
}

// CardInvalidator drops cached card projections after a mutation.
type CardInvalidator interface {
	InvalidatePerson(ctx context.Context, personID id.PersonID)
}

// AuditPublisher records domain mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates person registration and removal.
type Service struct {
	store     Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	auditor   AuditPublisher
	cardCache CardInvalidator
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) { s.auditor = publisher }
}

func WithCardInvalidator(inv CardInvalidator) Option {
	return func(s *Service) { s.cardCache = inv }
}

// NewService constructs a Service.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create registers a person. A duplicate document surfaces as a conflict,
// distinct from a validation rejection.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Person, error) {
	req.Normalize()

	sex, err := id.ParseSex(req.Sex)
	if err != nil {
		return nil, err
	}

	p, err := New(id.NewPersonID(), req.Name, req.Document, sex, req.Age, time.Now().UTC())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.Create(ctx, p); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "document already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create person")
	}

	s.logAudit(ctx, audit.EventPersonCreated, p.ID.String())
	if s.metrics != nil {
		s.metrics.PeopleCreated.Inc()
	}
	return p, nil
}

// Get returns a person by id.
func (s *Service) Get(ctx context.Context, personID id.PersonID) (*Person, error) {
	p, err := s.store.FindByID(ctx, personID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load person")
	}
	return p, nil
}

// List returns all registered people.
func (s *Service) List(ctx context.Context) ([]*Person, error) {
	people, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list people")
	}
	return people, nil
}

// Delete removes a person and, atomically, all their vaccination records.
func (s *Service) Delete(ctx context.Context, personID id.PersonID) error {
	if err := s.store.Delete(ctx, personID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "person not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete person")
	}

	if s.cardCache != nil {
		s.cardCache.InvalidatePerson(ctx, personID)
	}
	s.logAudit(ctx, audit.EventPersonDeleted, personID.String())
	if s.metrics != nil {
		s.metrics.PeopleDeleted.Inc()
	}
	return nil
}

func (s *Service) logAudit(ctx context.Context, action, entityID string) {
	requestID := middleware.GetRequestID(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, action,
			"entity_id", entityID,
			"request_id", requestID,
			"log_type", "audit",
		)
	}
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Action:     action,
		EntityType: "person",
		EntityID:   entityID,
		RequestID:  requestID,
	})
}
