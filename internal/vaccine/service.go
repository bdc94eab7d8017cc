package vaccine

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

// Store persists the vaccine catalog.
type Store interface {
	Create(ctx context.Context, vaccine *Vaccine) error
	FindByID(ctx context.Context, vaccineID id.VaccineID) (*Vaccine, error)
	List(ctx context.Context) ([]*Vaccine, error)
	// Delete removes the vaccine and the vaccination records referencing
	// it as one atomic unit.
	Delete(ctx context.Context, vaccineID id.VaccineID) error
}

// CardInvalidator drops cached card projections after a mutation. Removing a
// vaccine can touch any person's card, so the whole cache goes.
type CardInvalidator interface {
	InvalidateAll(ctx context.Context)
}

// AuditPublisher records domain mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the vaccine catalog.
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

// Create registers a vaccine. A duplicate code surfaces as a conflict.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Vaccine, error) {
	req.Normalize()

	allowed, err := id.ParseDoses(req.AllowedDoses)
	if err != nil {
		return nil, err
	}

	v, err := New(id.NewVaccineID(), req.Name, req.Code, allowed, time.Now().UTC())
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, err
	}

	if err := s.store.Create(ctx, v); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "vaccine code already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create vaccine")
	}

	s.logAudit(ctx, audit.EventVaccineCreated, v.ID.String())
	if s.metrics != nil {
		s.metrics.VaccinesCreated.Inc()
	}
	return v, nil
}

// Get returns a vaccine by id.
func (s *Service) Get(ctx context.Context, vaccineID id.VaccineID) (*Vaccine, error) {
	v, err := s.store.FindByID(ctx, vaccineID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "vaccine not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vaccine")
	}
	return v, nil
}

// List returns the full catalog.
func (s *Service) List(ctx context.Context) ([]*Vaccine, error) {
	vaccines, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list vaccines")
	}
	return vaccines, nil
}

// Delete removes a vaccine from the catalog along with its records.
func (s *Service) Delete(ctx context.Context, vaccineID id.VaccineID) error {
	if err := s.store.Delete(ctx, vaccineID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "vaccine not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete vaccine")
	}

	if s.cardCache != nil {
		s.cardCache.InvalidateAll(ctx)
	}
	s.logAudit(ctx, audit.EventVaccineDeleted, vaccineID.String())
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
		EntityType: "vaccine",
		EntityID:   entityID,
		RequestID:  requestID,
	})
}
