package vaccination

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"vaxcard/internal/person"
	"vaxcard/internal/platform/metrics"
	"vaxcard/internal/platform/middleware"
	"vaxcard/internal/vaccination/rules"
	"vaxcard/internal/vaccine"
	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
	"vaxcard/pkg/platform/audit"
	"vaxcard/pkg/platform/sentinel"
)

// Store persists vaccination records.
type Store interface {
	Create(ctx context.Context, record *Record) error
	FindByID(ctx context.Context, recordID id.RecordID) (*Record, error)
	ListByPerson(ctx context.Context, personID id.PersonID) ([]*Record, error)
	ListByPersonAndVaccine(ctx context.Context, personID id.PersonID, vaccineID id.VaccineID) ([]*Record, error)
	Delete(ctx context.Context, recordID id.RecordID) error
}

// Tx runs "read existing records, validate, write" as one atomic unit so the
// uniqueness and sequence checks see a consistent snapshot. The postgres
// implementation wraps a transaction; the in-memory one holds the store lock.
type Tx interface {
	RunInTx(ctx context.Context, fn func(store Store) error) error
}

// VaccineDirectory resolves vaccines and their allowed dose sets. The
// vaccine service satisfies it directly.
type VaccineDirectory interface {
	Get(ctx context.Context, vaccineID id.VaccineID) (*vaccine.Vaccine, error)
}

// PersonDirectory confirms person existence. The person service satisfies it
// directly.
type PersonDirectory interface {
	Get(ctx context.Context, personID id.PersonID) (*person.Person, error)
}

// CardInvalidator drops cached card projections after a mutation.
type CardInvalidator interface {
	InvalidatePerson(ctx context.Context, personID id.PersonID)
}

// AuditPublisher records domain mutations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates vaccination registration and removal.
type Service struct {
	tx       Tx
	store    Store
	people   PersonDirectory
	vaccines VaccineDirectory

	rejectFutureDates bool

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

// WithFutureDateRejection toggles the date-sanity check for future dates.
func WithFutureDateRejection(enabled bool) Option {
	return func(s *Service) { s.rejectFutureDates = enabled }
}

// NewService constructs a Service.
func NewService(tx Tx, store Store, people PersonDirectory, vaccines VaccineDirectory, opts ...Option) *Service {
	s := &Service{
		tx:                tx,
		store:             store,
		people:            people,
		vaccines:          vaccines,
		rejectFutureDates: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates and persists a vaccination record. enforceSequence is a
// request-level flag, on by default, that requires doses to arrive in
// canonical order for the (person, vaccine) pair.
func (s *Service) Register(ctx context.Context, req RegisterRequest, enforceSequence bool) (*Record, error) {
	req.Normalize()

	personID, err := id.ParsePersonID(req.PersonID)
	if err != nil {
		return nil, err
	}
	vaccineID, err := id.ParseVaccineID(req.VaccineID)
	if err != nil {
		return nil, err
	}
	dose, err := id.ParseDose(req.Dose)
	if err != nil {
		return nil, err
	}
	appliedAt, err := id.ParseDate(req.AppliedAt)
	if err != nil {
		return nil, dErrors.WithReason(dErrors.CodeValidation, rules.ReasonInvalidDate,
			"applied_at must be a valid YYYY-MM-DD calendar date")
	}

	if _, err := s.people.Get(ctx, personID); err != nil {
		return nil, err
	}
	vac, err := s.vaccines.Get(ctx, vaccineID)
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:        id.NewRecordID(),
		PersonID:  personID,
		VaccineID: vaccineID,
		Dose:      dose,
		AppliedAt: appliedAt,
		Lot:       req.Lot,
		Location:  req.Location,
		CreatedAt: time.Now().UTC(),
	}

	err = s.tx.RunInTx(ctx, func(store Store) error {
		existing, err := store.ListByPersonAndVaccine(ctx, personID, vaccineID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load existing records")
		}
		doses := make([]id.Dose, len(existing))
		for i, rec := range existing {
			doses[i] = rec.Dose
		}

		if err := rules.Evaluate(rules.Proposal{Dose: dose, AppliedAt: appliedAt}, doses, vac.AllowedDoses, rules.Options{
			EnforceSequence:   enforceSequence,
			RejectFutureDates: s.rejectFutureDates,
		}); err != nil {
			return err
		}

		return store.Create(ctx, record)
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			s.countRejection(err)
			return nil, err
		}
		// A concurrent registration can slip past validation; the store
		// unique constraint is the backstop.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "dose already recorded for this person and vaccine")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "person or vaccine no longer exists")
		}
		if dErrors.HasCode(err, dErrors.CodeInternal) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register vaccination")
	}

	if s.cardCache != nil {
		s.cardCache.InvalidatePerson(ctx, personID)
	}
	s.logAudit(ctx, audit.EventVaccinationRegistered, record.ID.String())
	if s.metrics != nil {
		s.metrics.VaccinationsRegistered.Inc()
	}
	return record, nil
}

// Get returns a vaccination record by id.
func (s *Service) Get(ctx context.Context, recordID id.RecordID) (*Record, error) {
	rec, err := s.store.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "vaccination record not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vaccination record")
	}
	return rec, nil
}

// Delete removes a single vaccination record.
func (s *Service) Delete(ctx context.Context, recordID id.RecordID) error {
	rec, err := s.store.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "vaccination record not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vaccination record")
	}
	if err := s.store.Delete(ctx, recordID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "vaccination record not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete vaccination record")
	}

	if s.cardCache != nil {
		s.cardCache.InvalidatePerson(ctx, rec.PersonID)
	}
	s.logAudit(ctx, audit.EventVaccinationDeleted, recordID.String())
	if s.metrics != nil {
		s.metrics.VaccinationsDeleted.Inc()
	}
	return nil
}

func (s *Service) countRejection(err error) {
	if s.metrics == nil {
		return
	}
	reason := dErrors.Reason(err)
	if reason == "" {
		reason = "unknown"
	}
	s.metrics.VaccinationsRejected.WithLabelValues(reason).Inc()
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
		EntityType: "vaccination",
		EntityID:   entityID,
		RequestID:  requestID,
	})
}
