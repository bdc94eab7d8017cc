package card

import (
	"context"
	"log/slog"

	"vaxcard/internal/person"
	"vaxcard/internal/platform/metrics"
	"vaxcard/internal/vaccination"
	"vaxcard/internal/vaccine"
	id "vaxcard/pkg/domain"
	dErrors "vaxcard/pkg/domain-errors"
)

// PersonDirectory resolves the card holder.
type PersonDirectory interface {
	Get(ctx context.Context, personID id.PersonID) (*person.Person, error)
}

// VaccineCatalog lists the vaccine catalog.
type VaccineCatalog interface {
	List(ctx context.Context) ([]*vaccine.Vaccine, error)
}

// RecordSource lists a person's vaccination records.
type RecordSource interface {
	ListByPerson(ctx context.Context, personID id.PersonID) ([]*vaccination.Record, error)
}

// Service serves card projections, optionally cached.
type Service struct {
	people  PersonDirectory
	catalog VaccineCatalog
	records RecordSource
	cache   *Cache
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithCache(cache *Cache) Option {
	return func(s *Service) { s.cache = cache }
}

// NewService constructs a Service.
func NewService(people PersonDirectory, catalog VaccineCatalog, records RecordSource, opts ...Option) *Service {
	s := &Service{people: people, catalog: catalog, records: records}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Matrix projects the dose × vaccine grid for one person. With all set the
// column set is the full catalog instead of only vaccines with records.
func (s *Service) Matrix(ctx context.Context, personID id.PersonID, all bool) (*Matrix, error) {
	p, err := s.people.Get(ctx, personID)
	if err != nil {
		return nil, err
	}

	key := matrixKey(personID, all)
	var cached Matrix
	if s.cache.get(ctx, key, &cached) {
		s.count("matrix")
		return &cached, nil
	}

	catalog, records, err := s.snapshot(ctx, personID)
	if err != nil {
		return nil, err
	}
	matrix := BuildMatrix(p, catalog, records, all)

	s.cache.set(ctx, key, matrix)
	s.count("matrix")
	return matrix, nil
}

// List projects the grouped card view for one person.
func (s *Service) List(ctx context.Context, personID id.PersonID) (*List, error) {
	p, err := s.people.Get(ctx, personID)
	if err != nil {
		return nil, err
	}

	key := listKey(personID)
	var cached List
	if s.cache.get(ctx, key, &cached) {
		s.count("list")
		return &cached, nil
	}

	catalog, records, err := s.snapshot(ctx, personID)
	if err != nil {
		return nil, err
	}
	list := BuildList(p, catalog, records)

	s.cache.set(ctx, key, list)
	s.count("list")
	return list, nil
}

func (s *Service) snapshot(ctx context.Context, personID id.PersonID) ([]*vaccine.Vaccine, []*vaccination.Record, error) {
	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.records.ListByPerson(ctx, personID)
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load vaccination records")
	}
	return catalog, records, nil
}

func (s *Service) count(format string) {
	if s.metrics != nil {
		s.metrics.CardProjections.WithLabelValues(format).Inc()
	}
}
