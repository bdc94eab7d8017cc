package memory

import (
	"context"
	"sort"

	"vaxcard/internal/vaccine"
	id "vaxcard/pkg/domain"
	"vaxcard/pkg/platform/sentinel"
)

// VaccineStore implements vaccine.Store over the shared DB.
type VaccineStore struct {
	db *DB
}

func NewVaccineStore(db *DB) *VaccineStore {
	return &VaccineStore{db: db}
}

func (s *VaccineStore) Create(_ context.Context, v *vaccine.Vaccine) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, taken := s.db.codes[v.Code]; taken {
		return sentinel.ErrConflict
	}
	s.db.vaccines[v.ID] = copyVaccine(v)
	s.db.codes[v.Code] = v.ID
	return nil
}

func (s *VaccineStore) FindByID(_ context.Context, vaccineID id.VaccineID) (*vaccine.Vaccine, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	v, ok := s.db.vaccines[vaccineID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyVaccine(v), nil
}

func (s *VaccineStore) List(_ context.Context) ([]*vaccine.Vaccine, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	vaccines := make([]*vaccine.Vaccine, 0, len(s.db.vaccines))
	for _, v := range s.db.vaccines {
		vaccines = append(vaccines, copyVaccine(v))
	}
	sort.Slice(vaccines, func(i, j int) bool { return vaccines[i].Name < vaccines[j].Name })
	return vaccines, nil
}

// Delete removes the vaccine and its records under one write lock.
func (s *VaccineStore) Delete(_ context.Context, vaccineID id.VaccineID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	v, ok := s.db.vaccines[vaccineID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.db.vaccines, vaccineID)
	delete(s.db.codes, v.Code)
	for recordID, rec := range s.db.records {
		if rec.VaccineID == vaccineID {
			delete(s.db.records, recordID)
			delete(s.db.triples, tripleKey{person: rec.PersonID, vaccine: rec.VaccineID, dose: rec.Dose})
		}
	}
	return nil
}
