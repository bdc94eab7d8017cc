package memory

import (
	"context"
	"sort"

	"vaxcard/internal/vaccination"
	id "vaxcard/pkg/domain"
	"vaxcard/pkg/platform/sentinel"
)

// VaccinationStore implements vaccination.Store over the shared DB. The
// locked field marks a store handed out by the Tx runner, which already
// holds the write lock for the whole unit.
type VaccinationStore struct {
	db     *DB
	locked bool
}

func NewVaccinationStore(db *DB) *VaccinationStore {
	return &VaccinationStore{db: db}
}

// VaccinationTx implements vaccination.Tx by holding the DB write lock for
// the whole read-validate-write unit, so uniqueness and sequence checks see
// a consistent snapshot.
type VaccinationTx struct {
	db *DB
}

func NewVaccinationTx(db *DB) *VaccinationTx {
	return &VaccinationTx{db: db}
}

func (t *VaccinationTx) RunInTx(_ context.Context, fn func(store vaccination.Store) error) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	return fn(&VaccinationStore{db: t.db, locked: true})
}

func (s *VaccinationStore) Create(_ context.Context, rec *vaccination.Record) error {
	if !s.locked {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
	}
	if _, exists := s.db.people[rec.PersonID]; !exists {
		return sentinel.ErrNotFound
	}
	if _, exists := s.db.vaccines[rec.VaccineID]; !exists {
		return sentinel.ErrNotFound
	}
	key := tripleKey{person: rec.PersonID, vaccine: rec.VaccineID, dose: rec.Dose}
	if _, taken := s.db.triples[key]; taken {
		return sentinel.ErrConflict
	}
	s.db.records[rec.ID] = copyRecord(rec)
	s.db.triples[key] = rec.ID
	return nil
}

func (s *VaccinationStore) FindByID(_ context.Context, recordID id.RecordID) (*vaccination.Record, error) {
	if !s.locked {
		s.db.mu.RLock()
		defer s.db.mu.RUnlock()
	}
	rec, ok := s.db.records[recordID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyRecord(rec), nil
}

func (s *VaccinationStore) ListByPerson(_ context.Context, personID id.PersonID) ([]*vaccination.Record, error) {
	if !s.locked {
		s.db.mu.RLock()
		defer s.db.mu.RUnlock()
	}
	var records []*vaccination.Record
	for _, rec := range s.db.records {
		if rec.PersonID == personID {
			records = append(records, copyRecord(rec))
		}
	}
	sortRecords(records)
	return records, nil
}

func (s *VaccinationStore) ListByPersonAndVaccine(_ context.Context, personID id.PersonID, vaccineID id.VaccineID) ([]*vaccination.Record, error) {
	if !s.locked {
		s.db.mu.RLock()
		defer s.db.mu.RUnlock()
	}
	var records []*vaccination.Record
	for _, rec := range s.db.records {
		if rec.PersonID == personID && rec.VaccineID == vaccineID {
			records = append(records, copyRecord(rec))
		}
	}
	sortRecords(records)
	return records, nil
}

func (s *VaccinationStore) Delete(_ context.Context, recordID id.RecordID) error {
	if !s.locked {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
	}
	rec, ok := s.db.records[recordID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.db.records, recordID)
	delete(s.db.triples, tripleKey{person: rec.PersonID, vaccine: rec.VaccineID, dose: rec.Dose})
	return nil
}

func sortRecords(records []*vaccination.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].AppliedAt.Time().Equal(records[j].AppliedAt.Time()) {
			return records[i].AppliedAt.Time().Before(records[j].AppliedAt.Time())
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}
