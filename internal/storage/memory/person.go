package memory

import (
	"context"
	"sort"

	"vaxcard/internal/person"
	id "vaxcard/pkg/domain"
	"vaxcard/pkg/platform/sentinel"
)

// PersonStore implements person.Store over the shared DB.
type PersonStore struct {
	db *DB
}

func NewPersonStore(db *DB) *PersonStore {
	return &PersonStore{db: db}
}

func (s *PersonStore) Create(_ context.Context, p *person.Person) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, taken := s.db.documents[p.Document]; taken {
		return sentinel.ErrConflict
	}
	s.db.people[p.ID] = copyPerson(p)
	s.db.documents[p.Document] = p.ID
	return nil
}

func (s *PersonStore) FindByID(_ context.Context, personID id.PersonID) (*person.Person, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	p, ok := s.db.people[personID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return copyPerson(p), nil
}

func (s *PersonStore) List(_ context.Context) ([]*person.Person, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()
	people := make([]*person.Person, 0, len(s.db.people))
	for _, p := range s.db.people {
		people = append(people, copyPerson(p))
	}
	sort.Slice(people, func(i, j int) bool {
		if !people[i].CreatedAt.Equal(people[j].CreatedAt) {
			return people[i].CreatedAt.Before(people[j].CreatedAt)
		}
		return people[i].Name < people[j].Name
	})
	return people, nil
}

// Delete removes the person and every record referencing it while holding
// the write lock, so readers never observe a half-completed cascade.
func (s *PersonStore) Delete(_ context.Context, personID id.PersonID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	p, ok := s.db.people[personID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.db.people, personID)
	delete(s.db.documents, p.Document)
	for recordID, rec := range s.db.records {
		if rec.PersonID == personID {
			delete(s.db.records, recordID)
			delete(s.db.triples, tripleKey{person: rec.PersonID, vaccine: rec.VaccineID, dose: rec.Dose})
		}
	}
	return nil
}
