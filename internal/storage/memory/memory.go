// Package memory implements every store interface over one shared in-memory
// database. A single lock makes the cascade delete and the
// read-validate-write registration unit atomic, matching what the postgres
// implementation gets from transactions and foreign keys.
package memory

import (
	"sync"

	"vaxcard/internal/person"
	"vaxcard/internal/vaccination"
	"vaxcard/internal/vaccine"
	id "vaxcard/pkg/domain"
)

type tripleKey struct {
	person  id.PersonID
	vaccine id.VaccineID
	dose    id.Dose
}

// DB is the shared in-memory state. It intentionally favors clarity over
// performance.
type DB struct {
	mu        sync.RWMutex
	people    map[id.PersonID]*person.Person
	vaccines  map[id.VaccineID]*vaccine.Vaccine
	records   map[id.RecordID]*vaccination.Record
	documents map[string]id.PersonID
	codes     map[string]id.VaccineID
	triples   map[tripleKey]id.RecordID
}

// NewDB creates an empty in-memory database.
func NewDB() *DB {
	return &DB{
		people:    make(map[id.PersonID]*person.Person),
		vaccines:  make(map[id.VaccineID]*vaccine.Vaccine),
		records:   make(map[id.RecordID]*vaccination.Record),
		documents: make(map[string]id.PersonID),
		codes:     make(map[string]id.VaccineID),
		triples:   make(map[tripleKey]id.RecordID),
	}
}

func copyPerson(p *person.Person) *person.Person {
	cp := *p
	return &cp
}

func copyVaccine(v *vaccine.Vaccine) *vaccine.Vaccine {
	cp := *v
	cp.AllowedDoses = append([]id.Dose{}, v.AllowedDoses...)
	return &cp
}

func copyRecord(r *vaccination.Record) *vaccination.Record {
	cp := *r
	return &cp
}
