package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"vaxcard/internal/vaccination"
	id "vaxcard/pkg/domain"
	"vaxcard/pkg/platform/sentinel"
)

// VaccinationStore implements vaccination.Store on PostgreSQL. It runs
// against a queryer so the same store works on the pool and inside a
// transaction started by VaccinationTx.
type VaccinationStore struct {
	q queryer
}

func NewVaccinationStore(db *sql.DB) *VaccinationStore {
	return &VaccinationStore{q: db}
}

func (s *VaccinationStore) Create(ctx context.Context, r *vaccination.Record) error {
	query := `
		INSERT INTO vaccinations (id, person_id, vaccine_id, dose, applied_at, lot, location, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.q.ExecContext(ctx, query,
		uuid.UUID(r.ID), uuid.UUID(r.PersonID), uuid.UUID(r.VaccineID),
		string(r.Dose), r.AppliedAt.Time(), r.Lot, r.Location, r.CreatedAt,
	)
	if err != nil {
		if translated := translateError(err); errors.Is(translated, sentinel.ErrConflict) || errors.Is(translated, sentinel.ErrNotFound) {
			return translated
		}
		return fmt.Errorf("insert vaccination: %w", err)
	}
	return nil
}

func (s *VaccinationStore) FindByID(ctx context.Context, recordID id.RecordID) (*vaccination.Record, error) {
	query := `
		SELECT id, person_id, vaccine_id, dose, applied_at, lot, location, created_at
		FROM vaccinations WHERE id = $1
	`
	r, err := scanRecord(s.q.QueryRowContext(ctx, query, uuid.UUID(recordID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *VaccinationStore) ListByPerson(ctx context.Context, personID id.PersonID) ([]*vaccination.Record, error) {
	query := `
		SELECT id, person_id, vaccine_id, dose, applied_at, lot, location, created_at
		FROM vaccinations WHERE person_id = $1
		ORDER BY applied_at, created_at
	`
	return s.listRecords(ctx, query, uuid.UUID(personID))
}

func (s *VaccinationStore) ListByPersonAndVaccine(ctx context.Context, personID id.PersonID, vaccineID id.VaccineID) ([]*vaccination.Record, error) {
	query := `
		SELECT id, person_id, vaccine_id, dose, applied_at, lot, location, created_at
		FROM vaccinations WHERE person_id = $1 AND vaccine_id = $2
		ORDER BY applied_at, created_at
	`
	return s.listRecords(ctx, query, uuid.UUID(personID), uuid.UUID(vaccineID))
}

func (s *VaccinationStore) Delete(ctx context.Context, recordID id.RecordID) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM vaccinations WHERE id = $1`, uuid.UUID(recordID))
	if err != nil {
		return fmt.Errorf("delete vaccination: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vaccination: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *VaccinationStore) listRecords(ctx context.Context, query string, args ...any) ([]*vaccination.Record, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vaccinations: %w", err)
	}
	defer rows.Close()

	var records []*vaccination.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanRecord(scanner rowScanner) (*vaccination.Record, error) {
	var (
		r                      vaccination.Record
		rawID, personID, vacID uuid.UUID
		dose                   string
		appliedAt              time.Time
	)
	err := scanner.Scan(&rawID, &personID, &vacID, &dose, &appliedAt, &r.Lot, &r.Location, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan vaccination: %w", err)
	}
	r.ID = id.RecordID(rawID)
	r.PersonID = id.PersonID(personID)
	r.VaccineID = id.VaccineID(vacID)
	r.Dose = id.Dose(dose)
	r.AppliedAt = id.DateOf(appliedAt)
	return &r, nil
}
