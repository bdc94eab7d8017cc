package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"vaxcard/internal/vaccine"
	id "vaxcard/pkg/domain"
	"vaxcard/pkg/platform/sentinel"
)

// VaccineStore implements vaccine.Store on PostgreSQL.
type VaccineStore struct {
	db *sql.DB
}

func NewVaccineStore(db *sql.DB) *VaccineStore {
	return &VaccineStore{db: db}
}

func (s *VaccineStore) Create(ctx context.Context, v *vaccine.Vaccine) error {
	doses := make([]string, len(v.AllowedDoses))
	for i, d := range v.AllowedDoses {
		doses[i] = string(d)
	}
	query := `
		INSERT INTO vaccines (id, name, code, allowed_doses, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(v.ID), v.Name, v.Code, pq.Array(doses), v.CreatedAt,
	)
	if err != nil {
		if translated := translateError(err); errors.Is(translated, sentinel.ErrConflict) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert vaccine: %w", err)
	}
	return nil
}

func (s *VaccineStore) FindByID(ctx context.Context, vaccineID id.VaccineID) (*vaccine.Vaccine, error) {
	query := `
		SELECT id, name, code, allowed_doses, created_at
		FROM vaccines WHERE id = $1
	`
	v, err := scanVaccine(s.db.QueryRowContext(ctx, query, uuid.UUID(vaccineID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *VaccineStore) List(ctx context.Context) ([]*vaccine.Vaccine, error) {
	query := `
		SELECT id, name, code, allowed_doses, created_at
		FROM vaccines ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vaccines: %w", err)
	}
	defer rows.Close()

	var vaccines []*vaccine.Vaccine
	for rows.Next() {
		v, err := scanVaccine(rows)
		if err != nil {
			return nil, err
		}
		vaccines = append(vaccines, v)
	}
	return vaccines, rows.Err()
}

// Delete relies on ON DELETE CASCADE for the vaccine's records.
func (s *VaccineStore) Delete(ctx context.Context, vaccineID id.VaccineID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM vaccines WHERE id = $1`, uuid.UUID(vaccineID))
	if err != nil {
		return fmt.Errorf("delete vaccine: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vaccine: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanVaccine(scanner rowScanner) (*vaccine.Vaccine, error) {
	var (
		v     vaccine.Vaccine
		rawID uuid.UUID
		doses pq.StringArray
	)
	if err := scanner.Scan(&rawID, &v.Name, &v.Code, &doses, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan vaccine: %w", err)
	}
	v.ID = id.VaccineID(rawID)
	v.AllowedDoses = make([]id.Dose, len(doses))
	for i, d := range doses {
		v.AllowedDoses[i] = id.Dose(d)
	}
	return &v, nil
}
