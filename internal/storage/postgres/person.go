package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"vaxcard/internal/person"
	id "vaxcard/pkg/domain"
	"vaxcard/pkg/platform/sentinel"
)

// PersonStore implements person.Store on PostgreSQL.
type PersonStore struct {
	db *sql.DB
}

func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{db: db}
}

func (s *PersonStore) Create(ctx context.Context, p *person.Person) error {
	query := `
		INSERT INTO people (id, name, document, sex, age, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(p.ID), p.Name, p.Document, string(p.Sex), p.Age, p.CreatedAt,
	)
	if err != nil {
		if translated := translateError(err); errors.Is(translated, sentinel.ErrConflict) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (s *PersonStore) FindByID(ctx context.Context, personID id.PersonID) (*person.Person, error) {
	query := `
		SELECT id, name, document, sex, age, created_at
		FROM people WHERE id = $1
	`
	return scanPerson(s.db.QueryRowContext(ctx, query, uuid.UUID(personID)))
}

func (s *PersonStore) List(ctx context.Context) ([]*person.Person, error) {
	query := `
		SELECT id, name, document, sex, age, created_at
		FROM people ORDER BY created_at, name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []*person.Person
	for rows.Next() {
		p, err := scanPersonRow(rows)
		if err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// Delete relies on ON DELETE CASCADE so the person and their records go in
// one statement; readers never observe a partial cascade.
func (s *PersonStore) Delete(ctx context.Context, personID id.PersonID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, uuid.UUID(personID))
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(row *sql.Row) (*person.Person, error) {
	p, err := scanPersonRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPersonRow(scanner rowScanner) (*person.Person, error) {
	var (
		p        person.Person
		rawID    uuid.UUID
		rawSex   string
	)
	if err := scanner.Scan(&rawID, &p.Name, &p.Document, &rawSex, &p.Age, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan person: %w", err)
	}
	p.ID = id.PersonID(rawID)
	p.Sex = id.Sex(rawSex)
	return &p, nil
}
