// Package postgres implements the store interfaces on PostgreSQL. Uniqueness
// lives in constraints, the cascade delete in foreign keys, and the
// registration unit in a transaction, so the database enforces the same
// invariants the in-memory implementation guards with its lock.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"vaxcard/pkg/platform/sentinel"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// Schema is applied at startup; every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS people (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	document TEXT NOT NULL UNIQUE,
	sex TEXT NOT NULL,
	age INTEGER NOT NULL CHECK (age >= 0 AND age <= 130),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vaccines (
	id UUID PRIMARY KEY,
	name TEXT NOT NULL,
	code TEXT NOT NULL UNIQUE,
	allowed_doses TEXT[] NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vaccinations (
	id UUID PRIMARY KEY,
	person_id UUID NOT NULL REFERENCES people(id) ON DELETE CASCADE,
	vaccine_id UUID NOT NULL REFERENCES vaccines(id) ON DELETE CASCADE,
	dose TEXT NOT NULL,
	applied_at DATE NOT NULL,
	lot TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT uq_person_vaccine_dose UNIQUE (person_id, vaccine_id, dose)
);

CREATE INDEX IF NOT EXISTS idx_vaccinations_person ON vaccinations (person_id);

CREATE TABLE IF NOT EXISTS audit_events (
	id UUID PRIMARY KEY,
	action TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	request_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// queryer abstracts *sql.DB and *sql.Tx so stores run inside or outside a
// transaction unchanged.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// translateError maps driver errors to sentinel errors: unique violations
// become conflicts, foreign-key violations mean a referenced row is gone.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return sentinel.ErrConflict
		case "23503":
			return sentinel.ErrNotFound
		}
	}
	return err
}
