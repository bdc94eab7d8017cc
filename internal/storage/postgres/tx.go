package postgres

import (
	"context"
	"database/sql"
	"time"

	"vaxcard/internal/vaccination"
	dErrors "vaxcard/pkg/domain-errors"
)

const defaultTxTimeout = 5 * time.Second

// VaccinationTx implements vaccination.Tx. The callback's store issues
// its statements through the transaction, so the read-validate-write of
// a registration commits or rolls back as a unit.
type VaccinationTx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewVaccinationTx(db *sql.DB) *VaccinationTx {
	return &VaccinationTx{db: db}
}

func (t *VaccinationTx) RunInTx(ctx context.Context, fn func(store vaccination.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&VaccinationStore{q: tx}); err != nil {
		return err
	}

	return tx.Commit()
}
