package executor

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// runUnitTx wraps one migration unit in a transaction. The configured
// lock and statement timeouts are applied before any of the unit's SQL
// runs, and a failed unit rolls back as a whole, ledger advance
// included, so the database never lands between snapshot versions.
func (e *Executor) runUnitTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := e.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning unit transaction: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // rollback on committed tx returns ErrTxClosed

	if e.lockTimeout > 0 {
		if err := SetLockTimeout(ctx, tx, e.lockTimeout); err != nil {
			return err
		}
	}

	if e.statementTimeout > 0 {
		if err := SetStatementTimeout(ctx, tx, e.statementTimeout); err != nil {
			return err
		}
	}

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing unit transaction: %w", err)
	}

	return nil
}
