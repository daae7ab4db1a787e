// Package ledger manages the database-resident record of which
// snapshot version a live database instance has reached. The marker is
// a single row; it is created with the first apply, advanced
// monotonically inside each migration unit's transaction, and only ever
// decremented by a full reset.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TableName is the ledger table in the target database.
const TableName = "declmig_version"

// Uninitialized is the version reported when no ledger row exists.
// Every snapshot version is strictly greater, so a fresh database
// applies the full history.
const Uninitialized = -1

// createTableSQL is the DDL for the ledger marker.
const createTableSQL = `CREATE TABLE IF NOT EXISTS ` + TableName + ` (
    id       SERIAL PRIMARY KEY,
    version  INTEGER NOT NULL
)`

// Execer is the subset of pgx execution needed to advance the ledger.
// Both *pgxpool.Pool and pgx.Tx satisfy it, so an advance can join the
// migration unit's transaction.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Ledger reads and writes the version marker.
type Ledger struct {
	pool *pgxpool.Pool
}

// New creates a Ledger backed by the given connection pool.
func New(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// EnsureTable creates the ledger table if it does not exist and seeds
// the single row at Uninitialized.
func (l *Ledger) EnsureTable(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("%w: %w", ErrTableCreation, err)
	}

	_, err := l.pool.Exec(ctx,
		`INSERT INTO `+TableName+` (version)
		 SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM `+TableName+`)`,
		Uninitialized,
	)
	if err != nil {
		return fmt.Errorf("seeding ledger row: %w", err)
	}

	return nil
}

// Current returns the highest fully applied snapshot version, or
// Uninitialized when the ledger table or row is absent.
func (l *Ledger) Current(ctx context.Context) (int, error) {
	var reg *string

	err := l.pool.QueryRow(ctx, `SELECT to_regclass($1)::text`, TableName).Scan(&reg)
	if err != nil {
		return 0, fmt.Errorf("checking ledger table: %w", err)
	}

	if reg == nil {
		return Uninitialized, nil
	}

	var version int

	err = l.pool.QueryRow(ctx, `SELECT version FROM `+TableName).Scan(&version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Uninitialized, nil
		}

		return 0, fmt.Errorf("reading ledger version: %w", err)
	}

	return version, nil
}

// Advance records version as applied. It runs on the given Execer so
// the update commits or rolls back together with the migration unit;
// a failed unit never advances the ledger.
func (l *Ledger) Advance(ctx context.Context, db Execer, version int) error {
	tag, err := db.Exec(ctx, `UPDATE `+TableName+` SET version = $1`, version)
	if err != nil {
		return fmt.Errorf("advancing ledger to %d: %w", version, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("advancing ledger to %d: %w", version, ErrMissingRow)
	}

	return nil
}

// Drop removes the ledger marker entirely, returning the database to
// the uninitialized state. The next migrate replays the full history.
func (l *Ledger) Drop(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, `DROP TABLE IF EXISTS `+TableName); err != nil {
		return fmt.Errorf("dropping ledger table: %w", err)
	}

	return nil
}

// Reset drops the ledger marker and recreates it directly at version,
// bypassing intermediate history.
func (l *Ledger) Reset(ctx context.Context, version int) error {
	if err := l.Drop(ctx); err != nil {
		return err
	}

	if err := l.EnsureTable(ctx); err != nil {
		return err
	}

	return l.Advance(ctx, l.pool, version)
}
