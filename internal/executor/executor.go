// Package executor applies snapshot migrations to a live database. A
// migration unit is one snapshot's up.sql executed together with the
// ledger advance in a single transaction, so a failed unit leaves the
// database at the last fully applied version.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/declmig/declmig/internal/database"
	"github.com/declmig/declmig/internal/ledger"
	"github.com/declmig/declmig/internal/snapshot"
	"github.com/declmig/declmig/internal/sqlcheck"
)

// Progress status constants reported via ProgressEvent.
const (
	StatusStarting  = "starting"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusSkipped   = "skipped"
)

// ProgressEvent is emitted for each snapshot version processed.
type ProgressEvent struct {
	Version  int
	Status   string
	Duration time.Duration
	Error    error
}

// VersionLedger abstracts the database version marker for testability.
type VersionLedger interface {
	EnsureTable(ctx context.Context) error
	Current(ctx context.Context) (int, error)
	Advance(ctx context.Context, db ledger.Execer, version int) error
	Reset(ctx context.Context, version int) error
	Drop(ctx context.Context) error
}

// lockReleaser is returned by lockFunc and must be released when done.
type lockReleaser interface {
	Release(ctx context.Context) error
}

// lockFunc acquires an advisory lock and returns a releaser.
type lockFunc func(ctx context.Context) (lockReleaser, error)

// applyFunc executes one snapshot's migration unit.
type applyFunc func(ctx context.Context, snap snapshot.Snapshot) error

// Executor applies pending snapshot versions with transaction safety,
// timeouts, and an advisory lock guarding against concurrent runs.
type Executor struct {
	pool             *pgxpool.Pool
	ledger           VersionLedger
	lockTimeout      time.Duration
	statementTimeout time.Duration
	dryRun           bool
	onProgress       func(ProgressEvent)
	acquireLock      lockFunc
	applyUnit        applyFunc
}

// Option configures an Executor.
type Option func(*Executor)

// WithLockTimeout sets the per-transaction lock_timeout.
func WithLockTimeout(d time.Duration) Option {
	return func(e *Executor) { e.lockTimeout = d }
}

// WithStatementTimeout sets the per-transaction statement_timeout.
func WithStatementTimeout(d time.Duration) Option {
	return func(e *Executor) { e.statementTimeout = d }
}

// WithDryRun enables dry-run mode where no SQL is executed.
func WithDryRun(b bool) Option {
	return func(e *Executor) { e.dryRun = b }
}

// WithProgressCallback sets a function called per version processed.
func WithProgressCallback(fn func(ProgressEvent)) Option {
	return func(e *Executor) { e.onProgress = fn }
}

// New creates an Executor with the given pool, ledger, and options.
func New(pool *pgxpool.Pool, l VersionLedger, opts ...Option) *Executor {
	e := &Executor{
		pool:   pool,
		ledger: l,
	}

	for _, opt := range opts {
		opt(e)
	}

	// Defaults for injectable functions are set after options so tests
	// can override them.
	if e.acquireLock == nil {
		e.acquireLock = func(ctx context.Context) (lockReleaser, error) {
			return database.TryAcquireLock(ctx, e.pool)
		}
	}

	if e.applyUnit == nil {
		e.applyUnit = e.executeUnit
	}

	return e
}

// Migrate applies every snapshot version strictly greater than the
// ledger's current version, in ascending order. Snapshots must already
// be sorted ascending by version, as the store returns them. The first
// failed unit halts the run; the ledger stays at the last fully
// applied version.
func (e *Executor) Migrate(ctx context.Context, snaps []snapshot.Snapshot) error {
	lock, err := e.acquireLock(ctx)
	if err != nil {
		return fmt.Errorf("acquiring migration lock: %w", err)
	}
	defer lock.Release(ctx) //nolint:errcheck // best-effort release on return

	if err := e.ledger.EnsureTable(ctx); err != nil {
		return err
	}

	current, err := e.ledger.Current(ctx)
	if err != nil {
		return err
	}

	if current > maxVersion(snaps) {
		return fmt.Errorf("ledger at %d: %w", current, ledger.ErrLedgerAhead)
	}

	for _, snap := range snaps {
		if snap.Version <= current {
			e.fireProgress(ProgressEvent{Version: snap.Version, Status: StatusSkipped})
			continue
		}

		if err := e.applyOne(ctx, snap); err != nil {
			return err
		}
	}

	return nil
}

// maxVersion returns the highest snapshot version, or Uninitialized for
// an empty history so that an untouched database passes the check.
func maxVersion(snaps []snapshot.Snapshot) int {
	if len(snaps) == 0 {
		return ledger.Uninitialized
	}

	return snaps[len(snaps)-1].Version
}

// applyOne handles a single snapshot version: placeholder check,
// dry-run short circuit, execute, and fire progress.
func (e *Executor) applyOne(ctx context.Context, snap snapshot.Snapshot) error {
	if sqlcheck.HasDefaultPlaceholder(snap.UpSQL) {
		return fmt.Errorf("snapshot %d: %w", snap.Version, ErrUneditedPlaceholder)
	}

	if e.dryRun {
		e.fireProgress(ProgressEvent{Version: snap.Version, Status: StatusSkipped})
		return nil
	}

	e.fireProgress(ProgressEvent{Version: snap.Version, Status: StatusStarting})

	start := time.Now()
	execErr := e.applyUnit(ctx, snap)
	duration := time.Since(start)

	if execErr != nil {
		e.fireProgress(ProgressEvent{
			Version:  snap.Version,
			Status:   StatusFailed,
			Duration: duration,
			Error:    execErr,
		})

		return fmt.Errorf("applying snapshot %d: %w", snap.Version, execErr)
	}

	e.fireProgress(ProgressEvent{
		Version:  snap.Version,
		Status:   StatusCompleted,
		Duration: duration,
	})

	return nil
}

// executeUnit runs one snapshot's up.sql plus the ledger advance in a
// single transaction, unless the script contains statements that
// cannot run inside a transaction block.
func (e *Executor) executeUnit(ctx context.Context, snap snapshot.Snapshot) error {
	concurrent, err := containsConcurrentIndex(snap.UpSQL)
	if err != nil {
		return err
	}

	if concurrent {
		// CREATE INDEX CONCURRENTLY cannot run inside a transaction
		// block, so the unit loses its atomicity guarantee.
		if _, err := e.pool.Exec(ctx, snap.UpSQL); err != nil {
			return fmt.Errorf("executing SQL outside transaction: %w", err)
		}

		return e.ledger.Advance(ctx, e.pool, snap.Version)
	}

	return e.runUnitTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, snap.UpSQL); err != nil {
			return fmt.Errorf("executing SQL: %w", err)
		}

		return e.ledger.Advance(ctx, tx, snap.Version)
	})
}

func (e *Executor) fireProgress(event ProgressEvent) {
	if e.onProgress != nil {
		e.onProgress(event)
	}
}
