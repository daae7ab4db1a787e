package ledger

import "errors"

// ErrTableCreation indicates the ledger table could not be created.
var ErrTableCreation = errors.New("creating ledger table")

// ErrMissingRow indicates the ledger table exists but holds no version
// row, which should be unreachable through this package.
var ErrMissingRow = errors.New("ledger row missing")

// ErrLedgerAhead indicates the recorded version exceeds every known
// snapshot. Migrate refuses to guess intent; only an explicit reset
// moves the marker backwards.
var ErrLedgerAhead = errors.New("ledger version ahead of known snapshots")
