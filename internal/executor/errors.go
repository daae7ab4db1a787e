package executor

import "errors"

// ErrUneditedPlaceholder indicates a snapshot's up.sql still contains
// the generated default placeholder and must be edited before it can
// be applied.
var ErrUneditedPlaceholder = errors.New("up.sql contains an unedited default placeholder")

// ErrNoSnapshots indicates reset was requested but the store holds no
// committed snapshot to rebuild from.
var ErrNoSnapshots = errors.New("no snapshots to rebuild from")
