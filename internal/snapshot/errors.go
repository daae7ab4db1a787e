package snapshot

import "errors"

// ErrNoCurrentModel indicates no declared model has been written to the
// current unit yet.
var ErrNoCurrentModel = errors.New("no current schema model")

// ErrSnapshotNotFound indicates the requested snapshot version does not
// exist in the store.
var ErrSnapshotNotFound = errors.New("snapshot not found")
