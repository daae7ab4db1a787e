package executor

import (
	"context"
	"fmt"

	"github.com/declmig/declmig/internal/emit"
	"github.com/declmig/declmig/internal/schema"
	"github.com/declmig/declmig/internal/snapshot"
)

// Reset drops every object in the drop model unconditionally, replays
// the full creation SQL derived from the latest snapshot's model, and
// sets the ledger directly to that version. Intermediate history is
// bypassed on purpose: this is a development-time convenience, not a
// safe production operation.
//
// The drop model should be the union of the latest snapshot's model and
// the current declarations, so tables that only exist in one of the two
// are cleaned up as well.
func (e *Executor) Reset(ctx context.Context, drop schema.Model, latest snapshot.Snapshot) error {
	lock, err := e.acquireLock(ctx)
	if err != nil {
		return fmt.Errorf("acquiring migration lock: %w", err)
	}
	defer lock.Release(ctx) //nolint:errcheck // best-effort release on return

	if dropSQL := emit.DropAll(drop); dropSQL != "" {
		if _, err := e.pool.Exec(ctx, dropSQL); err != nil {
			return fmt.Errorf("dropping schema: %w", err)
		}
	}

	if createSQL := emit.CreateAll(latest.Model); createSQL != "" {
		if _, err := e.pool.Exec(ctx, createSQL); err != nil {
			return fmt.Errorf("recreating schema at version %d: %w", latest.Version, err)
		}
	}

	return e.ledger.Reset(ctx, latest.Version)
}
