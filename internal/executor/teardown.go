package executor

import (
	"context"
	"fmt"

	"github.com/declmig/declmig/internal/emit"
	"github.com/declmig/declmig/internal/schema"
)

// Teardown drops every object in the drop model plus the ledger marker,
// leaving the database uninitialized. Unlike Reset nothing is rebuilt;
// the next migrate replays the full history from snapshot 0.
func (e *Executor) Teardown(ctx context.Context, drop schema.Model) error {
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

	return e.ledger.Drop(ctx)
}
