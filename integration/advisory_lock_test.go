//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declmig/declmig/internal/database"
	"github.com/declmig/declmig/internal/executor"
	"github.com/declmig/declmig/internal/ledger"
)

func TestAdvisoryLock_acquireAndRelease(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	handle, err := database.TryAcquireLock(ctx, pool)
	require.NoError(t, err)
	require.NotNil(t, handle)

	require.NoError(t, handle.Release(ctx))

	// Released locks can be taken again.
	handle, err = database.TryAcquireLock(ctx, pool)
	require.NoError(t, err)
	require.NoError(t, handle.Release(ctx))
}

func TestAdvisoryLock_doubleAcquire_returnsLockNotAcquired(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	held, err := database.TryAcquireLock(ctx, pool)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = held.Release(context.Background())
	})

	handle, err := database.TryAcquireLock(ctx, pool)
	assert.Nil(t, handle)
	require.ErrorIs(t, err, database.ErrLockNotAcquired)
}

func TestAdvisoryLock_releaseTwice_isNoOp(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	handle, err := database.TryAcquireLock(ctx, pool)
	require.NoError(t, err)

	require.NoError(t, handle.Release(ctx))
	require.NoError(t, handle.Release(ctx))
}

func TestMigrate_heldLock_refusesToRun(t *testing.T) {
	t.Parallel()

	pool := SetupPostgres(t)
	ctx := context.Background()

	held, err := database.TryAcquireLock(ctx, pool)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = held.Release(context.Background())
	})

	err = executor.New(pool, ledger.New(pool)).Migrate(ctx, buildHistory(t))

	require.ErrorIs(t, err, database.ErrLockNotAcquired)
}
