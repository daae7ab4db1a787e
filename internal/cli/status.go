package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declmig/declmig/internal/ledger"
	"github.com/declmig/declmig/internal/snapshot"
)

var statusCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "status",
	Short: "Show the database's snapshot version against the local history",
	RunE:  runStatus,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	store := snapshot.NewStore(cfg.MigrationsDir)
	versions := store.Versions()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := connectDB(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer pool.Close()

	current, err := ledger.New(pool).Current(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if current == ledger.Uninitialized {
		fmt.Fprintln(out, "Database: uninitialized (no ledger)")
	} else {
		fmt.Fprintf(out, "Database: at snapshot %d\n", current)
	}

	if len(versions) == 0 {
		fmt.Fprintln(out, "Local history: empty")
		return nil
	}

	latest := versions[len(versions)-1]
	fmt.Fprintf(out, "Local history: snapshots 0..%d\n", latest)

	switch {
	case current > latest:
		fmt.Fprintf(out, "WARNING: ledger is ahead of the local history (%d > %d)\n", current, latest)
	case current == latest:
		fmt.Fprintln(out, "Up to date.")
	default:
		fmt.Fprintf(out, "Pending: %d snapshot(s)\n", latest-current)
	}

	return nil
}
