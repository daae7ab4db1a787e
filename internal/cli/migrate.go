package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/declmig/declmig/internal/config"
	"github.com/declmig/declmig/internal/database"
	"github.com/declmig/declmig/internal/executor"
	"github.com/declmig/declmig/internal/ledger"
	"github.com/declmig/declmig/internal/snapshot"
)

// errDatabaseURLRequired is returned when no database URL is configured.
var errDatabaseURLRequired = errors.New(
	"database URL is required (set --database-url, DECLMIG_DATABASE_URL, or database_url in config)",
)

var migrateCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "migrate",
	Short: "Apply pending snapshot versions",
	Long: `Apply every snapshot version the database has not reached yet, in
ascending order. Each version's up.sql runs together with the ledger
advance in a single transaction; the first failure halts the run.`,
	RunE: runMigrate,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	migrateCmd.Flags().Bool("dry-run", false, "show what would be applied without executing")
	migrateCmd.Flags().Duration("lock-timeout", 0, "override lock timeout (e.g., 10s, 1m)")
	migrateCmd.Flags().Duration("statement-timeout", 0, "override statement timeout (e.g., 30s, 5m)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	lockTimeout := cfg.LockTimeout
	if cmd.Flags().Changed("lock-timeout") {
		lockTimeout, _ = cmd.Flags().GetDuration("lock-timeout")
	}

	stmtTimeout := cfg.StatementTimeout
	if cmd.Flags().Changed("statement-timeout") {
		stmtTimeout, _ = cmd.Flags().GetDuration("statement-timeout")
	}

	store := snapshot.NewStore(cfg.MigrationsDir)

	snaps, err := loadSnapshots(store, cmd.OutOrStdout())
	if err != nil || snaps == nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := connectDB(ctx, cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer pool.Close()

	return executeMigrate(ctx, cmd.OutOrStdout(), pool, snaps, migrateOpts{
		lockTimeout: lockTimeout,
		stmtTimeout: stmtTimeout,
		dryRun:      dryRun,
	})
}

type migrateOpts struct {
	lockTimeout time.Duration
	stmtTimeout time.Duration
	dryRun      bool
}

// loadSnapshots reads the full committed history in ascending order.
func loadSnapshots(store *snapshot.Store, out io.Writer) ([]snapshot.Snapshot, error) {
	versions := store.Versions()
	if len(versions) == 0 {
		fmt.Fprintln(out, "No snapshots found.")
		return nil, nil //nolint:nilnil // nil,nil signals "no snapshots, no error"
	}

	snaps := make([]snapshot.Snapshot, 0, len(versions))

	for _, v := range versions {
		snap, err := store.Load(v)
		if err != nil {
			return nil, fmt.Errorf("loading snapshots: %w", err)
		}

		snaps = append(snaps, snap)
	}

	return snaps, nil
}

func connectDB(ctx context.Context, cfg *config.Config, out io.Writer) (*pgxpool.Pool, error) {
	fmt.Fprintf(out, "Connecting to %s\n", config.RedactURL(cfg.DatabaseURL))

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return pool, nil
}

func executeMigrate(
	ctx context.Context,
	out io.Writer,
	pool *pgxpool.Pool,
	snaps []snapshot.Snapshot,
	opts migrateOpts,
) error {
	applied := 0
	skipped := 0

	exec := executor.New(pool, ledger.New(pool),
		executor.WithLockTimeout(opts.lockTimeout),
		executor.WithStatementTimeout(opts.stmtTimeout),
		executor.WithDryRun(opts.dryRun),
		executor.WithProgressCallback(func(event executor.ProgressEvent) {
			switch event.Status {
			case executor.StatusStarting:
				fmt.Fprintf(out, "  Applying snapshot %d ... ", event.Version)
			case executor.StatusCompleted:
				fmt.Fprintf(out, "done (%s)\n", event.Duration.Truncate(time.Millisecond))
				applied++
			case executor.StatusSkipped:
				skipped++
			case executor.StatusFailed:
				fmt.Fprintf(out, "FAILED\n")
				fmt.Fprintf(out, "    Error: %v\n", event.Error)
			}
		}),
	)

	if opts.dryRun {
		fmt.Fprintln(out, "\n--- DRY RUN (no changes will be made) ---")
	}

	if err := exec.Migrate(ctx, snaps); err != nil {
		return err
	}

	if opts.dryRun {
		fmt.Fprintf(out, "\nDry run complete: %d snapshot(s) would be applied, %d already applied.\n",
			len(snaps)-skipped, skipped)
	} else {
		fmt.Fprintf(out, "\nMigrate complete: %d applied, %d skipped.\n", applied, skipped)
	}

	return nil
}
