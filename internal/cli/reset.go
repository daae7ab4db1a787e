package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declmig/declmig/internal/executor"
	"github.com/declmig/declmig/internal/ledger"
	"github.com/declmig/declmig/internal/schema"
	"github.com/declmig/declmig/internal/snapshot"
)

// errResetNotConfirmed is returned when reset runs without --yes.
var errResetNotConfirmed = errors.New("reset drops every declared table; re-run with --yes to confirm")

var resetCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "reset",
	Short: "Drop everything and rebuild from the latest snapshot",
	Long: `Drop every declared table and type, recreate the schema from the
latest snapshot alone, and set the ledger directly to that version.
Intermediate history is bypassed. A development-time convenience, not a
safe production operation.`,
	RunE: runReset,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	resetCmd.Flags().Bool("yes", false, "confirm the destructive reset")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errResetNotConfirmed
	}

	store := snapshot.NewStore(cfg.MigrationsDir)

	latest, ok, err := store.Latest()
	if err != nil {
		return err
	}

	if !ok {
		return executor.ErrNoSnapshots
	}

	// The current declarations may contain tables the latest snapshot
	// does not know yet; drop those too.
	drop := latest.Model

	if current, err := store.Current(); err == nil {
		drop = schema.Merge(drop, current)
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

	exec := executor.New(pool, ledger.New(pool))

	if err := exec.Reset(ctx, drop, latest); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Reset complete: database rebuilt at snapshot %d.\n", latest.Version)

	return nil
}
