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

// errDeleteNotConfirmed is returned when delete runs without --yes.
var errDeleteNotConfirmed = errors.New("delete drops every declared table; re-run with --yes to confirm")

var deleteCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "delete",
	Short: "Drop every declared table and type without rebuilding",
	Long: `Drop every declared table and type plus the version ledger, leaving
the database uninitialized. Unlike reset nothing is rebuilt; the next
migrate replays the full history from snapshot 0.`,
	RunE: runDelete,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for flag registration
	deleteCmd.Flags().Bool("yes", false, "confirm the destructive delete")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, _ []string) error {
	cfg := AppConfig

	if cfg.DatabaseURL == "" {
		return errDatabaseURLRequired
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		return errDeleteNotConfirmed
	}

	store := snapshot.NewStore(cfg.MigrationsDir)

	// Drop everything either the history or the current declarations
	// know about. An empty store still tears down the ledger.
	drop := schema.NewModel()

	latest, ok, err := store.Latest()
	if err != nil {
		return err
	}

	if ok {
		drop = schema.Merge(drop, latest.Model)
	}

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

	if err := executor.New(pool, ledger.New(pool)).Teardown(ctx, drop); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Delete complete: database emptied.")

	return nil
}
