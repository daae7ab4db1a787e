package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declmig/declmig/internal/snapshot"
	"github.com/declmig/declmig/internal/sqlcheck"
)

var saveCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "save",
	Short: "Commit a new schema snapshot",
	Long: `Diff the current declared schema against the last saved snapshot and,
if anything changed, commit a new numbered snapshot with its up.sql and
down.sql. Saving an unchanged schema is a no-op.`,
	RunE: runSave,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, _ []string) error {
	store := snapshot.NewStore(AppConfig.MigrationsDir)

	model, err := store.Current()
	if err != nil {
		return err
	}

	result, err := store.Save(model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if !result.Saved {
		fmt.Fprintln(out, "Nothing to save.")
		return nil
	}

	fmt.Fprintf(out, "Saved snapshot %d.\n", result.Version)

	if sqlcheck.HasDefaultPlaceholder(result.UpSQL) {
		fmt.Fprintf(out, "\nup.sql contains default placeholders that must be edited before migrating.\n")
	}

	return nil
}
