package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/declmig/declmig/internal/snapshot"
)

var hintCmd = &cobra.Command{ //nolint:gochecknoglobals // standard Cobra pattern
	Use:   "hint",
	Short: "Preview the SQL that save would generate",
	Long: `Compute the diff between the current declared schema and the last
saved snapshot and print the resulting up and down SQL without
committing anything. Read-only and safe to call repeatedly.`,
	RunE: runHint,
}

func init() { //nolint:gochecknoinits // standard Cobra pattern for command registration
	hintCmd.Flags().Bool("down", false, "also print the backward SQL")
	rootCmd.AddCommand(hintCmd)
}

func runHint(cmd *cobra.Command, _ []string) error {
	store := snapshot.NewStore(AppConfig.MigrationsDir)

	model, err := store.Current()
	if err != nil {
		return err
	}

	up, down, err := store.Hint(model)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if up == "" {
		fmt.Fprintln(out, "No schema changes.")
		return nil
	}

	fmt.Fprintln(out, up)

	if showDown, _ := cmd.Flags().GetBool("down"); showDown {
		fmt.Fprintln(out, "\n-- down")
		fmt.Fprintln(out, down)
	}

	return nil
}
