package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/report"
	"github.com/lakshaymaurya-felt/sweeper/internal/review"
)

var reviewDryRun bool

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Pick candidates interactively",
	Long: `Scan every rule, then choose what to delete in a full-screen list.
Space toggles, a selects all, i inverts, s changes the sort, e exports CSV,
enter deletes the selection after confirmation.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !isTerminal(os.Stdout) {
			return errors.New("review needs an interactive terminal (try: sweep report)")
		}
		return runReview(cmd.Context())
	},
}

func init() {
	reviewCmd.Flags().BoolVar(&reviewDryRun, "dry-run", false, "Walk through deletion without removing anything")
}

func runReview(ctx context.Context) error {
	fmt.Fprintln(os.Stderr, "Scanning…")
	cs := env.discover(ctx, report.ModeDeep.Severities(), 0)

	rep, err := review.Run(ctx, cs, review.Options{
		Executor:   env.executor(reviewDryRun),
		SystemRoot: env.roots.System,
		Elevated:   config.IsElevated(),
	})
	if err != nil {
		return err
	}
	if rep != nil {
		env.metrics.RecordDeletion(*rep)
		report.PrintSummary(os.Stdout, *rep)
	}
	return nil
}
