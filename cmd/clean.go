package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/sweeper/internal/clean"
	"github.com/lakshaymaurya-felt/sweeper/internal/collect"
	"github.com/lakshaymaurya-felt/sweeper/internal/config"
	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/report"
)

var (
	cleanDeep bool
	dryRun    bool
	assumeYes bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Free up disk space",
	Long: `Delete safe and moderate candidates (every severity with --deep) after
confirmation. Deletion stops between candidates on Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode := report.ModeClean
		if cleanDeep {
			mode = report.ModeDeep
		}
		out := cmd.OutOrStdout()

		cs := env.discover(cmd.Context(), mode.Severities(), 0)
		collect.SortCandidates(cs)
		report.Print(out, mode, cs)
		if len(cs) == 0 {
			fmt.Fprintln(out, "Nothing to clean.")
			return nil
		}

		if sys := clean.NeedsElevation(cs, env.roots.System); len(sys) > 0 && !config.IsElevated() {
			fmt.Fprintf(cmd.ErrOrStderr(),
				"Warning: %d candidate(s) are under %s and usually need administrator rights; they may fail.\n",
				len(sys), env.roots.System)
		}

		if !dryRun && !assumeYes {
			if !isTerminal(os.Stdin) {
				return errors.New("refusing to delete without confirmation on a non-interactive input (use --yes)")
			}
			ok, err := confirm(cmd.InOrStdin(), out,
				fmt.Sprintf("Delete %d items (%s)? This cannot be undone. [y/N] ",
					len(cs), core.FormatSize(collect.TotalSize(cs))))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Aborted.")
				return nil
			}
		}

		exec := env.executor(dryRun)
		exec.Progress = func(p clean.Progress) {
			fmt.Fprintln(out, report.ProgressLine(p))
		}
		rep := exec.DeleteAll(cmd.Context(), cs)
		env.metrics.RecordDeletion(rep)

		fmt.Fprintln(out)
		report.PrintSummary(out, rep)
		for _, f := range rep.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s %s: %v\n", "✗", f.Path, f.Err)
		}
		return nil
	},
}

func init() {
	cleanCmd.Flags().BoolVar(&cleanDeep, "deep", false, "Include aggressive candidates")
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup without deleting")
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
