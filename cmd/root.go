package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/sweeper/internal/report"
)

var (
	// Global flags
	debug      bool
	configFile string
	rulesFile  string
	workers    int

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"

	// Built by PersistentPreRunE for every command that needs it.
	env *app
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// skipSetup marks commands that run without settings, rules or logging.
const skipSetup = "sweeper/skip-setup"

var rootCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Reclaim disk space from caches, temp files and logs",
	Long: `Sweeper - reclaim disk space from caches, temp files and logs.

Findings come from a rule set (built in, or rules.yaml in the config
directory) and are grouped by severity: safe, moderate, aggressive.
Nothing is deleted without confirmation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipSetup] != "" {
			return nil
		}
		a, err := newApp(cmd.Root().PersistentFlags())
		if err != nil {
			return err
		}
		env = a
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Without a subcommand: review on a terminal, report otherwise.
		if isTerminal(os.Stdout) && isTerminal(os.Stdin) {
			return runReview(cmd.Context())
		}
		cs := env.discover(cmd.Context(), report.ModeReport.Severities(), 0)
		report.Print(cmd.OutOrStdout(), report.ModeReport, cs)
		return nil
	},
}

// Execute runs the root command. The metrics textfile and the log are
// finished even when the command fails.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if env != nil {
		if ferr := env.finish(); err == nil {
			err = ferr
		}
		env = nil
	}
	return err
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&debug, "debug", false, "Show detailed operation logs")
	pf.StringVar(&configFile, "config", "", "Settings file (default: config.yaml in the config directory)")
	pf.StringVar(&rulesFile, "rules", "", "Rule file (default: rules.yaml in the config directory)")
	pf.IntVar(&workers, "workers", 0, "Concurrent size walks (default from settings)")

	// Register all subcommands
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print version information",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sweep %s (%s) built %s\n", appVersion, appCommit, appDate)
	},
}
