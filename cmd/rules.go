package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/report"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

var rulesForce bool

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect and edit the rule set",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the active rules",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, r := range env.store.Load() {
			fmt.Fprintf(out, "%-30s %-10s", r.Label, r.Severity)
			if r.MinSize > 0 {
				fmt.Fprintf(out, " ≥%s", core.FormatSize(r.MinSize))
			}
			if r.MinAge > 0 {
				fmt.Fprintf(out, " >%dd", r.MinAge)
			}
			fmt.Fprintf(out, "\n    %s\n", report.Shorten(r.Path.String(), 100))
		}
		return nil
	},
}

var rulesValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a rule file and report every problem",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := env.store.Path
		if len(args) == 1 {
			path = args[0]
		}
		rs, err := rules.LoadFile(path, env.roots)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rules OK\n", path, len(rs))
		return nil
	},
}

var rulesInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in rules to the rule file for editing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := rules.WriteTemplate(env.store.Path, rulesForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", env.store.Path)
		return nil
	},
}

func init() {
	rulesInitCmd.Flags().BoolVar(&rulesForce, "force", false, "Overwrite an existing rule file")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesValidateCmd)
	rulesCmd.AddCommand(rulesInitCmd)
}
