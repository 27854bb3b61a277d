package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/sweeper/internal/collect"
	"github.com/lakshaymaurya-felt/sweeper/internal/report"
)

var (
	exportMode       string
	exportSeverities []string
	exportMinSize    string
)

var exportCmd = &cobra.Command{
	Use:   "export <file.csv>",
	Short: "Write candidates to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		include, minSize, err := selection(exportMode, exportSeverities, exportMinSize)
		if err != nil {
			return err
		}
		cs := env.discover(cmd.Context(), include, minSize)
		collect.SortCandidates(cs)
		if err := report.ExportCSV(args[0], cs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d candidates to %s\n", len(cs), args[0])
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportMode, "mode", string(report.ModeReport), "Severities to export: report (all), clean (safe+moderate), deep (all)")
	exportCmd.Flags().StringSliceVar(&exportSeverities, "severity", nil, "Only these severities (safe, moderate, aggressive)")
	exportCmd.Flags().StringVar(&exportMinSize, "min-size", "", "Skip candidates smaller than this (e.g., 100MB)")
}
