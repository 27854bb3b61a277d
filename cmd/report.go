package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/sweeper/internal/core"
	"github.com/lakshaymaurya-felt/sweeper/internal/report"
	"github.com/lakshaymaurya-felt/sweeper/internal/rules"
)

var (
	reportMode       string
	reportSeverities []string
	reportMinSize    string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List reclaimable space without deleting",
	Long: `Scan every rule and print the candidates, grouped by severity and
largest first. Nothing is deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		include, minSize, err := selection(reportMode, reportSeverities, reportMinSize)
		if err != nil {
			return err
		}
		mode, _ := report.ParseMode(reportMode)
		cs := env.discover(cmd.Context(), include, minSize)
		report.Print(cmd.OutOrStdout(), mode, cs)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportMode, "mode", string(report.ModeReport), "Severities to list: report (all), clean (safe+moderate), deep (all)")
	reportCmd.Flags().StringSliceVar(&reportSeverities, "severity", nil, "Only these severities (safe, moderate, aggressive)")
	reportCmd.Flags().StringVar(&reportMinSize, "min-size", "", "Hide candidates smaller than this (e.g., 100MB)")
}

// selection turns the shared filter flags into a severity set and a size
// floor. Explicit severities override the mode.
func selection(mode string, severities []string, minSize string) (rules.SeveritySet, int64, error) {
	m, err := report.ParseMode(mode)
	if err != nil {
		return nil, 0, err
	}
	include := m.Severities()
	if len(severities) > 0 {
		if include, err = rules.ParseSeveritySet(severities); err != nil {
			return nil, 0, err
		}
	}
	floor, err := core.ParseSize(minSize)
	if err != nil {
		return nil, 0, err
	}
	return include, floor, nil
}
