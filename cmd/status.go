package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/sweeper/internal/status"
)

var (
	statusRefresh int
	statusJSON    bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show free space and recent sweeps",
	Long:  "Free space on the volumes holding the sweep roots, with the latest entries of the sweep log.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := status.NewCollector(env.roots, env.audit)

		if statusJSON || !isTerminal(os.Stdout) {
			snap, err := c.CollectMetrics(cmd.Context())
			if err != nil {
				return err
			}
			if statusJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			status.PrintStatic(cmd.OutOrStdout(), snap)
			return nil
		}

		m := status.NewStatusModel(c, time.Duration(statusRefresh)*time.Second)
		if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
			return fmt.Errorf("status: %w", err)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusRefresh, "refresh", 2, "Refresh interval in seconds")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output the snapshot as JSON")
}
