package cli

import (
	"fmt"

	"triply/internal/app"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func (r *root) metricsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show daily LLM token usage and the most planned destinations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				usage, err := a.Usage(cmd.Context(), days)
				if err != nil {
					return err
				}
				top, err := a.TopDestinations(cmd.Context(), days, 5)
				if err != nil {
					return err
				}
				writeUsage(cmd.OutOrStdout(), usage, top)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to report")
	return cmd
}

func (r *root) metricsCleanupCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "metrics-cleanup",
		Short: "Remove old metric records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				affected, err := a.CleanupMetrics(cmd.Context(), days)
				if err != nil {
					return fmt.Errorf("cleanup failed: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d usage %s.\n", affected, english.PluralWord(int(affected), "record", ""))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 30, "Keep records for the last N days")
	return cmd
}
