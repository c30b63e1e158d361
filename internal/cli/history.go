package cli

import (
	"triply/internal/app"

	"github.com/spf13/cobra"
)

func (r *root) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				trips, err := a.History(cmd.Context(), r.owner, limit)
				if err != nil {
					return err
				}
				writeHistory(cmd.OutOrStdout(), trips)
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "Max results")
	return cmd
}
