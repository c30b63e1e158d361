package cli

import (
	"triply/internal/app"

	"github.com/spf13/cobra"
)

func (r *root) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <trip-id>",
		Short: "Print a saved itinerary with item addresses and check marks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				t, err := a.GetTrip(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				writeTrip(cmd.OutOrStdout(), t)
				return nil
			})
		},
	}
}
