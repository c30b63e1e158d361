package cli

import (
	"fmt"

	"triply/internal/app"

	"github.com/spf13/cobra"
)

func (r *root) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <trip-id>",
		Short: "Remove a trip from history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				if err := a.DeleteTrip(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted trip %s\n", args[0])
				return nil
			})
		},
	}
}
