package cli

import (
	"fmt"

	"triply/internal/app"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func (r *root) rerollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reroll <trip-id>",
		Short: "Replace every unchecked activity with a new suggestion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				t, res, err := a.RerollTrip(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Replaced %d %s.\n\n", len(res.Replaced), english.PluralWord(len(res.Replaced), "activity", "activities"))
				writeTrip(out, t)
				return nil
			})
		},
	}
}
