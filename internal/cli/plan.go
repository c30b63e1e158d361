package cli

import (
	"fmt"
	"os"
	"strings"

	"triply/internal/app"

	"github.com/spf13/cobra"
)

func (r *root) planCmd() *cobra.Command {
	var arrive, depart, icsPath string
	cmd := &cobra.Command{
		Use:     "plan <destination...>",
		Short:   "Generate a new itinerary",
		Example: `  triply plan Rome, Italy --arrive 2024-06-01 --depart 2024-06-03`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			destination := strings.Join(args, " ")
			return r.withApp(cmd, func(a *app.App) error {
				t, err := a.PlanTrip(cmd.Context(), r.owner, destination, arrive, depart)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				writeTrip(out, t)
				if icsPath != "" {
					ics, _, err := a.ExportCalendar(cmd.Context(), t.ID)
					if err != nil {
						return err
					}
					if err := os.WriteFile(icsPath, []byte(ics), 0o644); err != nil {
						return fmt.Errorf("failed to write calendar: %w", err)
					}
					fmt.Fprintf(out, "\nCalendar written to %s\n", icsPath)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&arrive, "arrive", "", "Arrival date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&depart, "depart", "", "Departure date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&icsPath, "ics", "", "Also write an iCalendar file to this path")
	return cmd
}
