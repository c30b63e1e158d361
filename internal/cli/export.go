package cli

import (
	"fmt"
	"os"

	"triply/internal/app"
	"triply/internal/calendar"

	"github.com/spf13/cobra"
)

func (r *root) exportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <trip-id>",
		Short: "Export a trip as an iCalendar file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				ics, t, err := a.ExportCalendar(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if outPath == "-" {
					fmt.Fprint(cmd.OutOrStdout(), ics)
					return nil
				}
				if outPath == "" {
					outPath = calendar.FileName(t.Destination)
				}
				if err := os.WriteFile(outPath, []byte(ics), 0o644); err != nil {
					return fmt.Errorf("failed to write calendar: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Calendar written to %s\n", outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", `Output path ("-" for stdout, default <destination>.ics)`)
	return cmd
}
