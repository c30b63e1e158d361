package cli

import (
	"fmt"

	"triply/internal/app"

	"github.com/dustin/go-humanize/english"
	"github.com/spf13/cobra"
)

func (r *root) checkCmd() *cobra.Command {
	var uncheck bool
	cmd := &cobra.Command{
		Use:     "check <trip-id> <address...>",
		Short:   "Keep activities so the next reroll leaves them alone",
		Example: `  triply check 01J0ABC 0-morning-0 1-evening-1`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				t, err := a.SetChecked(cmd.Context(), args[0], args[1:], !uncheck)
				if err != nil {
					return err
				}
				verb := "Checked"
				if uncheck {
					verb = "Unchecked"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d %s. %d kept in total.\n",
					verb, len(args)-1, english.PluralWord(len(args)-1, "item", "items"), len(t.Checked))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&uncheck, "uncheck", false, "Uncheck instead of check")
	return cmd
}
