package cli

import (
	"fmt"

	"triply/internal/app"

	"github.com/spf13/cobra"
)

func (r *root) publishCmd() *cobra.Command {
	var draft bool
	cmd := &cobra.Command{
		Use:   "publish <trip-id>",
		Short: "Publish a trip to Ghost",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, func(a *app.App) error {
				post, err := a.PublishTrip(cmd.Context(), args[0], !draft)
				if err != nil {
					return err
				}
				status := "Published"
				if draft {
					status = "Saved draft"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %q (%s)\n", status, post.Title, post.URL)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&draft, "draft", false, "Save as a draft instead of publishing")
	return cmd
}
