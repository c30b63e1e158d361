// Package cli implements the triply command line.
package cli

import (
	"context"
	"errors"

	"triply/internal/app"
	"triply/internal/planner"

	"github.com/spf13/cobra"
)

// Opener builds the application for a single command run.
type Opener func(ctx context.Context) (*app.App, error)

type root struct {
	open  Opener
	owner string
}

// NewRootCmd returns the top-level command.
func NewRootCmd(open Opener) *cobra.Command {
	r := &root{open: open}
	cmd := &cobra.Command{
		Use:           "triply",
		Short:         "Plan trips day by day with an LLM",
		Long:          "triply generates a multi-day itinerary for a destination, lets you keep the activities you like and rerolls the rest.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&r.owner, "owner", "cli", "History owner the trips belong to")

	cmd.AddCommand(
		r.planCmd(),
		r.showCmd(),
		r.checkCmd(),
		r.rerollCmd(),
		r.exportCmd(),
		r.publishCmd(),
		r.deleteCmd(),
		r.historyCmd(),
		r.metricsCmd(),
		r.metricsCleanupCmd(),
	)
	return cmd
}

// withApp opens the application, runs fn and closes it again.
func (r *root) withApp(cmd *cobra.Command, fn func(a *app.App) error) error {
	a, err := r.open(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// UserMessage converts a command error into the line printed to the user.
// Planner errors collapse to their notice; everything else is shown as is.
func UserMessage(err error) string {
	var (
		validation *planner.ValidationError
		gateway    *planner.GatewayError
		underfill  *planner.UnderfillError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &gateway), errors.As(err, &underfill),
		errors.Is(err, planner.ErrNothingToReroll), errors.Is(err, planner.ErrBusy):
		return planner.Notice(err)
	}
	return err.Error()
}
