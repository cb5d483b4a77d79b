package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

type resyncResult struct {
	Pushed int    `json:"pushed"`
	Error  string `json:"error,omitempty"`
}

func NewRosterCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Live roster maintenance",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "resync",
		Short: "Re-push display fields of every local profile",
		Long: `Re-push the display fields of every local profile to the live roster.
Active flags are left untouched, so removed employees stay removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResync(opts, cmd)
		},
	})

	return cmd
}

func runResync(opts *RootOptions, cmd *cobra.Command) error {
	resyncer, release, err := opts.Backend.Roster(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "connect failed", err)
	}
	defer release()

	pushed, resyncErr := resyncer.ResyncRoster(cmd.Context())

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		res := resyncResult{Pushed: pushed}
		if resyncErr != nil {
			res.Error = resyncErr.Error()
		}
		if err := writeJSON(out, res); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "pushed %d profile(s)\n", pushed)
	}

	if resyncErr != nil {
		return WrapExitError(ExitFailure, "resync incomplete", resyncErr)
	}
	return nil
}
