package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

type RootOptions struct {
	Format  string
	Backend Backend
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand builds the workwave command tree on top of backend.
func NewRootCommand(backend Backend) *cobra.Command {
	opts := &RootOptions{Backend: backend}

	cmd := &cobra.Command{
		Use:   "workwave",
		Short: "WorkWave attendance administration and kiosk",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewRosterCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewClockCommand(opts))

	return cmd
}
