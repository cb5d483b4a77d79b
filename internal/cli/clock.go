package cli

import (
	"errors"
	"fmt"

	"github.com/rinov1/WorkWave/internal/attendance"
	attendanceerrors "github.com/rinov1/WorkWave/internal/attendance/errors"

	"github.com/spf13/cobra"
)

type ClockOptions struct {
	*RootOptions
	AccountID int64
}

func NewClockCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClockOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clock",
		Short: "Kiosk mode: scan an office code to clock in or out",
		Long: `Read one scanned office code from stdin and clock the account in or out.
An empty line or EOF cancels the scan and leaves every session untouched.

Examples:
  workwave clock in --account 12
  echo OFFICE-7 | workwave clock out --account 12 --format json`,
	}
	cmd.PersistentFlags().Int64Var(&opts.AccountID, "account", 0, "account id (required)")
	_ = cmd.MarkPersistentFlagRequired("account")

	cmd.AddCommand(newClockActionCommand(opts, attendance.KioskClockIn, "Open a work session"))
	cmd.AddCommand(newClockActionCommand(opts, attendance.KioskClockOut, "Close the open work session"))

	return cmd
}

func newClockActionCommand(opts *ClockOptions, action attendance.KioskAction, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(action),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClock(opts, action, cmd)
		},
	}
}

func runClock(opts *ClockOptions, action attendance.KioskAction, cmd *cobra.Command) error {
	if opts.AccountID <= 0 {
		return NewExitError(ExitCommandError, "--account must be a positive id")
	}

	svc, release, err := opts.Backend.Attendance(cmd.Context(), false)
	if err != nil {
		return WrapExitError(ExitCommandError, "connect failed", err)
	}
	defer release()

	fmt.Fprint(cmd.ErrOrStderr(), "scan office code: ")
	kiosk := attendance.NewKiosk(svc, attendance.NewLineScanner(cmd.InOrStdin()))
	session, err := kiosk.Run(cmd.Context(), action, opts.AccountID)
	if err != nil {
		if errors.Is(err, attendanceerrors.ErrScanCancelled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "cancelled")
		}
		return WrapExitError(ExitFailure, "clock "+string(action)+" failed", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), session)
	}
	out := cmd.OutOrStdout()
	if session.Open {
		fmt.Fprintf(out, "session %d open since %s at %s\n", session.ID, session.StartTime.Format("15:04"), session.OfficeID)
		return nil
	}
	fmt.Fprintf(out, "session %d closed, %s to %s\n",
		session.ID,
		session.StartTime.Format("15:04"),
		session.EndTime.Format("15:04"),
	)
	return nil
}
