package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/rinov1/WorkWave/internal/attendance"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

type SummaryOptions struct {
	*RootOptions
	Date     string
	TimeZone string
}

func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the day summary of every active employee",
		Long: `Print the completed work sessions of one local day for every account on the
live roster, with session count, first start, last end and total time.

Examples:
  workwave summary
  workwave summary --date 2026-03-02 --tz Europe/Moscow
  workwave summary --date 2026-03-02 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "day as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&opts.TimeZone, "tz", "", "IANA time zone (default APP_TIMEZONE)")

	return cmd
}

func runSummary(opts *SummaryOptions, cmd *cobra.Command) error {
	loc := opts.Backend.Location()
	if opts.TimeZone != "" {
		l, err := time.LoadLocation(opts.TimeZone)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --tz", err)
		}
		loc = l
	}

	day := time.Now().In(loc)
	if opts.Date != "" {
		d, err := time.ParseInLocation(dateLayout, opts.Date, loc)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --date, want YYYY-MM-DD", err)
		}
		day = d
	}

	svc, release, err := opts.Backend.Attendance(cmd.Context(), true)
	if err != nil {
		return WrapExitError(ExitCommandError, "connect failed", err)
	}
	defer release()

	summary, err := svc.DaySummary(cmd.Context(), day, attendance.Viewer{IsHR: true})
	if err != nil {
		return WrapExitError(ExitFailure, "summary failed", err)
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), summary)
	}
	return writeSummaryTable(cmd, summary)
}

func writeSummaryTable(cmd *cobra.Command, s attendance.DaySummaryResponse) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", s.Date, s.TimeZone)

	if len(s.Accounts) == 0 {
		fmt.Fprintln(out, "no completed sessions")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tSESSIONS\tFIRST IN\tLAST OUT\tTOTAL")
	for _, a := range s.Accounts {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			a.DisplayName,
			a.Email,
			a.SessionCount,
			a.FirstStart.In(locationOf(s)).Format("15:04"),
			a.LastEnd.In(locationOf(s)).Format("15:04"),
			a.Total,
		)
	}
	fmt.Fprintf(tw, "\t\t\t\t\t%s\n", s.Total)
	return tw.Flush()
}

func locationOf(s attendance.DaySummaryResponse) *time.Location {
	return s.From.Location()
}
