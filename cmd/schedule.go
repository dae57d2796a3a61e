package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
	"github.com/urfave/cli"

	cmdCommon "github.com/tasknap/tasknap/cmd/common"
	"github.com/tasknap/tasknap/internal/power"
	"github.com/tasknap/tasknap/pkg/napcli"
)

const (
	scheduleAtLayout    = "2006-01-02 15:04"
	scheduleAtLayoutSec = "2006-01-02 15:04:05"
	scheduleClockLayout = "15:04"

	printTimeLayout = "2006-01-02 15:04:05"
)

var (
	scheduleAt    string
	scheduleIn    string
	scheduleEvery string
)

var scheduleFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "at, a",
		Usage:       `absolute fire time, "YYYY-MM-DD HH:MM[:SS]" or bare "HH:MM"`,
		Destination: &scheduleAt,
	},
	cli.StringFlag{
		Name:        "in, i",
		Usage:       "relative delay before firing, e.g. 45m or 2h30m",
		Destination: &scheduleIn,
	},
	cli.StringFlag{
		Name:        "every, e",
		Usage:       "5-field cron expression to repeat the action",
		Destination: &scheduleEvery,
	},
}

// parseAt validates and parses an --at value.
// Full datetimes are taken as-is; a bare clock time means today at that
// time, rolling over to tomorrow when it has already passed.
func parseAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("error: invalid --at format, expected YYYY-MM-DD HH:MM or HH:MM")
	}
	for _, layout := range []string{scheduleAtLayoutSec, scheduleAtLayout} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	t, err := time.ParseInLocation(scheduleClockLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("error: invalid --at format, expected YYYY-MM-DD HH:MM or HH:MM")
	}
	now := time.Now()
	t = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
	if !t.After(now) {
		t = t.Add(24 * time.Hour)
	}
	return t, nil
}

// validateFuture rejects fire times that are not strictly in the future.
// A power action must never fire the moment it is scheduled.
func validateFuture(t time.Time) error {
	if !t.After(time.Now()) {
		return fmt.Errorf("error: the selected time is in the past, choose a future time")
	}
	return nil
}

// parseIn validates an --in duration string and returns the resolved absolute time.
// Valid formats: Go duration syntax (e.g., "2h", "30m", "1h30m", "45s").
// Returns error for empty strings, invalid formats, and non-positive durations.
func parseIn(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("error: invalid --in duration, expected format like 2h, 30m, or 1h30m (days not supported, use 24h)")
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("error: invalid --in duration, expected format like 2h, 30m, or 1h30m (days not supported, use 24h)")
	}
	if d <= 0 {
		return time.Time{}, fmt.Errorf("error: --in duration must be positive")
	}
	return time.Now().Add(d), nil
}

// validateAtInExclusion checks that --at and --in are not both set.
// Returns an error if both are non-empty.
func validateAtInExclusion(at, in string) error {
	if at != "" && in != "" {
		return fmt.Errorf("error: flags --at and --in are mutually exclusive")
	}
	return nil
}

// validateEvery checks if the --every cron expression is valid.
// Enforces exactly 5 fields (minute hour day-of-month month day-of-week).
// Returns error for invalid expressions (empty, wrong field count, invalid values).
func validateEvery(expr string) error {
	if expr == "" {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	// Enforce exactly 5 fields, gronx.IsValid also accepts 6-field (with seconds).
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	if !gronx.IsValid(expr) {
		return fmt.Errorf("error: invalid cron expression %q, expected 5-field format (minute hour day-of-month month day-of-week)", expr)
	}
	return nil
}

// hasOccurrenceWithinYear checks if a cron expression has any occurrence
// within 1 year from the given time. Returns false for invalid expressions
// or if no occurrence exists within the 1-year window.
func hasOccurrenceWithinYear(expr string, from time.Time) bool {
	next, err := gronx.NextTickAfter(expr, from, false)
	if err != nil {
		return false
	}
	return next.Before(from.Add(365 * 24 * time.Hour))
}

func schedule(ctx *cli.Context) error {
	arg := ctx.Args().First()
	if arg == "" {
		if ctx.Command.Name == "" {
			return cmdCommon.Help(ctx)
		}
		return cmdCommon.PrintErrWithCmdHelp(ctx, errors.New("no action provided"))
	} else if arg == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	action, err := power.ParseAction(arg)
	if err != nil {
		return cmdCommon.PrintErrWithCmdHelp(ctx, err)
	}
	if err := validateAtInExclusion(scheduleAt, scheduleIn); err != nil {
		return cmdCommon.PrintErrWithCmdHelp(ctx, err)
	}
	var firesAt time.Time
	switch {
	case scheduleAt != "":
		firesAt, err = parseAt(scheduleAt)
	case scheduleIn != "":
		firesAt, err = parseIn(scheduleIn)
	default:
		err = errors.New("no time provided, use --at or --in")
	}
	if err != nil {
		return cmdCommon.PrintErrWithCmdHelp(ctx, err)
	}
	if err := validateFuture(firesAt); err != nil {
		return cmdCommon.PrintErrWithCmdHelp(ctx, err)
	}
	var opts *napcli.ScheduleOpts
	if scheduleEvery != "" {
		if err := validateEvery(scheduleEvery); err != nil {
			return cmdCommon.PrintErrWithCmdHelp(ctx, err)
		}
		if !hasOccurrenceWithinYear(scheduleEvery, time.Now()) {
			return cmdCommon.PrintErrWithCmdHelp(ctx, errors.New("error: cron expression has no occurrence within a year"))
		}
		opts = &napcli.ScheduleOpts{Every: scheduleEvery}
	}
	client, err := napcli.NewClient()
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "schedule", "new-client", err)
		return nil
	}
	defer client.Close()
	resp, err := client.Schedule(string(action), firesAt, opts)
	if err != nil {
		cmdCommon.PrintRuntimeErr(ctx, "schedule", "schedule", err)
		return nil
	}
	ev := resp.Event
	fmt.Printf("Scheduled %s at %s (event #%d)\n", ev.Action, ev.FiresAt.Local().Format(printTimeLayout), ev.Id)
	if ev.Every != "" {
		fmt.Printf("Repeats on: %s\n", ev.Every)
	}
	return nil
}
