package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schedule [cron-expression]",
		Aliases: []string{"sch", "sche", "sched"},
		Short:   "Manage automatic sampling schedule",
		Long: `Manage automatic sampling schedule.

The schedule command can be used in multiple ways:
  handeye schedule 'second minute hour day month weekday' Set schedule with cron expression
  handeye schedule disable                                Disable the schedule
  handeye schedule postpone [duration]                    Postpone next run
  handeye schedule skip                                   Skip next run
  handeye schedule show                                   Show current schedule

Scheduled sampling only makes sense when something else moves the robot
between runs; each run is skipped if the frames have gone stale.`,
		Example: `  handeye schedule '@every 30s'   (A sample every 30 seconds)
  handeye schedule '*/10 * * * * *' (A sample every 10 seconds)`,
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, args []string) error {
			// If no arguments, show the current schedule
			if len(args) == 0 {
				return runScheduleShow(cmd)
			}
			// Otherwise, treat as a cron expression to set
			return runScheduleSet(cmd, args[0])
		},
	}

	// Add subcommands
	cmd.AddCommand(
		newScheduleDisableCommand(),
		newSchedulePostponeCommand(),
		newScheduleSkipCommand(),
		newScheduleShowCommand(),
	)

	return cmd
}

func newScheduleDisableCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Disable the sampling schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScheduleDisable(cmd)
		},
	}
}

func newSchedulePostponeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "postpone [duration]",
		Short: "Postpone the next scheduled sample",
		Example: `  handeye schedule postpone      (Postpone by 1 minute)
  handeye schedule postpone 30s  (Postpone by 30 seconds)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := time.Minute // default
			if len(args) > 0 {
				parsed, err := time.ParseDuration(args[0])
				if err != nil {
					return fmt.Errorf("invalid duration %q: %w", args[0], err)
				}
				d = parsed
			}
			return runSchedulePostpone(cmd, d)
		},
	}
}

func newScheduleSkipCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "Skip the next scheduled sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScheduleSkip(cmd)
		},
	}
}

func newScheduleShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current sampling schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScheduleShow(cmd)
		},
	}
}

func runScheduleSet(cmd *cobra.Command, cronExpr string) error {
	if cronExpr == "" {
		return fmt.Errorf("cron expression cannot be empty")
	}
	if _, err := apiClient.SetSampleSchedule(cronExpr); err != nil {
		return err
	}
	return runScheduleShow(cmd)
}

func runScheduleDisable(cmd *cobra.Command) error {
	if _, err := apiClient.RemoveSampleSchedule(); err != nil {
		return err
	}
	cmd.Println("Sampling schedule disabled.")
	return nil
}

func runSchedulePostpone(cmd *cobra.Command, duration time.Duration) error {
	if _, err := apiClient.PostponeSampleSchedule(duration); err != nil {
		return err
	}
	cmd.Printf("Next run postponed by %s.\n", duration)
	return nil
}

func runScheduleSkip(cmd *cobra.Command) error {
	if _, err := apiClient.SkipSampleSchedule(); err != nil {
		return err
	}
	cmd.Println("Next scheduled run skipped.")
	return nil
}

func runScheduleShow(cmd *cobra.Command) error {
	status, err := apiClient.GetSampleSchedule()
	if err != nil {
		return err
	}
	if !status.Active {
		cmd.Println("Sampling schedule is not set.")
		return nil
	}
	cmd.Printf("Next run: %s\n", status.NextRun.Local().Format(time.DateTime))
	return nil
}
