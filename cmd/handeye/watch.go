package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/robokit/handeye/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "watch",
		Short:   "Stream daemon events",
		GroupID: gAdvanced,
		Long:    `Stream sampling and calibration events from the daemon until interrupted.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ch, err := apiClient.Events(ctx)
			if err != nil {
				return fmt.Errorf("failed to subscribe to events: %v", err)
			}

			for ev := range ch {
				line, err := formatEvent(ev)
				if err != nil {
					cmd.PrintErrf("bad %s payload: %v\n", ev.Name, err)
					continue
				}
				cmd.Println(line)
			}
			return nil
		},
	}
}

func formatEvent(ev events.Event) (string, error) {
	switch ev.Name {
	case events.SampleTaken, events.SampleRemoved:
		payload, err := events.DecodeAs[events.SampleEvent](ev)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s index=%d count=%d",
			eventTime(payload.Ts), ev.Name, payload.Index, payload.Count), nil
	case events.CalibrationComputed:
		payload, err := events.DecodeAs[events.CalibrationComputedEvent](ev)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s algorithm=%s %s",
			eventTime(payload.Ts), ev.Name, payload.Algorithm, formatTransform(payload.Transform)), nil
	case events.CalibrationSaved:
		payload, err := events.DecodeAs[events.CalibrationSavedEvent](ev)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s name=%s path=%s",
			eventTime(payload.Ts), ev.Name, payload.Name, payload.Path), nil
	case events.ScheduleError:
		payload, err := events.DecodeAs[events.ScheduleErrorEvent](ev)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s %s", eventTime(payload.Ts), ev.Name, payload.Message), nil
	default:
		return fmt.Sprintf("%s %s", time.Now().Format(time.TimeOnly), ev.Name), nil
	}
}

func eventTime(ts int64) string {
	return time.Unix(ts, 0).Format(time.TimeOnly)
}
