package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/robokit/handeye/pkg/calibration"
	"github.com/robokit/handeye/pkg/client"
	"github.com/robokit/handeye/pkg/frames"
	"github.com/robokit/handeye/pkg/sampler"
)

type statusData struct {
	params      *calibration.Parameters
	edges       []frames.Stamped
	samples     []sampler.Sample
	algorithm   string
	schedule    *client.ScheduleStatus
	calibration *calibration.Calibration
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	params, err := apiClient.GetParameters()
	if err != nil {
		return nil, fmt.Errorf("failed to get parameters: %w", err)
	}

	edges, err := apiClient.GetFrames()
	if err != nil {
		return nil, fmt.Errorf("failed to get frames: %w", err)
	}

	samples, err := apiClient.GetSamples()
	if err != nil {
		return nil, fmt.Errorf("failed to get samples: %w", err)
	}

	algorithm, err := apiClient.GetAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("failed to get algorithm: %w", err)
	}

	schedule, err := apiClient.GetSampleSchedule()
	if err != nil {
		return nil, fmt.Errorf("failed to get sample schedule: %w", err)
	}

	cal, err := apiClient.GetCalibration()
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		return nil, fmt.Errorf("failed to get calibration: %w", err)
	}

	return &statusData{
		params:      params,
		edges:       edges,
		samples:     samples,
		algorithm:   algorithm,
		schedule:    schedule,
		calibration: cal,
	}, nil
}

func NewStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the current status of the handeye daemon",
		Long:    `Get the calibration setup, frame availability, sample count, and the last computed result.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			mounting := "eye-to-hand"
			if data.params.EyeInHand {
				mounting = "eye-in-hand"
			}

			cmd.Println(bold("Setup:"))
			cmd.Printf("  Name: %s\n", bold("%s", data.params.Name))
			cmd.Printf("  Mounting: %s\n", bold("%s", mounting))

			cmd.Println()
			cmd.Println(bold("Frames:"))
			if len(data.edges) == 0 {
				cmd.Println("  No frames received. Is a frame bridge running?")
			}
			for _, e := range data.edges {
				age := time.Since(e.At).Round(time.Millisecond)
				cmd.Printf("  %s -> %s (updated %s ago)\n", e.Parent, e.Child, age)
			}

			cmd.Println()
			cmd.Println(bold("Samples:"))
			cmd.Printf("  Taken: %s\n", bold("%d", len(data.samples)))
			cmd.Printf("  Enough to compute: %s\n", bool2Text(len(data.samples) >= 3))
			cmd.Printf("  Algorithm: %s\n", data.algorithm)

			if data.schedule.Active {
				cmd.Printf("  Auto-sampling: %s next run at %s\n",
					bool2Text(true), data.schedule.NextRun.Local().Format(time.DateTime))
			} else {
				cmd.Printf("  Auto-sampling: %s\n", bool2Text(false))
			}

			cmd.Println()
			cmd.Println(bold("Result:"))
			if data.calibration == nil {
				cmd.Println("  No calibration computed yet.")
			} else {
				cmd.Printf("  %s -> %s\n", data.calibration.FrameID, data.calibration.ChildFrameID)
				cmd.Printf("  %s\n", formatTransform(data.calibration.Transform))
			}

			return nil
		},
	}
}
