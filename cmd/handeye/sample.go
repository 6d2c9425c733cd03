package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/robokit/handeye/pkg/calibration"
)

func NewSampleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sample",
		Short:   "Take, list, and remove calibration samples",
		GroupID: gBasic,
		Long: `Take, list, and remove calibration samples.

A sample pairs the current robot transform with the current tracking
transform. Move the robot to a new pose between samples and vary the
rotation axes; at least 3 samples are needed to compute a calibration.`,
	}

	cmd.AddCommand(
		newSampleTakeCommand(),
		newSampleListCommand(),
		newSampleRemoveCommand(),
	)

	return cmd
}

func newSampleTakeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "take",
		Short: "Take a sample at the current pose",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sample, err := apiClient.TakeSample()
			if err != nil {
				return fmt.Errorf("failed to take sample: %v", err)
			}

			samples, err := apiClient.GetSamples()
			if err != nil {
				return fmt.Errorf("failed to count samples: %v", err)
			}

			logrus.Debugf("sampled robot transform: %+v", sample.Robot)
			cmd.Printf("Took sample %d.\n", len(samples))
			return nil
		},
	}
}

func formatTransform(t calibration.Transform) string {
	return fmt.Sprintf("t=(%.4f, %.4f, %.4f) q=(%.4f, %.4f, %.4f, %.4f)",
		t.Translation.X, t.Translation.Y, t.Translation.Z,
		t.Rotation.X, t.Rotation.Y, t.Rotation.Z, t.Rotation.W)
}

func newSampleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accumulated samples",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			samples, err := apiClient.GetSamples()
			if err != nil {
				return fmt.Errorf("failed to list samples: %v", err)
			}

			if len(samples) == 0 {
				cmd.Println("No samples taken yet.")
				return nil
			}

			cmd.Println(bold("%d sample(s):", len(samples)))
			for i, s := range samples {
				cmd.Printf("  %d:\n", i)
				cmd.Printf("    robot:   %s\n", formatTransform(s.Robot))
				cmd.Printf("    optical: %s\n", formatTransform(s.Optical))
			}
			return nil
		},
	}
}

func newSampleRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [index]",
		Short: "Remove the sample at the given index",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIntArg(args, "index")
			if err != nil {
				return err
			}

			count, err := apiClient.RemoveSample(index)
			if err != nil {
				return fmt.Errorf("failed to remove sample: %v", err)
			}

			cmd.Printf("Removed sample %d, %d left.\n", index, count)
			return nil
		},
	}
}
