package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robokit/handeye/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewParametersCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "parameters",
		Aliases: []string{"params"},
		Short:   "Show the calibration setup the daemon is running with",
		GroupID: gBasic,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := apiClient.GetParameters()
			if err != nil {
				return fmt.Errorf("failed to get parameters: %v", err)
			}

			mounting := "eye-to-hand (camera fixed to the robot base)"
			if params.EyeInHand {
				mounting = "eye-in-hand (camera on the end effector)"
			}

			cmd.Println(bold("Calibration setup:"))
			cmd.Printf("  Name: %s\n", bold("%s", params.Name))
			cmd.Printf("  Mounting: %s\n", bold("%s", mounting))
			cmd.Printf("  Robot base frame: %s\n", params.RobotBaseFrame)
			cmd.Printf("  Robot effector frame: %s\n", params.RobotEffectorFrame)
			cmd.Printf("  Tracking base frame: %s\n", params.TrackingBaseFrame)
			cmd.Printf("  Tracking marker frame: %s\n", params.TrackingMarkerFrame)
			cmd.Printf("  Freehand robot movement: %s\n", bool2Text(params.FreehandRobotMovement))
			if !params.FreehandRobotMovement {
				cmd.Printf("  Move group: %s (namespace %s)\n", params.MoveGroup, params.MoveGroupNamespace)
			}
			return nil
		},
	}
}
