package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewComputeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "compute",
		Short:   "Compute the calibration from the accumulated samples",
		GroupID: gBasic,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cal, err := apiClient.Compute()
			if err != nil {
				return fmt.Errorf("failed to compute calibration: %v", err)
			}

			cmd.Println(bold("Computed calibration %s -> %s:", cal.FrameID, cal.ChildFrameID))
			cmd.Printf("  %s\n", formatTransform(cal.Transform))
			cmd.Println("Run 'handeye save' to persist it.")
			return nil
		},
	}
}

func NewSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "save",
		Short:   "Persist the last computed calibration",
		GroupID: gBasic,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := apiClient.Save()
			if err != nil {
				return fmt.Errorf("failed to save calibration: %v", err)
			}

			cmd.Printf("Calibration saved to %s.\n", path)
			return nil
		},
	}
}
