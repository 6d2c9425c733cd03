package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robokit/handeye/pkg/calibration"
)

func NewShowCommand() *cobra.Command {
	var (
		filePath      string
		frameOverride string
		childOverride string
		inverse       bool
		rawYAML       bool
	)

	cmd := &cobra.Command{
		Use:     "show [name]",
		Short:   "Print a saved calibration",
		GroupID: gBasic,
		Long: `Print a saved calibration.

Loads the calibration by name from the calibration directory, or from an
explicit file with --file. The published frame names can be overridden,
and --inverse prints the inverted transform with the frames swapped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var cal *calibration.Calibration
			var err error

			switch {
			case filePath != "":
				cal, err = calibration.LoadFromPath(filePath)
			case len(args) == 1:
				cal, err = calibration.LoadFromFile(args[0])
			default:
				return fmt.Errorf("either a calibration name or --file is required")
			}
			if err != nil {
				return err
			}

			if rawYAML {
				y, err := cal.ToYAML()
				if err != nil {
					return err
				}
				cmd.Print(y)
				return nil
			}

			frameID := cal.FrameID
			childFrameID := cal.ChildFrameID
			if frameOverride != "" {
				frameID = frameOverride
			}
			if childOverride != "" {
				childFrameID = childOverride
			}

			transform := cal.Transform
			if inverse {
				transform = transform.Inverse()
				frameID, childFrameID = childFrameID, frameID
			}

			cmd.Println(bold("Calibration %s:", cal.Parameters.Name))
			cmd.Printf("  %s -> %s\n", frameID, childFrameID)
			cmd.Printf("  %s\n", formatTransform(transform))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&filePath, "file", "", "load the calibration from an explicit file path")
	f.StringVar(&frameOverride, "frame", "", "override the parent frame")
	f.StringVar(&childOverride, "child-frame", "", "override the child frame")
	f.BoolVar(&inverse, "inverse", false, "print the inverted transform")
	f.BoolVar(&rawYAML, "yaml", false, "print the raw calibration file content")

	return cmd
}
