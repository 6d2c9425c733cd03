package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func NewAlgorithmCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "algorithm",
		Aliases: []string{"alg"},
		Short:   "List or select the calibration algorithm",
		GroupID: gAdvanced,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAlgorithmShow(cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List available algorithms",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				algorithms, err := apiClient.GetAlgorithms()
				if err != nil {
					return fmt.Errorf("failed to list algorithms: %v", err)
				}

				current, err := apiClient.GetAlgorithm()
				if err != nil {
					return fmt.Errorf("failed to get current algorithm: %v", err)
				}

				for _, alg := range algorithms {
					marker := " "
					if alg == current {
						marker = "*"
					}
					cmd.Printf("%s %s\n", marker, alg)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "set [backend/algorithm]",
			Short: "Select the algorithm used by compute",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := apiClient.SetAlgorithm(args[0]); err != nil {
					return fmt.Errorf("failed to set algorithm: %v", err)
				}
				cmd.Printf("Algorithm set to %s.\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the currently selected algorithm",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runAlgorithmShow(cmd)
			},
		},
	)

	return cmd
}

func runAlgorithmShow(cmd *cobra.Command) error {
	current, err := apiClient.GetAlgorithm()
	if err != nil {
		return fmt.Errorf("failed to get current algorithm: %v", err)
	}
	cmd.Println(current)
	return nil
}
