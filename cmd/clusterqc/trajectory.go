// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/clusterqc/internal/trajectory"
	"github.com/pdiddy/clusterqc/pkg/types"
)

var trajectoryCmd = &cobra.Command{
	Use:   "trajectory [file.xyz]",
	Short: "Analyze Xe environments across a multi-frame XYZ trajectory",
	Long: `Trajectory reads a multi-frame XYZ file and runs the same coordination
analysis on every snapshot, flagging frames whose minimum Xe coordination
falls below the threshold. Nothing is moved; this mode only reports.`,
	Args: cobra.ExactArgs(1),
	RunE: runTrajectory,
}

func init() {
	trajectoryCmd.Flags().Float64("rcut", types.DefaultRcut, "cutoff radius for the neighbor search in Angstroms")
	trajectoryCmd.Flags().Int("num-atoms", types.DefaultMinNeighbors, "minimum number of neighbors for good snapshots")
	trajectoryCmd.Flags().Bool("no-progress", false, "disable the progress bar")

	rootCmd.AddCommand(trajectoryCmd)
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg := types.TrajectoryConfig{
		AnalysisConfig: types.AnalysisConfig{
			Rcut:         flagFloat64(cmd, "rcut"),
			MinNeighbors: flagInt(cmd, "num-atoms"),
		},
		Path:     args[0],
		Progress: !flagBool(cmd, "no-progress"),
	}
	if cfg.Rcut <= 0 {
		return fmt.Errorf("rcut must be positive, got %v", cfg.Rcut)
	}
	if cfg.MinNeighbors <= 0 {
		return fmt.Errorf("num-atoms must be positive, got %d", cfg.MinNeighbors)
	}

	result, err := trajectory.Run(cfg, os.Stdout)
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return fmt.Errorf("%d snapshot(s) failed analysis", result.Failed)
	}
	return nil
}
