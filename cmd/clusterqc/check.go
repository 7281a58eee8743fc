// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/clusterqc/internal/check"
	"github.com/pdiddy/clusterqc/internal/history"
	"github.com/pdiddy/clusterqc/internal/quarantine"
	"github.com/pdiddy/clusterqc/pkg/types"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Analyze cluster folders and flag low-coordination Xe environments",
	Long: `Check scans the base directory for cluster geometry files
(cluster_*/coord_*ClusterAroundXeNew.xyz), counts each Xenon atom's neighbors
within the cutoff radius, and reports clusters whose minimum Xe coordination
falls below the threshold. With --sort-out-anomalies, anomalous cluster
folders are moved wholesale into bad_seeds/. Each run is recorded in a local
history database unless --no-history is given.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Float64("rcut", types.DefaultRcut, "cutoff radius for the neighbor search in Angstroms")
	checkCmd.Flags().Int("num-atoms", types.DefaultMinNeighbors, "minimum number of neighbors for good clusters")
	checkCmd.Flags().Bool("sort-out-anomalies", false, "move anomalous clusters to the bad_seeds folder")
	checkCmd.Flags().String("base-dir", ".", "base directory containing cluster folders")
	checkCmd.Flags().String("report", "", "write a YAML run report to this path")
	checkCmd.Flags().Bool("no-progress", false, "disable the progress bar")
	checkCmd.Flags().String("history-db", "", "history database path (default: <base-dir>/"+history.DefaultDBName+")")
	checkCmd.Flags().Bool("no-history", false, "do not record this run in the history database")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := types.CheckConfig{
		AnalysisConfig: types.AnalysisConfig{
			Rcut:         flagFloat64(cmd, "rcut"),
			MinNeighbors: flagInt(cmd, "num-atoms"),
		},
		BaseDir:       flagString(cmd, "base-dir"),
		SortAnomalies: flagBool(cmd, "sort-out-anomalies"),
		ReportPath:    flagString(cmd, "report"),
		Progress:      !flagBool(cmd, "no-progress"),
	}
	if cfg.Rcut <= 0 {
		return fmt.Errorf("rcut must be positive, got %v", cfg.Rcut)
	}
	if cfg.MinNeighbors <= 0 {
		return fmt.Errorf("num-atoms must be positive, got %d", cfg.MinNeighbors)
	}

	fmt.Println("Cluster Sanity Check Analysis")
	fmt.Println(strings.Repeat("=", 50))
	fmt.Println("Parameters:")
	fmt.Printf("  - Base directory: %s\n", cfg.BaseDir)
	fmt.Printf("  - Cutoff radius: %g Å\n", cfg.Rcut)
	fmt.Printf("  - Minimum neighbors: %d\n", cfg.MinNeighbors)
	fmt.Printf("  - Sort out anomalies: %v\n\n", cfg.SortAnomalies)

	rel := quarantine.DirMover{BadSeedsDir: filepath.Join(cfg.BaseDir, types.BadSeedsDirName)}

	started := time.Now()
	result, err := check.Run(cfg, rel, os.Stdout)
	if err != nil {
		return err
	}

	if !flagBool(cmd, "no-history") {
		if err := recordRun(cmd, cfg, started, result); err != nil {
			fmt.Fprintf(os.Stderr, "warning: history recording failed: %v\n", err)
		}
	}

	fmt.Println("\nAnalysis completed!")

	if result.HasFailures() {
		return fmt.Errorf("%d cluster(s) failed analysis", result.Failed)
	}
	return nil
}

func recordRun(cmd *cobra.Command, cfg types.CheckConfig, started time.Time, result check.BatchResult) error {
	dbPath := flagString(cmd, "history-db")
	if dbPath == "" {
		dbPath = filepath.Join(cfg.BaseDir, history.DefaultDBName)
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run := history.Run{
		StartedAt:    started,
		BaseDir:      cfg.BaseDir,
		Rcut:         cfg.Rcut,
		MinNeighbors: cfg.MinNeighbors,
		Analyzed:     result.Analyzed,
		Failed:       result.Failed,
		Anomalous:    result.Anomalous,
		Moved:        result.Moved,
	}
	_, err = store.RecordRun(context.Background(), run, result.Reports)
	return err
}
