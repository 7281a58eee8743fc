// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/clusterqc/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past sanity-check runs from the history database",
	Long: `History lists runs recorded by the check command, newest first. Use
--run with a run ID to show that run's per-cluster verdicts.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().String("base-dir", ".", "base directory the checks ran in")
	historyCmd.Flags().String("db", "", "history database path (default: <base-dir>/"+history.DefaultDBName+")")
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyCmd.Flags().Int64("run", 0, "show per-cluster results for this run ID")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath := flagString(cmd, "db")
	if dbPath == "" {
		dbPath = filepath.Join(flagString(cmd, "base-dir"), history.DefaultDBName)
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("no history database at %s (run \"clusterqc check\" first)", dbPath)
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, _ := cmd.Flags().GetInt64("run")
	if runID > 0 {
		return printRunClusters(store, runID)
	}

	limit := flagInt(cmd, "limit")
	runs, err := store.Runs(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-5s  %-20s  %-6s  %-9s  %-8s  %-6s  %-9s  %-5s\n",
		"ID", "Started", "Rcut", "Neighbors", "Analyzed", "Failed", "Anomalous", "Moved")
	fmt.Println(strings.Repeat("-", 84))
	for _, r := range runs {
		fmt.Printf("%-5d  %-20s  %-6.2f  %-9d  %-8d  %-6d  %-9d  %-5d\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Rcut, r.MinNeighbors,
			r.Analyzed, r.Failed, r.Anomalous, r.Moved)
	}
	fmt.Printf("\n%d runs\n", len(runs))
	return nil
}

func printRunClusters(store *history.Store, runID int64) error {
	reports, err := store.RunClusters(context.Background(), runID)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return fmt.Errorf("no clusters recorded for run %d", runID)
	}

	for _, r := range reports {
		if r.Failed() {
			fmt.Printf("%-15s | ERROR: %s\n", r.ID, r.Error)
			continue
		}
		counts := make([]string, len(r.Counts))
		for i, c := range r.Counts {
			counts[i] = fmt.Sprintf("%d", c)
		}
		fmt.Printf("%-15s | %4d atoms | %d Xe | Neighbors: [%-15s] | %s\n",
			r.ID, r.NumAtoms, r.NumXe, strings.Join(counts, ", "), r.Verdict())
	}
	return nil
}
