// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package trajectory analyzes the Xenon environment across every snapshot of
// a multi-frame XYZ trajectory, flagging anomalous frames. Frames are
// independent; a bad frame is reported and the scan continues.
package trajectory

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/clusterqc/internal/coordination"
	"github.com/pdiddy/clusterqc/internal/xyz"
	"github.com/pdiddy/clusterqc/pkg/types"
)

// Result accumulates the outcome of a trajectory scan.
type Result struct {
	Analyzed  int
	Failed    int
	Anomalous int
	Frames    []types.ClusterReport
}

// Total returns the number of frames in the trajectory.
func (r Result) Total() int {
	return r.Analyzed + r.Failed
}

// AnomalousFrames returns the indices of flagged snapshots in frame order.
func (r Result) AnomalousFrames() []int {
	var idx []int
	for i, f := range r.Frames {
		if !f.Failed() && f.Anomalous {
			idx = append(idx, i)
		}
	}
	return idx
}

// Run reads the trajectory at cfg.Path and analyzes every frame with the
// coordination analyzer, writing per-frame status and a summary to w.
func Run(cfg types.TrajectoryConfig, w io.Writer) (Result, error) {
	frames, err := xyz.ReadFrames(cfg.Path)
	if err != nil {
		return Result{}, err
	}
	fmt.Fprintf(w, "Read %d snapshots from %s.\n\n", len(frames), cfg.Path)

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.NewOptions(len(frames),
			progressbar.OptionSetDescription("Analyzing snapshots"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var result Result
	for i, frame := range frames {
		frame.ID = fmt.Sprintf("snapshot_%d", i)
		report := types.ClusterReport{ID: frame.ID, NumAtoms: frame.NumAtoms()}

		res, err := coordination.Analyze(frame, cfg.Rcut, cfg.MinNeighbors)
		if err != nil {
			report.Error = err.Error()
			if errors.Is(err, coordination.ErrNoXenon) {
				report.Anomalous = true
			}
			result.Failed++
		} else {
			report.NumXe = len(res.Sites)
			report.Counts = res.Counts()
			report.Anomalous = res.Anomalous
			result.Analyzed++
			if res.Anomalous {
				result.Anomalous++
			}
		}
		result.Frames = append(result.Frames, report)
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	printResults(w, cfg.AnalysisConfig, result)
	return result, nil
}

func printResults(w io.Writer, cfg types.AnalysisConfig, result Result) {
	fmt.Fprintln(w, "Snapshot Results:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, f := range result.Frames {
		if f.Failed() {
			fmt.Fprintf(w, "%-15s | ERROR: %s\n", f.ID, f.Error)
			continue
		}
		counts := make([]string, len(f.Counts))
		for i, c := range f.Counts {
			counts[i] = fmt.Sprintf("%d", c)
		}
		fmt.Fprintf(w, "%-15s | %4d atoms | %d Xe | Neighbors: [%-15s] | %s\n",
			f.ID, f.NumAtoms, f.NumXe, strings.Join(counts, ", "), f.Verdict())
	}

	rule := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\nTRAJECTORY ANALYSIS SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(w, "  - Cutoff radius: %.2f Å\n", cfg.Rcut)
	fmt.Fprintf(w, "  - Minimum neighbors threshold: %d\n", cfg.MinNeighbors)
	fmt.Fprintf(w, "  - Snapshots: %d (analyzed %d, failed %d)\n", result.Total(), result.Analyzed, result.Failed)

	var all []float64
	for _, f := range result.Frames {
		for _, c := range f.Counts {
			all = append(all, float64(c))
		}
	}
	if len(all) > 0 {
		fmt.Fprintf(w, "  - Coordination numbers: avg %.1f ± %.1f\n",
			stat.Mean(all, nil), stat.PopStdDev(all, nil))
	}

	anomalous := result.AnomalousFrames()
	if len(anomalous) == 0 {
		fmt.Fprintln(w, "  - No anomalous snapshots.")
	} else {
		idx := make([]string, len(anomalous))
		for i, n := range anomalous {
			idx[i] = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(w, "  - Anomalous snapshots (%d): %s\n", len(anomalous), strings.Join(idx, ", "))
	}
	fmt.Fprintln(w, rule)
}
