// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package check runs the batch sanity check: discover cluster files, analyze
// each one, print per-cluster results and summary statistics, and optionally
// quarantine anomalous clusters. Individual failures never abort the batch;
// every cluster is attempted exactly once.
package check

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.yaml.in/yaml/v3"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/clusterqc/internal/coordination"
	"github.com/pdiddy/clusterqc/internal/discover"
	"github.com/pdiddy/clusterqc/internal/quarantine"
	"github.com/pdiddy/clusterqc/internal/xyz"
	"github.com/pdiddy/clusterqc/pkg/types"
)

// BatchResult accumulates the outcome of a batch run. It is threaded through
// the batch loop explicitly; there is no shared mutable state between
// clusters.
type BatchResult struct {
	Analyzed   int
	Failed     int
	Good       int
	Anomalous  int
	Moved      int
	MoveFailed int
	Reports    []types.ClusterReport
}

// Total returns the number of cluster files processed.
func (r BatchResult) Total() int {
	return r.Analyzed + r.Failed
}

// HasFailures reports whether any cluster failed analysis.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Run executes the batch sanity check under cfg, writing per-cluster status
// and the summary to w. Relocation of anomalous clusters goes through rel and
// happens only after all analysis completes; move failures are reported per
// cluster and never roll back earlier moves. Finding no cluster files at all
// is an error.
func Run(cfg types.CheckConfig, rel quarantine.Relocator, w io.Writer) (BatchResult, error) {
	files, err := discover.ClusterFiles(cfg.BaseDir)
	if err != nil {
		return BatchResult{}, fmt.Errorf("searching %s: %w", cfg.BaseDir, err)
	}
	if len(files) == 0 {
		return BatchResult{}, fmt.Errorf("no cluster files found in %s (expected pattern %s)", cfg.BaseDir, discover.Pattern)
	}
	fmt.Fprintf(w, "Found %d cluster files.\n\n", len(files))

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetDescription("Processing clusters"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var result BatchResult
	for _, f := range files {
		report := analyzeFile(f, cfg.AnalysisConfig)
		if report.Failed() {
			result.Failed++
		} else {
			result.Analyzed++
			if report.Anomalous {
				result.Anomalous++
			} else {
				result.Good++
			}
		}
		result.Reports = append(result.Reports, report)
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		bar.Finish()
	}

	printDetails(w, result.Reports)
	printSummary(w, cfg.AnalysisConfig, result)

	if cfg.SortAnomalies {
		relocateAnomalous(&result, files, rel, w)
	}

	if cfg.ReportPath != "" {
		if err := writeReport(cfg, result); err != nil {
			fmt.Fprintf(w, "warning: report write failed: %v\n", err)
		} else {
			fmt.Fprintf(w, "\nReport written to %s\n", cfg.ReportPath)
		}
	}

	return result, nil
}

// analyzeFile parses and analyzes one cluster file. Parse errors and
// Xenon-free clusters become failed reports; the Xenon-free case is also
// flagged anomalous, matching the historical behavior.
func analyzeFile(f types.ClusterFile, cfg types.AnalysisConfig) types.ClusterReport {
	report := types.ClusterReport{ID: f.ID, Path: f.Path}

	cluster, err := xyz.Read(f.Path)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	cluster.ID = f.ID
	report.NumAtoms = cluster.NumAtoms()

	res, err := coordination.Analyze(cluster, cfg.Rcut, cfg.MinNeighbors)
	if err != nil {
		report.Error = err.Error()
		if errors.Is(err, coordination.ErrNoXenon) {
			report.Anomalous = true
		}
		return report
	}

	report.NumXe = len(res.Sites)
	report.Counts = res.Counts()
	report.Anomalous = res.Anomalous
	return report
}

// relocateAnomalous moves every successfully analyzed anomalous cluster to
// the holding directory. Failed analyses are never relocated.
func relocateAnomalous(result *BatchResult, files []types.ClusterFile, rel quarantine.Relocator, w io.Writer) {
	var candidates []int
	for i, r := range result.Reports {
		if !r.Failed() && r.Anomalous {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		fmt.Fprintln(w, "\nNo anomalous clusters found to move.")
		return
	}

	fmt.Fprintf(w, "\nMoving %d anomalous clusters to %s...\n", len(candidates), types.BadSeedsDirName)
	for _, i := range candidates {
		if err := rel.Relocate(files[i]); err != nil {
			fmt.Fprintf(w, "warning: failed to move %s: %v\n", files[i].ID, err)
			result.MoveFailed++
			continue
		}
		result.Reports[i].Moved = true
		result.Moved++
	}
	fmt.Fprintf(w, "Successfully moved %d/%d anomalous clusters.\n", result.Moved, len(candidates))
}

// printDetails writes one result line per cluster, in batch order.
func printDetails(w io.Writer, reports []types.ClusterReport) {
	fmt.Fprintln(w, "Detailed Results:")
	fmt.Fprintln(w, strings.Repeat("-", 80))
	for _, r := range reports {
		if r.Failed() {
			fmt.Fprintf(w, "%-15s | ERROR: %s\n", r.ID, r.Error)
			continue
		}
		fmt.Fprintf(w, "%-15s | %4d atoms | %d Xe | Neighbors: [%-15s] | %s\n",
			r.ID, r.NumAtoms, r.NumXe, joinCounts(r.Counts), r.Verdict())
	}
}

// printSummary writes the aggregate statistics block for the run.
func printSummary(w io.Writer, cfg types.AnalysisConfig, result BatchResult) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\nCLUSTER ANALYSIS SUMMARY\n%s\n", rule, rule)

	fmt.Fprintln(w, "Analysis Parameters:")
	fmt.Fprintf(w, "  - Cutoff radius: %.2f Å\n", cfg.Rcut)
	fmt.Fprintf(w, "  - Minimum neighbors threshold: %d\n\n", cfg.MinNeighbors)

	fmt.Fprintln(w, "File Statistics:")
	fmt.Fprintf(w, "  - Total cluster files found: %d\n", result.Total())
	fmt.Fprintf(w, "  - Successfully analyzed: %d\n", result.Analyzed)
	fmt.Fprintf(w, "  - Failed analyses: %d\n\n", result.Failed)

	if result.Failed > 0 {
		fmt.Fprintln(w, "Failed analyses:")
		for _, r := range result.Reports {
			if r.Failed() {
				fmt.Fprintf(w, "  - %s: %s\n", r.ID, r.Error)
			}
		}
		fmt.Fprintln(w)
	}

	var ok []types.ClusterReport
	for _, r := range result.Reports {
		if !r.Failed() {
			ok = append(ok, r)
		}
	}
	if len(ok) == 0 {
		fmt.Fprintln(w, "No successful analyses to report.")
		return
	}

	var atomCounts, xeCounts, allNeighbors []float64
	for _, r := range ok {
		atomCounts = append(atomCounts, float64(r.NumAtoms))
		xeCounts = append(xeCounts, float64(r.NumXe))
		for _, c := range r.Counts {
			allNeighbors = append(allNeighbors, float64(c))
		}
	}

	fmt.Fprintln(w, "Cluster Composition:")
	lo, hi := minMax(atomCounts)
	fmt.Fprintf(w, "  - Total atoms per cluster: %.0f - %.0f (avg: %.1f)\n", lo, hi, stat.Mean(atomCounts, nil))
	lo, hi = minMax(xeCounts)
	fmt.Fprintf(w, "  - Xe atoms per cluster: %.0f - %.0f (avg: %.1f)\n\n", lo, hi, stat.Mean(xeCounts, nil))

	fmt.Fprintln(w, "Xenon Coordination Analysis:")
	fmt.Fprintf(w, "  - Total Xe atoms analyzed: %d\n", len(allNeighbors))
	lo, hi = minMax(allNeighbors)
	fmt.Fprintf(w, "  - Coordination numbers: %.0f - %.0f (avg: %.1f ± %.1f)\n\n",
		lo, hi, stat.Mean(allNeighbors, nil), stat.PopStdDev(allNeighbors, nil))

	fmt.Fprintln(w, "Quality Assessment:")
	fmt.Fprintf(w, "  - Good clusters: %d (%.1f%%)\n", result.Good, 100*float64(result.Good)/float64(len(ok)))
	fmt.Fprintf(w, "  - Anomalous clusters: %d (%.1f%%)\n", result.Anomalous, 100*float64(result.Anomalous)/float64(len(ok)))

	if result.Anomalous > 0 {
		fmt.Fprintln(w, "\nAnomalous Clusters Details:")
		for _, r := range ok {
			if r.Anomalous {
				fmt.Fprintf(w, "  - %s: Xe coordination = [%s] (min: %d)\n", r.ID, joinCounts(r.Counts), r.MinCount())
			}
		}
	}
	fmt.Fprintf(w, "\n%s\n", rule)
}

// RunReport is the YAML document written when a report path is configured.
type RunReport struct {
	GeneratedAt  time.Time             `yaml:"generated_at"`
	Rcut         float64               `yaml:"rcut"`
	MinNeighbors int                   `yaml:"min_neighbors"`
	BaseDir      string                `yaml:"base_dir"`
	Analyzed     int                   `yaml:"analyzed"`
	Failed       int                   `yaml:"failed"`
	Good         int                   `yaml:"good"`
	Anomalous    int                   `yaml:"anomalous"`
	Moved        int                   `yaml:"moved"`
	Clusters     []types.ClusterReport `yaml:"clusters"`
}

func writeReport(cfg types.CheckConfig, result BatchResult) error {
	report := RunReport{
		GeneratedAt:  time.Now().UTC(),
		Rcut:         cfg.Rcut,
		MinNeighbors: cfg.MinNeighbors,
		BaseDir:      cfg.BaseDir,
		Analyzed:     result.Analyzed,
		Failed:       result.Failed,
		Good:         result.Good,
		Anomalous:    result.Anomalous,
		Moved:        result.Moved,
		Clusters:     result.Reports,
	}
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(cfg.ReportPath, data, 0o644)
}

func joinCounts(counts []int) string {
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return strings.Join(parts, ", ")
}

func minMax(xs []float64) (lo, hi float64) {
	lo, hi = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}
