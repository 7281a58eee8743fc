// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Verdict labels for a cluster's quality assessment.
const (
	VerdictGood      = "GOOD"
	VerdictAnomalous = "ANOMALOUS"
	VerdictError     = "ERROR"
)

// ClusterReport is the per-cluster outcome of one batch run: either a set of
// Xe neighbor counts with a verdict, or an analysis error.
type ClusterReport struct {
	// ID is the cluster identifier (directory name or frame label).
	ID string `json:"id" yaml:"id"`

	// Path is the geometry file that was analyzed.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// NumAtoms is the total atom count of the cluster.
	NumAtoms int `json:"n_atoms" yaml:"n_atoms"`

	// NumXe is the number of Xenon atoms found.
	NumXe int `json:"n_xe" yaml:"n_xe"`

	// Counts holds the per-Xe neighbor counts in Xe appearance order.
	Counts []int `json:"xe_neighbors" yaml:"xe_neighbors,flow"`

	// Anomalous reports whether any Xe count fell below the threshold.
	Anomalous bool `json:"anomalous" yaml:"anomalous"`

	// Error is the analysis failure, empty on success.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	// Moved reports whether the cluster directory was relocated to bad_seeds.
	Moved bool `json:"moved,omitempty" yaml:"moved,omitempty"`
}

// Failed reports whether the cluster could not be analyzed.
func (r ClusterReport) Failed() bool { return r.Error != "" }

// MinCount returns the smallest Xe neighbor count, or 0 when there are none.
func (r ClusterReport) MinCount() int {
	if len(r.Counts) == 0 {
		return 0
	}
	min := r.Counts[0]
	for _, c := range r.Counts[1:] {
		if c < min {
			min = c
		}
	}
	return min
}

// Verdict returns the quality label for this cluster.
func (r ClusterReport) Verdict() string {
	switch {
	case r.Failed():
		return VerdictError
	case r.Anomalous:
		return VerdictAnomalous
	default:
		return VerdictGood
	}
}
