// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package coordination counts the neighbors of every Xenon atom in a cluster
// and classifies the cluster against a minimum-coordination threshold. The
// analyzer is a pure function over the parsed atom list: no I/O, no shared
// state.
package coordination

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pdiddy/clusterqc/pkg/types"
)

// ErrNoXenon reports a cluster that contains no Xenon atoms. Such clusters
// cannot be classified; the batch layer records them as failed analyses and
// never relocates them.
var ErrNoXenon = errors.New("no Xenon atoms found")

// Site is the coordination environment of one Xenon atom.
type Site struct {
	// AtomIndex is the Xe atom's position in the cluster's atom list.
	AtomIndex int

	// Position is the Xe atom's coordinates in Angstroms.
	Position [3]float64

	// Count is the number of atoms (any element) within the cutoff radius,
	// the Xe atom itself excluded.
	Count int

	// Neighbors lists the atom indices within the cutoff, in file order.
	Neighbors []int

	// Distances lists the neighbor distances, parallel to Neighbors.
	Distances []float64

	// MinDist, MaxDist, and AvgDist summarize Distances. They are zero when
	// Count is zero.
	MinDist float64
	MaxDist float64
	AvgDist float64
}

// Result is the outcome of analyzing one cluster.
type Result struct {
	// Sites holds one entry per Xe atom, in Xe appearance order.
	Sites []Site

	// Anomalous reports whether any Xe count fell below the threshold.
	Anomalous bool
}

// Counts returns the per-Xe neighbor counts in Xe appearance order.
func (r Result) Counts() []int {
	counts := make([]int, len(r.Sites))
	for i, s := range r.Sites {
		counts[i] = s.Count
	}
	return counts
}

// MinCount returns the smallest per-Xe neighbor count, or 0 with no sites.
func (r Result) MinCount() int {
	if len(r.Sites) == 0 {
		return 0
	}
	min := r.Sites[0].Count
	for _, s := range r.Sites[1:] {
		if s.Count < min {
			min = s.Count
		}
	}
	return min
}

// Analyze computes the coordination number of every Xenon atom in the
// cluster: for each Xe, the count of atoms at Euclidean distance <= rcut,
// excluding the Xe atom itself (by index, so overlapping atoms still count).
// The cluster is Anomalous when any count is below minNeighbors. Distances
// are plain 3D norms; no periodic wrapping. A cluster without Xenon returns
// ErrNoXenon.
func Analyze(c types.Cluster, rcut float64, minNeighbors int) (Result, error) {
	xeIdx := c.XenonIndices()
	if len(xeIdx) == 0 {
		return Result{}, ErrNoXenon
	}

	var res Result
	for _, xi := range xeIdx {
		site := Site{
			AtomIndex: xi,
			Position:  c.Atoms[xi].Position,
		}
		xe := c.Atoms[xi].Position
		for i, a := range c.Atoms {
			if i == xi {
				continue
			}
			d := floats.Distance(xe[:], a.Position[:], 2)
			if d <= rcut {
				site.Neighbors = append(site.Neighbors, i)
				site.Distances = append(site.Distances, d)
			}
		}
		site.Count = len(site.Neighbors)
		if site.Count > 0 {
			site.MinDist = floats.Min(site.Distances)
			site.MaxDist = floats.Max(site.Distances)
			site.AvgDist = stat.Mean(site.Distances, nil)
		}
		if site.Count < minNeighbors {
			res.Anomalous = true
		}
		res.Sites = append(res.Sites, site)
	}
	return res, nil
}
